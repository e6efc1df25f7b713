package httpclient

import "net/http"

// HeaderRoundTripper sets static headers on every outgoing request. Headers
// the caller already set are left alone.
type HeaderRoundTripper struct {
	next   http.RoundTripper
	header http.Header
}

func NewHeaderRoundTripper(next http.RoundTripper, header http.Header) *HeaderRoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}

	return &HeaderRoundTripper{
		next:   next,
		header: header.Clone(),
	}
}

func (rt *HeaderRoundTripper) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())

	for k, vs := range rt.header {
		if r.Header.Get(k) != "" {
			continue
		}
		for _, v := range vs {
			r.Header.Add(k, v)
		}
	}

	return rt.next.RoundTrip(r)
}
