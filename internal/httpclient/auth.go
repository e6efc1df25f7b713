package httpclient

import (
	"net/http"

	"golang.org/x/oauth2"
)

// TokenFunc returns the current bearer token and whether there is one.
type TokenFunc func() (string, bool)

// BearerRoundTripper authenticates requests with the token returned by
// token at request time. Requests go out anonymously while there is no
// token, so public endpoints keep working for logged-out users.
type BearerRoundTripper struct {
	next  http.RoundTripper
	token TokenFunc
}

func NewBearerRoundTripper(next http.RoundTripper, token TokenFunc) *BearerRoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}

	return &BearerRoundTripper{
		next:  next,
		token: token,
	}
}

func (rt *BearerRoundTripper) RoundTrip(r *http.Request) (*http.Response, error) {
	accessToken, ok := rt.token()
	if !ok {
		return rt.next.RoundTrip(r)
	}

	t := &oauth2.Transport{
		Source: oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: accessToken,
			TokenType:   "Bearer",
		}),
		Base: rt.next,
	}

	return t.RoundTrip(r)
}
