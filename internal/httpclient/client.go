package httpclient

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"time"
)

type Options struct {
	Timeout   time.Duration
	UserAgent string
	Token     TokenFunc
}

// New builds the client used for API calls: proxy from environment, a cookie
// jar, static headers and bearer auth.
func New(opts Options) (*http.Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("can't create cookie jar: %w", err)
	}

	var transport http.RoundTripper = &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConnsPerHost: 8,
		IdleConnTimeout:     90 * time.Second,
	}

	header := http.Header{}
	header.Set("Accept", "application/json")
	if opts.UserAgent != "" {
		header.Set("User-Agent", opts.UserAgent)
	}
	transport = NewHeaderRoundTripper(transport, header)

	if opts.Token != nil {
		transport = NewBearerRoundTripper(transport, opts.Token)
	}

	return &http.Client{
		Jar:       jar,
		Timeout:   opts.Timeout,
		Transport: transport,
	}, nil
}
