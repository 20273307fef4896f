package http

import (
	"net"
	"net/http"
	"time"
)

// NewHTTPClient creates an HTTP client tuned for outbound API and scrape
// calls. http.DefaultClient has no timeout, so callers must always use a
// client built here with an explicit request timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: t}
}
