// Package utils provides general-purpose helpers used across the
// application: the resty HTTP client, request ids, JWT signing and
// validation, and JSON response writing.
package utils

import (
	"net/http"

	"github.com/go-resty/resty/v2"
)

// HTTPClient is a wrapper around the resty.Client HTTP client.
// It embeds *resty.Client to expose all of its methods directly,
// while allowing extension with additional application-specific behavior.
//
// Example usage:
//
//	client := utils.NewHTTPClient(nil)
//	resp, err := client.R().Get("https://example.com")
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient creates and returns a new HTTPClient. When hc is nil the
// underlying resty.Client gets its own default *http.Client; otherwise hc is
// used for every request, which lets callers plug in custom transports,
// proxies or test servers.
//
// Each call returns an independent client instance with its own
// configuration and state.
func NewHTTPClient(hc *http.Client) *HTTPClient {
	if hc == nil {
		return &HTTPClient{Client: resty.New()}
	}
	return &HTTPClient{Client: resty.NewWithClient(hc)}
}

// CloseIdleConnections closes idle keep-alive connections of the underlying
// *http.Client.
func (c *HTTPClient) CloseIdleConnections() {
	c.GetClient().CloseIdleConnections()
}
