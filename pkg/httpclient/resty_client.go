// Package httpclient centralizes construction of the resty HTTP clients
// used by the SDK and the sink publishers.
package httpclient

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// NewRestyHTTPClient returns a resty.Client configured with the given timeout.
// Retries stay disabled; callers own their own failure policy.
func NewRestyHTTPClient(timeout time.Duration) *resty.Client {
	c := resty.New()
	c.SetTimeout(timeout)
	c.SetRetryCount(0)
	return c
}
