package client

import (
	"fmt"
	"time"
)

// Option configures a Client during construction in New.
type Option func(*Client) error

// WithHTTPTimeout bounds a single request. The value must be greater than zero.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("http timeout must be > 0")
		}
		c.http.SetTimeout(d)
		return nil
	}
}

// WithRetries sets how often a failed request is retried and the first
// backoff delay. Zero retries disables retrying.
func WithRetries(maxRetries int, baseDelay time.Duration) Option {
	return func(c *Client) error {
		if maxRetries < 0 || baseDelay <= 0 {
			return fmt.Errorf("invalid retry policy: %d retries, %s delay", maxRetries, baseDelay)
		}
		c.maxRetries = uint64(maxRetries)
		c.baseDelay = baseDelay
		return nil
	}
}
