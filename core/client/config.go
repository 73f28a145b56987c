package client

import (
	"net/http"
	"net/url"
	"time"

	"github.com/dj311/rc4-key-recovery-attacks/core/errors"
)

const defaultTimeout = 10 * time.Second

type Config struct {
	// ServerURL is the base URL of the oracle, e.g. http://localhost:5000.
	ServerURL string
	Timeout   time.Duration
	// HTTPClient overrides the client built from Timeout.
	HTTPClient *http.Client

	baseURL *url.URL
	filled  bool // whether the fields have been verified and filled
}

func (c *Config) verifyAndFill() error {
	if c.filled {
		return nil
	}
	if c.ServerURL == "" {
		return errors.ConfigError{Field: "ServerURL", Reason: "must be set"}
	}
	u, err := url.Parse(c.ServerURL)
	if err != nil {
		return errors.ConfigError{Field: "ServerURL", Reason: err.Error()}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.ConfigError{Field: "ServerURL", Reason: "unsupported scheme " + u.Scheme}
	}
	c.baseURL = u
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	} else if c.Timeout < 0 {
		return errors.ConfigError{Field: "Timeout", Reason: "must be positive"}
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	c.filled = true
	return nil
}
