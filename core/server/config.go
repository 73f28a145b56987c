package server

import (
	"crypto/tls"
	"net"
	"net/url"
	"time"

	"github.com/dj311/rc4-key-recovery-attacks/core/errors"
	"github.com/dj311/rc4-key-recovery-attacks/core/oracle"
)

const (
	defaultAddr              = "localhost:5000"
	defaultReadHeaderTimeout = 10 * time.Second
	defaultIdleTimeout       = 60 * time.Second
	defaultDecoyTimeout      = 4 * time.Second
)

type Config struct {
	Engine *oracle.Engine
	// Listener takes precedence over Addr when set.
	Listener          net.Listener
	Addr              string
	TLSConfig         TLSConfig
	DecoyURL          string
	DecoyTimeout      time.Duration
	ReadHeaderTimeout time.Duration
	IdleTimeout       time.Duration
	EventLogger       EventLogger

	decoyURL *url.URL
	filled   bool
}

// fill fills the fields that are not set by the user with default values.
func (c *Config) fill() error {
	if c.filled {
		return nil
	}
	if c.Engine == nil {
		return errors.ConfigError{Field: "Engine", Reason: "must be set"}
	}
	if c.Listener == nil && c.Addr == "" {
		c.Addr = defaultAddr
	}
	if c.DecoyURL != "" {
		u, err := url.Parse(c.DecoyURL)
		if err != nil {
			return errors.ConfigError{Field: "DecoyURL", Reason: err.Error()}
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return errors.ConfigError{Field: "DecoyURL", Reason: "unsupported scheme " + u.Scheme}
		}
		c.decoyURL = u
	}
	if c.DecoyTimeout == 0 {
		c.DecoyTimeout = defaultDecoyTimeout
	}
	if c.ReadHeaderTimeout == 0 {
		c.ReadHeaderTimeout = defaultReadHeaderTimeout
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = defaultIdleTimeout
	}
	c.filled = true
	return nil
}

// TLSConfig contains the TLS configuration fields that we want to expose to the user.
// TLS is disabled when neither field is set.
type TLSConfig struct {
	Certificates   []tls.Certificate
	GetCertificate func(info *tls.ClientHelloInfo) (*tls.Certificate, error)
}

func (c TLSConfig) enabled() bool {
	return len(c.Certificates) > 0 || c.GetCertificate != nil
}

// EventLogger receives oracle events. Implementations must not block.
// Only public request fields are passed in; plaintext and key never are.
type EventLogger interface {
	EncryptRequest(addr, nonce, counter string)
	EncryptError(addr string, err error)
}
