package oracle

import (
	"github.com/dj311/rc4-key-recovery-attacks/core/errors"
)

const (
	DefaultKeySize     = 13
	DefaultCounterSize = 3
	DefaultNonceSize   = 16
	DefaultBlockSize   = 48
)

type Config struct {
	KeySize     int
	CounterSize int
	NonceSize   int
	BlockSize   int
	// Key is the long-term secret appended to every block key.
	Key []byte
	// LooseKeySize accepts a Key whose length differs from KeySize.
	LooseKeySize bool

	filled bool // whether the fields have been verified and filled
}

func (c *Config) verifyAndFill() error {
	if c.filled {
		return nil
	}
	if len(c.Key) == 0 {
		return errors.ConfigError{Field: "Key", Reason: "must be set"}
	}
	sizes := []struct {
		field string
		v     *int
		def   int
	}{
		{"KeySize", &c.KeySize, DefaultKeySize},
		{"CounterSize", &c.CounterSize, DefaultCounterSize},
		{"NonceSize", &c.NonceSize, DefaultNonceSize},
		{"BlockSize", &c.BlockSize, DefaultBlockSize},
	}
	for _, s := range sizes {
		if *s.v == 0 {
			*s.v = s.def
		} else if *s.v < 0 {
			return errors.ConfigError{Field: s.field, Reason: "must be positive"}
		}
	}
	if !c.LooseKeySize && len(c.Key) != c.KeySize {
		return errors.ConfigError{Field: "Key", Reason: "length must equal KeySize"}
	}
	c.filled = true
	return nil
}

// Sizes are the fixed field widths an Engine was built with.
type Sizes struct {
	KeySize     int
	CounterSize int
	NonceSize   int
	BlockSize   int
}
