package oracle

import (
	"encoding/hex"
	"math/big"
	"strings"

	"github.com/dj311/rc4-key-recovery-attacks/core/errors"
)

// Request is a validated oracle request. Counter holds the little-endian
// encoding of the block counter, exactly CounterSize bytes long.
type Request struct {
	Nonce     []byte
	Counter   []byte
	Plaintext []byte
}

// ParseRequest decodes and checks the wire form of a request.
// All three fields are always checked, so the work done does not depend on
// which of them is invalid. The returned error names the first failing field
// and is meant for logs only.
func (e *Engine) ParseRequest(nonceHex, counterDec, plaintextHex string) (Request, error) {
	var firstErr error
	fail := func(field, reason string) {
		if firstErr == nil {
			firstErr = &errors.ValidationError{Field: field, Reason: reason}
		}
	}

	nonce, err := hex.DecodeString(nonceHex)
	if err != nil {
		fail("nonce", err.Error())
	} else if len(nonce) != e.sizes.NonceSize {
		fail("nonce", "wrong length")
	}

	counter, reason := encodeCounter(counterDec, e.sizes.CounterSize)
	if reason != "" {
		fail("counter", reason)
	}

	plaintext, err := hex.DecodeString(plaintextHex)
	if err != nil {
		fail("plaintext", err.Error())
	} else if len(plaintext) != e.sizes.BlockSize {
		fail("plaintext", "wrong length")
	}

	if firstErr != nil {
		return Request{}, firstErr
	}
	return Request{Nonce: nonce, Counter: counter, Plaintext: plaintext}, nil
}

// encodeCounter parses a base-10 counter and serializes it as size bytes,
// unsigned little-endian. A non-empty reason means the counter is invalid.
func encodeCounter(s string, size int) ([]byte, string) {
	out := make([]byte, size)
	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	if s == "" || s[0] == '+' || s[0] == '-' {
		return out, "not a base-10 integer"
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return out, "not a base-10 integer"
	}
	if neg && v.Sign() != 0 {
		return out, "negative"
	}
	if v.BitLen() > 8*size {
		return out, "does not fit in counter"
	}
	be := v.Bytes()
	for i, b := range be {
		out[len(be)-1-i] = b
	}
	return out, ""
}
