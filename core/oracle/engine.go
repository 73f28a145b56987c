// Package oracle implements the RC4-CTR block encryption oracle.
//
// A block key is the raw concatenation nonce ‖ counter ‖ key, fed into RC4;
// the first BlockSize keystream bytes are XORed with the plaintext. The
// construction is intentionally weak and must not be used to protect data.
package oracle

import (
	"encoding/hex"

	"github.com/dj311/rc4-key-recovery-attacks/core/internal/rc4"
)

// Engine is immutable after NewEngine and safe for concurrent use.
type Engine struct {
	sizes Sizes
	key   []byte
}

func NewEngine(config *Config) (*Engine, error) {
	if err := config.verifyAndFill(); err != nil {
		return nil, err
	}
	key := make([]byte, len(config.Key))
	copy(key, config.Key)
	return &Engine{
		sizes: Sizes{
			KeySize:     config.KeySize,
			CounterSize: config.CounterSize,
			NonceSize:   config.NonceSize,
			BlockSize:   config.BlockSize,
		},
		key: key,
	}, nil
}

func (e *Engine) Sizes() Sizes {
	return e.sizes
}

// BlockKey returns nonce ‖ counter ‖ key.
func (e *Engine) BlockKey(nonce, counter []byte) []byte {
	bk := make([]byte, 0, len(nonce)+len(counter)+len(e.key))
	bk = append(bk, nonce...)
	bk = append(bk, counter...)
	return append(bk, e.key...)
}

// Encrypt XORs plaintext with the keystream of the block key. The cipher is
// rescheduled on every call, so Encrypt is its own inverse.
// Inputs are expected to have passed ParseRequest.
func (e *Engine) Encrypt(nonce, counter, plaintext []byte) []byte {
	// The block key always contains the non-empty long-term key.
	c, _ := rc4.NewCipher(e.BlockKey(nonce, counter))
	ciphertext := make([]byte, len(plaintext))
	c.XORKeyStream(ciphertext, plaintext)
	return ciphertext
}

func (e *Engine) EncryptRequest(req Request) []byte {
	return e.Encrypt(req.Nonce, req.Counter, req.Plaintext)
}

// Oracle validates the wire form of a request and returns the hex ciphertext.
func (e *Engine) Oracle(nonceHex, counterDec, plaintextHex string) (string, error) {
	req, err := e.ParseRequest(nonceHex, counterDec, plaintextHex)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(e.EncryptRequest(req)), nil
}
