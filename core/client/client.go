package client

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dj311/rc4-key-recovery-attacks/core/errors"
	"github.com/dj311/rc4-key-recovery-attacks/core/internal/protocol"
)

// maxResponseSize bounds how much of a response body is read.
const maxResponseSize = 64 << 10

// Client queries a remote oracle. It is safe for concurrent use.
type Client struct {
	config *Config
}

func NewClient(config *Config) (*Client, error) {
	if err := config.verifyAndFill(); err != nil {
		return nil, err
	}
	return &Client{config: config}, nil
}

// EncryptURL returns the oracle URL for the given request.
func (c *Client) EncryptURL(nonce []byte, counter uint64, plaintext []byte) string {
	u := *c.config.baseURL
	u.Path = strings.TrimSuffix(u.Path, "/") + protocol.EncryptPath(nonce, counter, plaintext)
	u.RawQuery = ""
	return u.String()
}

// Encrypt asks the oracle to encrypt one block and returns the ciphertext.
func (c *Client) Encrypt(ctx context.Context, nonce []byte, counter uint64, plaintext []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.EncryptURL(nonce, counter, plaintext), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.config.HTTPClient.Do(req)
	if err != nil {
		return nil, errors.ConnectError{Err: err}
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &errors.OracleError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	ciphertext, err := hex.DecodeString(strings.TrimSpace(string(body)))
	if err != nil {
		return nil, fmt.Errorf("invalid ciphertext in response: %w", err)
	}
	if len(ciphertext) != len(plaintext) {
		return nil, fmt.Errorf("ciphertext length %d does not match plaintext length %d", len(ciphertext), len(plaintext))
	}
	return ciphertext, nil
}

