package oracle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dj311/rc4-key-recovery-attacks/core/errors"
)

func TestConfigDefaults(t *testing.T) {
	e, err := NewEngine(&Config{Key: []byte("TOPSECRETINFO")})
	require.NoError(t, err)
	assert.Equal(t, Sizes{KeySize: 13, CounterSize: 3, NonceSize: 16, BlockSize: 48}, e.Sizes())
}

func TestConfigErrors(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		field  string
	}{
		{"missing key", Config{}, "Key"},
		{"empty key", Config{Key: []byte{}}, "Key"},
		{"key size mismatch", Config{Key: []byte("short")}, "Key"},
		{"negative block size", Config{Key: []byte("TOPSECRETINFO"), BlockSize: -1}, "BlockSize"},
		{"negative counter size", Config{Key: []byte("TOPSECRETINFO"), CounterSize: -3}, "CounterSize"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEngine(&tt.config)
			var ce errors.ConfigError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.field, ce.Field)
		})
	}
}

func TestConfigLooseKeySize(t *testing.T) {
	e, err := NewEngine(&Config{Key: []byte("short"), LooseKeySize: true})
	require.NoError(t, err)
	assert.Equal(t, 13, e.Sizes().KeySize)
	assert.Len(t, e.BlockKey(make([]byte, 16), make([]byte, 3)), 16+3+5)
}

func TestEngineCopiesKey(t *testing.T) {
	key := []byte("TOPSECRETINFO")
	e, err := NewEngine(&Config{Key: key})
	require.NoError(t, err)
	nonce, counter, plaintext := testInputs()
	before := e.Encrypt(nonce, counter, plaintext)
	key[0] = 'X'
	assert.Equal(t, before, e.Encrypt(nonce, counter, plaintext))
}
