// Package rc4 implements the classical RC4 key schedule and keystream generator.
//
// Unlike crypto/rc4, keys longer than 256 bytes are accepted. The key schedule
// cycles through the key once per state byte, so only the first 256 key bytes
// can influence the state.
package rc4

import (
	"crypto/cipher"
	"strconv"
)

type KeySizeError int

func (k KeySizeError) Error() string {
	return "rc4: invalid key size " + strconv.Itoa(int(k))
}

// Cipher is an RC4 instance keyed with a particular key.
type Cipher struct {
	s    [256]uint8
	i, j uint8
}

var _ cipher.Stream = (*Cipher)(nil)

// NewCipher runs the key schedule over key. Any non-empty key is accepted.
func NewCipher(key []byte) (*Cipher, error) {
	if len(key) == 0 {
		return nil, KeySizeError(0)
	}
	var c Cipher
	for i := 0; i < 256; i++ {
		c.s[i] = uint8(i)
	}
	var j uint8
	for i := 0; i < 256; i++ {
		j += c.s[i] + key[i%len(key)]
		c.s[i], c.s[j] = c.s[j], c.s[i]
	}
	return &c, nil
}

// XORKeyStream sets dst to the result of XORing src with the keystream.
func (c *Cipher) XORKeyStream(dst, src []byte) {
	if len(src) == 0 {
		return
	}
	if len(dst) < len(src) {
		panic("rc4: output smaller than input")
	}
	i, j := c.i, c.j
	for k, v := range src {
		i++
		j += c.s[i]
		c.s[i], c.s[j] = c.s[j], c.s[i]
		dst[k] = v ^ c.s[c.s[i]+c.s[j]]
	}
	c.i, c.j = i, j
}

// Keystream returns the first n keystream bytes for key.
func Keystream(key []byte, n int) ([]byte, error) {
	c, err := NewCipher(key)
	if err != nil {
		return nil, err
	}
	ks := make([]byte, n)
	c.XORKeyStream(ks, ks)
	return ks, nil
}
