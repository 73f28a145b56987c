package utils

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

const fingerprintSalt = "rc4-ctr key fingerprint"

// KeyFingerprint returns a short, non-reversible identifier of the long-term
// key so operators can tell which key a server runs with without logging it.
func KeyFingerprint(key []byte) string {
	h, _ := blake2b.New(8, []byte(fingerprintSalt))
	h.Write(key)
	return hex.EncodeToString(h.Sum(nil))
}
