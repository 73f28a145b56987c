package protocol

import (
	"encoding/hex"
	"strconv"
)

const (
	URLPrefix = "/rc4-ctr"
	// EncryptPattern is the ServeMux pattern of the encrypt route.
	EncryptPattern = "GET " + URLPrefix + "/encrypt/{nonce}/{counter}/{plaintext}"

	PathValueNonce     = "nonce"
	PathValueCounter   = "counter"
	PathValuePlaintext = "plaintext"

	// ValidationFailedMessage is the only body sent back for a rejected request.
	ValidationFailedMessage = "Failed to validate inputs."
)

// EncryptPath returns the path of the encrypt route for one block.
func EncryptPath(nonce []byte, counter uint64, plaintext []byte) string {
	return URLPrefix + "/encrypt/" +
		hex.EncodeToString(nonce) + "/" +
		strconv.FormatUint(counter, 10) + "/" +
		hex.EncodeToString(plaintext)
}
