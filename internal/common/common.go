package common

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Hash returns a hex encoded blake2b-256 digest. Access tokens are only stored as cache keys in this
// form.
func Hash(b []byte) string {
	hashed := blake2b.Sum256(b)
	return hex.EncodeToString(hashed[:])
}
