package hashutil

import (
	"encoding/hex"

	"lukechampine.com/blake3"
)

// KeyDigest derives a fixed-length, filesystem-safe name from an arbitrary
// store key. The key may contain any character a URL can carry.
// The digest is the first n bytes of the BLAKE3 sum, hex encoded; n is
// clamped to [8, 32].
func KeyDigest(key string, n int) string {
	if n < 8 {
		n = 8
	}
	if n > 32 {
		n = 32
	}
	sum := blake3.Sum256([]byte(key))
	return hex.EncodeToString(sum[:n])
}
