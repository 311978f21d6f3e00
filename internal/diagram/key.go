package diagram

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Key returns the cache key of a diagram definition: the hex-encoded 64-bit
// xxhash of the full source. Equal sources always share a key; sources that
// differ anywhere get different keys.
func Key(source string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(source))
}

// ValidKey reports whether s has the shape of a Key.
func ValidKey(s string) bool {
	if len(s) != 16 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
