package hibp

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
)

// DigestLength is the length of a hex encoded SHA-1 digest.
const DigestLength = 2 * sha1.Size

// Digest returns the uppercase hex SHA-1 of s, matching the key format of the Pwned Passwords
// corpus.
func Digest(s string) string {
	sum := sha1.Sum([]byte(s))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// IsDigest reports whether s already looks like a hex SHA-1 digest, in either case.
func IsDigest(s string) bool {
	if len(s) != DigestLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case '0' <= c && c <= '9', 'a' <= c && c <= 'f', 'A' <= c && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// QueryKey turns a password or a digest into the key to search for.
func QueryKey(query string) string {
	if IsDigest(query) {
		return strings.ToUpper(query)
	}
	return Digest(query)
}
