package utils

import (
	"crypto/rand"
)

// URL-safe alphabet, 64 characters so random bytes map uniformly.
const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

const DefaultCodeLength = 6

// GenerateShortCode returns a cryptographically random short code of the
// given length (DefaultCodeLength when length <= 0). Uniqueness is not
// guaranteed here; callers must check the store and retry on collision.
func GenerateShortCode(length int) string {
	if length <= 0 {
		length = DefaultCodeLength
	}
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		panic("utils: crypto/rand unavailable: " + err.Error())
	}
	for i := range b {
		b[i] = charset[int(b[i])%len(charset)]
	}
	return string(b)
}

// Alphabet exposes the code alphabet for tests.
func Alphabet() string { return charset }
