// Package roomcode generates the short identifiers used for rooms and
// connections. Codes use an uppercase alphabet with the easily-confused
// characters removed, so they survive being read out loud across a table.
package roomcode

import (
	"crypto/rand"
)

const alphabet = "ABCDEFGHJKMNPQRSTVWXYZ0123456789"

// Length is the size of a room code
const Length = 6

// RandSource interface for dependency injection of randomness
type RandSource interface {
	IntN(n int) int
}

// New returns a fresh 6-character room code
func New() string {
	return Generate(Length, nil)
}

// Generate returns a code of the given length. A nil RandSource uses
// crypto/rand; tests can pass a seeded source for reproducible codes.
func Generate(length int, src RandSource) string {
	buf := make([]byte, length)
	if src != nil {
		for i := range buf {
			buf[i] = alphabet[src.IntN(len(alphabet))]
		}
		return string(buf)
	}

	raw := make([]byte, length)
	if _, err := rand.Read(raw); err != nil {
		panic("failed to generate random bytes: " + err.Error())
	}
	for i := range buf {
		buf[i] = alphabet[int(raw[i])%len(alphabet)]
	}
	return string(buf)
}

// Valid reports whether a code has the right length and alphabet
func Valid(code string) bool {
	if len(code) != Length {
		return false
	}
	for i := 0; i < len(code); i++ {
		found := false
		for j := 0; j < len(alphabet); j++ {
			if code[i] == alphabet[j] {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
