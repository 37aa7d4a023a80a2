// Package ids generates and checks the opaque document identifiers used for
// lists and items.
package ids

import (
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// Length is the number of hex characters in an identifier
const Length = 32

// New returns a fresh identifier: a random UUID rendered as 32 lowercase hex characters
func New() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}

// IsValid reports whether raw is a well-formed identifier
func IsValid(raw string) bool {
	if len(raw) != Length {
		return false
	}
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// Canonical lowercases a valid identifier so lookups are case-insensitive
func Canonical(raw string) string {
	return strings.ToLower(raw)
}
