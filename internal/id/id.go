// Package id generates the opaque identifiers used to tell browser clients and results views apart.
package id

import (
	"fmt"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Identifier prefixes.
const (
	// ClientPrefix marks identifiers issued to browser clients (the client cookie).
	ClientPrefix = "client"
	// ViewPrefix marks identifiers minted for one rendered results view.
	ViewPrefix = "view"
)

const nanoidLength = 21

// Generate creates a prefixed NanoID, e.g. "client-V1StGXR8_Z5jdHi6B-myT".
// Returns an error if the system has insufficient entropy.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// NewClientID issues a fresh client identifier.
func NewClientID() (string, error) {
	return Generate(ClientPrefix)
}

// NewViewID issues a fresh results-view identifier.
func NewViewID() (string, error) {
	return Generate(ViewPrefix)
}

// IsClientID reports whether s has the shape of an identifier from NewClientID.
// Cookie values that fail this check are replaced rather than trusted.
func IsClientID(s string) bool {
	return hasShape(ClientPrefix, s)
}

// IsViewID reports whether s has the shape of an identifier from NewViewID.
func IsViewID(s string) bool {
	return hasShape(ViewPrefix, s)
}

func hasShape(prefix, s string) bool {
	rest, ok := strings.CutPrefix(s, prefix+"-")
	if !ok || len(rest) != nanoidLength {
		return false
	}
	for _, c := range rest {
		if !isURLSafe(c) {
			return false
		}
	}
	return true
}

func isURLSafe(c rune) bool {
	return (c >= 'A' && c <= 'Z') ||
		(c >= 'a' && c <= 'z') ||
		(c >= '0' && c <= '9') ||
		c == '_' || c == '-'
}
