// Package id generates opaque identifiers for goals, placements and veto requests.
package id

import (
	"encoding/base32"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var encoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// NewID returns a random UUIDv4 encoded as 26 lowercase base32 characters.
func NewID() (string, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return strings.ToLower(encoding.EncodeToString(u[:])), nil
}

// MustNewID is NewID for call sites where entropy failure is fatal.
func MustNewID() string {
	v, err := NewID()
	if err != nil {
		panic(err)
	}
	return v
}
