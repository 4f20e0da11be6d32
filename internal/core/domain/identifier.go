package domain

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
)

// IdentifierSize is the number of random bytes in an identifier.
const IdentifierSize = 29

var identifierEncoding = base32.NewEncoding("abcdefghijklmnopqrstuvwxyz234567").WithPadding(base32.NoPadding)

// Identifier is the opaque token keying every record in every store. Ids are
// random, never reused, and compared with ==. Uniqueness is probabilistic:
// 29 random bytes are not checked against existing keys.
type Identifier [IdentifierSize]byte

// NewIdentifier returns a fresh random identifier. A failing randomness
// source is not recoverable, so it panics instead of returning an error.
func NewIdentifier() Identifier {
	var id Identifier
	if _, err := rand.Read(id[:]); err != nil {
		panic(fmt.Sprintf("identifier randomness unavailable: %v", err))
	}
	return id
}

// ParseIdentifier decodes the textual form produced by String.
func ParseIdentifier(s string) (Identifier, error) {
	var id Identifier
	raw, err := identifierEncoding.DecodeString(s)
	if err != nil {
		return id, fmt.Errorf("malformed identifier %q: %w", s, err)
	}
	if len(raw) != IdentifierSize {
		return id, fmt.Errorf("malformed identifier %q: got %d bytes, want %d", s, len(raw), IdentifierSize)
	}
	copy(id[:], raw)
	return id, nil
}

func (id Identifier) String() string {
	return identifierEncoding.EncodeToString(id[:])
}

func (id Identifier) IsZero() bool {
	return id == Identifier{}
}

func (id Identifier) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *Identifier) UnmarshalText(text []byte) error {
	parsed, err := ParseIdentifier(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
