package domain

import (
	"strings"
	"testing"
)

func TestNewIdentifier_PairwiseDistinct(t *testing.T) {
	const n = 10000

	seen := make(map[Identifier]struct{}, n)
	for i := 0; i < n; i++ {
		id := NewIdentifier()
		if _, dup := seen[id]; dup {
			t.Fatalf("collision after %d identifiers: %s", i, id)
		}
		seen[id] = struct{}{}
	}
}

func TestIdentifier_TextRoundtrip(t *testing.T) {
	id := NewIdentifier()

	parsed, err := ParseIdentifier(id.String())
	if err != nil {
		t.Fatalf("ParseIdentifier failed: %v", err)
	}
	if parsed != id {
		t.Errorf("roundtrip mismatch: got %s, want %s", parsed, id)
	}

	text, err := id.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText failed: %v", err)
	}
	var unmarshaled Identifier
	if err := unmarshaled.UnmarshalText(text); err != nil {
		t.Fatalf("UnmarshalText failed: %v", err)
	}
	if unmarshaled != id {
		t.Errorf("text roundtrip mismatch: got %s, want %s", unmarshaled, id)
	}
}

func TestParseIdentifier_Malformed(t *testing.T) {
	cases := []string{
		"",
		"not base32!",
		strings.Repeat("a", 10),
		strings.Repeat("a", 100),
	}

	for _, input := range cases {
		if _, err := ParseIdentifier(input); err == nil {
			t.Errorf("ParseIdentifier(%q): expected error", input)
		}
	}
}

func TestIdentifier_IsZero(t *testing.T) {
	var zero Identifier
	if !zero.IsZero() {
		t.Error("zero identifier should report IsZero")
	}
	if NewIdentifier().IsZero() {
		t.Error("fresh identifier should not report IsZero")
	}
}
