package roomcode

import (
	"testing"

	"github.com/lox/blackjackroom/internal/randutil"
)

func TestNewLength(t *testing.T) {
	code := New()
	if len(code) != Length {
		t.Errorf("Expected %d characters, got %d (%s)", Length, len(code), code)
	}
	if !Valid(code) {
		t.Errorf("Generated code failed validation: %s", code)
	}
}

func TestGenerateWithSeededSource(t *testing.T) {
	a := Generate(Length, randutil.New(99))
	b := Generate(Length, randutil.New(99))
	if a != b {
		t.Errorf("Seeded generation should be reproducible: %s vs %s", a, b)
	}
}

func TestValid(t *testing.T) {
	if Valid("ABC") {
		t.Error("Short code should be invalid")
	}
	if Valid("abcdef") {
		t.Error("Lowercase code should be invalid")
	}
	if Valid("AB!DEF") {
		t.Error("Code with punctuation should be invalid")
	}
	if !Valid("AB2DEF") {
		t.Error("Well-formed code should be valid")
	}
}

func TestCodesAreNotObviouslyRepeating(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		code := New()
		if seen[code] {
			t.Fatalf("Duplicate code after %d generations: %s", i, code)
		}
		seen[code] = true
	}
}
