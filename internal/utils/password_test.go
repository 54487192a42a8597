package utils

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_NeverPlaintext(t *testing.T) {
	hash, err := HashPassword("pw123", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "pw123" || strings.Contains(hash, "pw123") {
		t.Fatalf("digest leaks plaintext: %q", hash)
	}
}

func TestHashPassword_SaltedPerCall(t *testing.T) {
	h1, err := HashPassword("same", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	h2, err := HashPassword("same", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if h1 == h2 {
		t.Fatalf("expected distinct digests for the same password, got %q twice", h1)
	}
	if !VerifyPassword(h1, "same") || !VerifyPassword(h2, "same") {
		t.Fatalf("both digests must verify the original password")
	}
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !VerifyPassword(hash, "correct") {
		t.Fatalf("verify rejected the matching password")
	}
	if VerifyPassword(hash, "wrong") {
		t.Fatalf("verify accepted a non-matching password")
	}
	if VerifyPassword("not-a-bcrypt-digest", "correct") {
		t.Fatalf("verify accepted a malformed digest")
	}
}
