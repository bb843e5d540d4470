package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	hash, err := h.Hash("s3cret")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	res := h.Verify(hash, "s3cret")
	if !res.Valid {
		t.Fatal("expected matching password to verify")
	}
	if res.NeedsRehash {
		t.Fatal("hash at configured cost should not need rehash")
	}

	if h.Verify(hash, "wrong").Valid {
		t.Fatal("expected wrong password to fail")
	}
}

func TestVerify_NeedsRehash(t *testing.T) {
	low, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt failed: %v", err)
	}

	h := NewHasher(bcrypt.MinCost + 2)
	res := h.Verify(string(low), "s3cret")
	if !res.Valid {
		t.Fatal("expected password to verify")
	}
	if !res.NeedsRehash {
		t.Fatal("expected low-cost hash to be flagged for rehash")
	}
}

func TestVerify_InvalidHash(t *testing.T) {
	h := NewHasher(0)
	if h.Verify("not-a-bcrypt-hash", "anything").Valid {
		t.Fatal("expected malformed hash to fail verification")
	}
}
