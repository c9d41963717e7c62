package password

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestGetHash(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	tests := []struct {
		name     string
		password string
	}{
		{name: "regular password", password: "Password123"},
		{name: "password with special chars", password: "p@ssw0rd!@#$%^&*()"},
		{name: "short password", password: "short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotHash, err := h.GetHash(tt.password)
			if err != nil {
				t.Fatalf("GetHash() error = %v", err)
			}
			if gotHash == "" || gotHash == tt.password {
				t.Fatal("GetHash() returned unusable hash")
			}
			if err := h.CompareHash(gotHash, tt.password); err != nil {
				t.Errorf("hash doesn't match original password: %v", err)
			}
		})
	}
}

func TestCompareHash(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	correctHash, err := h.GetHash("correct_password")
	if err != nil {
		t.Fatalf("failed to create test hash: %v", err)
	}

	tests := []struct {
		name        string
		hash        string
		password    string
		shouldMatch bool
	}{
		{name: "matching password", hash: correctHash, password: "correct_password", shouldMatch: true},
		{name: "wrong password", hash: correctHash, password: "wrong_password"},
		{name: "empty password", hash: correctHash, password: ""},
		{name: "garbage hash", hash: "not-a-hash", password: "correct_password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := h.CompareHash(tt.hash, tt.password)
			if tt.shouldMatch && err != nil {
				t.Errorf("CompareHash() should succeed, got error: %v", err)
			}
			if !tt.shouldMatch && err == nil {
				t.Error("CompareHash() should fail, but got no error")
			}
		})
	}

	if err := h.CompareHash(correctHash, "wrong_password"); !errors.Is(err, ErrMismatch) {
		t.Errorf("expected ErrMismatch, got %v", err)
	}
}

func TestNewHasher_InvalidCostFallsBack(t *testing.T) {
	if got := NewHasher(100).cost; got != bcrypt.DefaultCost {
		t.Errorf("cost = %d, want %d", got, bcrypt.DefaultCost)
	}
}

func TestDigestMatches(t *testing.T) {
	stored := TokenDigest("token-a")
	empty := ""

	if !DigestMatches(&stored, "token-a") {
		t.Error("same token must match")
	}
	if DigestMatches(&stored, "token-b") {
		t.Error("different token must not match")
	}
	if DigestMatches(nil, "token-a") {
		t.Error("nil stored digest must not match")
	}
	if DigestMatches(&empty, "") {
		t.Error("empty values must not match")
	}
	if TokenDigest("token-a") == "token-a" {
		t.Error("digest must not equal raw token")
	}
}
