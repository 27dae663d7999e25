package auth

import (
	"encoding/hex"
	"errors"
	"strings"
	"testing"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery", 4)
	if err != nil {
		t.Fatalf("HashPassword() unexpected error: %v", err)
	}
	if hash == "correct horse battery" {
		t.Error("hash must not equal the plaintext")
	}

	if err := CheckPassword("correct horse battery", hash); err != nil {
		t.Errorf("CheckPassword() with correct password: %v", err)
	}
	if err := CheckPassword("wrong password", hash); err == nil {
		t.Error("CheckPassword() with wrong password should error")
	}
}

func TestHashPasswordLengthBounds(t *testing.T) {
	if _, err := HashPassword("short", 4); !errors.Is(err, ErrPasswordTooShort) {
		t.Errorf("short password error = %v, expected ErrPasswordTooShort", err)
	}

	long := strings.Repeat("a", 73)
	if _, err := HashPassword(long, 4); !errors.Is(err, ErrPasswordTooLong) {
		t.Errorf("long password error = %v, expected ErrPasswordTooLong", err)
	}

	// 72 bytes is the bcrypt maximum and must be accepted
	if _, err := HashPassword(strings.Repeat("a", 72), 4); err != nil {
		t.Errorf("72-byte password should hash: %v", err)
	}
}

func TestGenerateResetToken(t *testing.T) {
	token1, hash1, err := GenerateResetToken()
	if err != nil {
		t.Fatalf("GenerateResetToken() unexpected error: %v", err)
	}
	token2, hash2, err := GenerateResetToken()
	if err != nil {
		t.Fatalf("GenerateResetToken() unexpected error: %v", err)
	}

	if token1 == token2 {
		t.Error("tokens must be unique")
	}
	if hash1 == hash2 {
		t.Error("token hashes must be unique")
	}
	if token1 == hash1 {
		t.Error("stored hash must differ from the plaintext token")
	}
	if HashToken(token1) != hash1 {
		t.Error("HashToken(token) must reproduce the stored hash")
	}
}

func TestGenerateSessionSecret(t *testing.T) {
	secret, err := GenerateSessionSecret()
	if err != nil {
		t.Fatalf("GenerateSessionSecret() unexpected error: %v", err)
	}
	if len(secret) != 64 {
		t.Errorf("secret length = %d, expected 64 hex chars", len(secret))
	}
	raw, err := hex.DecodeString(secret)
	if err != nil {
		t.Fatalf("secret must be valid hex: %v", err)
	}
	if len(raw) != 32 {
		t.Errorf("decoded secret length = %d, expected 32 bytes", len(raw))
	}
}
