package utils

import "testing"

func TestPasswordHashAndVerify(t *testing.T) {
	hash, err := HashPassword("correct horse battery", 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "correct horse battery" {
		t.Fatalf("hash must not equal the plaintext")
	}
	if !VerifyPassword(hash, "correct horse battery") {
		t.Fatalf("expected matching password to verify")
	}
	if VerifyPassword(hash, "wrong password") {
		t.Fatalf("expected mismatching password to fail")
	}
}

func TestVerifyPasswordGarbageHash(t *testing.T) {
	if VerifyPassword("not-a-bcrypt-hash", "anything") {
		t.Fatalf("garbage hash must never verify")
	}
}
