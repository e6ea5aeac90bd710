package backup

import (
	"bytes"
	"testing"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	salt, err := GenerateSalt()
	if err != nil {
		t.Fatalf("generate salt: %v", err)
	}

	plaintext := []byte(`{"version": 1, "lists": []}`)
	encrypted, err := Encrypt(plaintext, "passphrase", salt)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if bytes.Contains(encrypted, plaintext) {
		t.Error("ciphertext contains plaintext")
	}

	decrypted, err := Decrypt(encrypted, "passphrase")
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if !bytes.Equal(decrypted, plaintext) {
		t.Errorf("decrypted = %q, want %q", decrypted, plaintext)
	}
}

func TestDecryptWrongPassphrase(t *testing.T) {
	salt, _ := GenerateSalt()
	encrypted, err := Encrypt([]byte("secret data"), "right", salt)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	if _, err := Decrypt(encrypted, "wrong"); err == nil {
		t.Error("expected error with wrong passphrase")
	}
}

func TestDecryptTruncatedData(t *testing.T) {
	if _, err := Decrypt([]byte("too short"), "passphrase"); err == nil {
		t.Error("expected error for truncated data")
	}
}

func TestGenerateSaltUnique(t *testing.T) {
	a, err := GenerateSalt()
	if err != nil {
		t.Fatalf("generate salt: %v", err)
	}
	b, err := GenerateSalt()
	if err != nil {
		t.Fatalf("generate salt: %v", err)
	}
	if bytes.Equal(a, b) {
		t.Error("salts should differ")
	}
}

func TestEncryptSamePlaintextDiffers(t *testing.T) {
	salt, _ := GenerateSalt()
	plaintext := []byte("same input")

	first, err := Encrypt(plaintext, "pass", salt)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	second, err := Encrypt(plaintext, "pass", salt)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if bytes.Equal(first, second) {
		t.Error("nonce reuse: identical ciphertexts for same input")
	}
}
