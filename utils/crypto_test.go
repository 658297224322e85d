package utils

import (
	"bytes"
	"testing"
)

const testKey = "0123456789abcdef0123456789abcdef"

func TestEncryptDecryptRoundTrip(t *testing.T) {
	t.Setenv("DATA_ENCRYPTION_KEY", testKey)

	plaintext := []byte(`{"settings":{"currency":"THB"},"incomes":[]}`)
	encrypted, err := Encrypt(plaintext)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if encrypted == string(plaintext) {
		t.Fatal("ciphertext equals plaintext")
	}

	decrypted, err := Decrypt(encrypted)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(decrypted, plaintext) {
		t.Errorf("round trip mismatch: got %q", decrypted)
	}
}

func TestEncryptNoncesDiffer(t *testing.T) {
	t.Setenv("DATA_ENCRYPTION_KEY", testKey)

	a, err := Encrypt([]byte("same input"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Encrypt([]byte("same input"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a == b {
		t.Error("two encryptions of the same input produced identical output")
	}
}

func TestEncryptRejectsBadKeyLength(t *testing.T) {
	t.Setenv("DATA_ENCRYPTION_KEY", "too-short")

	if _, err := Encrypt([]byte("x")); err == nil {
		t.Error("expected error for short key")
	}
}

func TestDecryptRejectsTamperedCiphertext(t *testing.T) {
	t.Setenv("DATA_ENCRYPTION_KEY", testKey)

	if _, err := Decrypt("bm90IHJlYWwgY2lwaGVydGV4dCBhdCBhbGwsIHNvcnJ5"); err == nil {
		t.Error("expected error for forged ciphertext")
	}
}
