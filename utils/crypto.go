package utils

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
	"os"
)

// Ledger snapshots hold personal finance data, so they are encrypted at
// rest with AES-256-GCM. The key comes from DATA_ENCRYPTION_KEY and must be
// exactly 32 bytes.

func encryptionKey() ([]byte, error) {
	key := os.Getenv("DATA_ENCRYPTION_KEY")
	if len(key) != 32 {
		return nil, errors.New("DATA_ENCRYPTION_KEY must be exactly 32 characters")
	}
	return []byte(key), nil
}

// Encrypt seals plaintext and returns a base64 ciphertext with the nonce
// prepended.
func Encrypt(plaintext []byte) (string, error) {
	key, err := encryptionKey()
	if err != nil {
		return "", err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	sealed := gcm.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt.
func Decrypt(encoded string) ([]byte, error) {
	key, err := encryptionKey()
	if err != nil {
		return nil, err
	}

	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(sealed) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}
	nonce, ciphertext := sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():]

	return gcm.Open(nil, nonce, ciphertext, nil)
}
