package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
)

// FieldCipher encrypts and decrypts individual personal-data fields with
// AES-256-GCM before they touch the database. The wire format per field is
// base64(nonce || ciphertext || tag).
//
// A production deployment that ever wants to rotate the key needs a key-id
// tag prepended to each ciphertext; this implementation carries a single
// key for its lifetime.
type FieldCipher struct {
	aead cipher.AEAD
}

// NewFieldCipher derives a 32-byte AES-256 key from the given key material
// using SHA-256 and returns a ready cipher.
func NewFieldCipher(keyMaterial []byte) (*FieldCipher, error) {
	if len(keyMaterial) == 0 {
		return nil, errors.New("cryptox: field cipher key material is empty")
	}

	key := sha256.Sum256(keyMaterial)
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("cryptox: failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cryptox: failed to create GCM: %w", err)
	}

	return &FieldCipher{aead: aead}, nil
}

// LoadFieldKey resolves the field-encryption key material from, in order:
// a key file at path (if non-empty), the SHOP_FIELD_KEY environment variable,
// or a freshly generated ephemeral key. The ephemeral fallback keeps local
// development working but means ciphertexts do not survive a restart.
func LoadFieldKey(path string) ([]byte, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("cryptox: failed to read field key file: %w", err)
		}
		return data, nil
	}

	if envKey := os.Getenv("SHOP_FIELD_KEY"); envKey != "" {
		return []byte(envKey), nil
	}

	ephemeral := make([]byte, 32)
	if _, err := rand.Read(ephemeral); err != nil {
		return nil, fmt.Errorf("cryptox: failed to generate ephemeral field key: %w", err)
	}
	return ephemeral, nil
}

// Encrypt seals a plaintext field value with a random nonce.
func (c *FieldCipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("cryptox: failed to generate nonce: %w", err)
	}

	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a field value produced by Encrypt, verifying the
// authentication tag.
func (c *FieldCipher) Decrypt(encoded string) (string, error) {
	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("cryptox: ciphertext is not valid base64: %w", err)
	}

	nonceSize := c.aead.NonceSize()
	if len(sealed) < nonceSize {
		return "", errors.New("cryptox: ciphertext too short")
	}

	nonce, ciphertext := sealed[:nonceSize], sealed[nonceSize:]
	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("cryptox: decryption failed: %w", err)
	}

	return string(plaintext), nil
}

// EncryptBytes and DecryptBytes are the raw variants used for structured
// payloads such as pending registration profiles.
func (c *FieldCipher) EncryptBytes(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("cryptox: failed to generate nonce: %w", err)
	}
	return c.aead.Seal(nonce, nonce, plaintext, nil), nil
}

func (c *FieldCipher) DecryptBytes(sealed []byte) ([]byte, error) {
	nonceSize := c.aead.NonceSize()
	if len(sealed) < nonceSize {
		return nil, errors.New("cryptox: ciphertext too short")
	}
	nonce, ciphertext := sealed[:nonceSize], sealed[nonceSize:]
	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("cryptox: decryption failed: %w", err)
	}
	return plaintext, nil
}
