package cryptox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFieldCipherRoundTrip(t *testing.T) {
	t.Parallel()

	c, err := NewFieldCipher([]byte("test key material"))
	require.NoError(t, err)

	for _, plaintext := range []string{"", "Ada", "10 Downing Street, London", "名前"} {
		sealed, err := c.Encrypt(plaintext)
		require.NoError(t, err)
		require.NotEqual(t, plaintext, sealed)

		opened, err := c.Decrypt(sealed)
		require.NoError(t, err)
		require.Equal(t, plaintext, opened)
	}
}

func TestFieldCipherNoncesDiffer(t *testing.T) {
	t.Parallel()

	c, err := NewFieldCipher([]byte("test key material"))
	require.NoError(t, err)

	first, err := c.Encrypt("same field")
	require.NoError(t, err)
	second, err := c.Encrypt("same field")
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}

func TestFieldCipherDetectsTampering(t *testing.T) {
	t.Parallel()

	c, err := NewFieldCipher([]byte("test key material"))
	require.NoError(t, err)

	sealed, err := c.Encrypt("sensitive")
	require.NoError(t, err)

	// Flip a character of the base64 payload.
	tampered := []byte(sealed)
	if tampered[len(tampered)-1] == 'A' {
		tampered[len(tampered)-1] = 'B'
	} else {
		tampered[len(tampered)-1] = 'A'
	}

	_, err = c.Decrypt(string(tampered))
	require.Error(t, err)
}

func TestFieldCipherRejectsWrongKey(t *testing.T) {
	t.Parallel()

	right, err := NewFieldCipher([]byte("right key"))
	require.NoError(t, err)
	wrong, err := NewFieldCipher([]byte("wrong key"))
	require.NoError(t, err)

	sealed, err := right.Encrypt("sensitive")
	require.NoError(t, err)

	_, err = wrong.Decrypt(sealed)
	require.Error(t, err)
}

func TestFieldCipherBytesRoundTrip(t *testing.T) {
	t.Parallel()

	c, err := NewFieldCipher([]byte("test key material"))
	require.NoError(t, err)

	payload := []byte(`{"forename":"Ada","surname":"Lovelace"}`)
	sealed, err := c.EncryptBytes(payload)
	require.NoError(t, err)
	require.NotEqual(t, payload, sealed)

	opened, err := c.DecryptBytes(sealed)
	require.NoError(t, err)
	require.Equal(t, payload, opened)
}

func TestNewFieldCipherRequiresKeyMaterial(t *testing.T) {
	t.Parallel()

	_, err := NewFieldCipher(nil)
	require.Error(t, err)
}
