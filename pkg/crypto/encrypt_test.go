package crypto

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "0123456789abcdef0123456789abcdef"

func TestNewEncryptorKeyLength(t *testing.T) {
	_, err := NewEncryptor("short")
	assert.Error(t, err)

	_, err = NewEncryptor(testKey)
	assert.NoError(t, err)
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	e, err := NewEncryptor(testKey)
	require.NoError(t, err)

	plaintext := []byte(`{"userId":"user-1","plan":"pro"}`)
	sealed, err := e.Encrypt(plaintext)
	require.NoError(t, err)
	assert.NotContains(t, sealed, "user-1", "reference must be opaque")

	opened, err := e.Decrypt(sealed)
	require.NoError(t, err)
	assert.Equal(t, plaintext, opened)
}

func TestDecryptRejectsTampering(t *testing.T) {
	e, err := NewEncryptor(testKey)
	require.NoError(t, err)

	sealed, err := e.Encrypt([]byte("payload"))
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(sealed)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xff
	tampered := base64.StdEncoding.EncodeToString(raw)

	_, err = e.Decrypt(tampered)
	assert.Error(t, err)
}

func TestDecryptRejectsGarbage(t *testing.T) {
	e, err := NewEncryptor(testKey)
	require.NoError(t, err)

	_, err = e.Decrypt("not base64!!")
	assert.Error(t, err)

	_, err = e.Decrypt(base64.StdEncoding.EncodeToString([]byte("tiny")))
	assert.Error(t, err)
}

func TestDecryptWrongKeyFails(t *testing.T) {
	e1, err := NewEncryptor(testKey)
	require.NoError(t, err)
	e2, err := NewEncryptor("fedcba9876543210fedcba9876543210")
	require.NoError(t, err)

	sealed, err := e1.Encrypt([]byte("payload"))
	require.NoError(t, err)

	_, err = e2.Decrypt(sealed)
	assert.Error(t, err)
}
