package gspcrypt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicefin/internal/gspcrypt"
)

func TestDeriveKey_Deterministic(t *testing.T) {
	a := gspcrypt.DeriveKey("29ABCDE1234F1Z5", "9876543210")
	b := gspcrypt.DeriveKey("29ABCDE1234F1Z5", "9876543210")
	assert.Len(t, a, 32)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, gspcrypt.DeriveKey("29ABCDE1234F1Z5", "9876543211"))
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	key := gspcrypt.DeriveKey("29ABCDE1234F1Z5", "9876543210")

	enc, err := gspcrypt.Encrypt(key, "p@ss word")
	require.NoError(t, err)

	dec, err := gspcrypt.Decrypt(key, enc)
	require.NoError(t, err)
	assert.Equal(t, "p@ss word", dec)
}

func TestEncrypt_RandomIV(t *testing.T) {
	key := gspcrypt.DeriveKey("g", "m")
	a, err := gspcrypt.Encrypt(key, "same")
	require.NoError(t, err)
	b, err := gspcrypt.Encrypt(key, "same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestDecrypt_WrongKeyFails(t *testing.T) {
	enc, err := gspcrypt.Encrypt(gspcrypt.DeriveKey("g", "1"), "secret")
	require.NoError(t, err)

	dec, err := gspcrypt.Decrypt(gspcrypt.DeriveKey("g", "2"), enc)
	if err == nil {
		assert.NotEqual(t, "secret", dec)
	}
}

func TestDecrypt_Malformed(t *testing.T) {
	key := gspcrypt.DeriveKey("g", "m")

	_, err := gspcrypt.Decrypt(key, "not base64!!")
	assert.ErrorIs(t, err, gspcrypt.ErrInvalidCiphertext)

	_, err = gspcrypt.Decrypt(key, "c2hvcnQ=")
	assert.ErrorIs(t, err, gspcrypt.ErrInvalidCiphertext)
}
