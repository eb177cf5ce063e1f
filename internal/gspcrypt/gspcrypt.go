// Package gspcrypt encrypts and decrypts GSP user secrets at rest.
package gspcrypt

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	salt       = "salt"
	iterations = 100000
	keyLen     = 32
)

var ErrInvalidCiphertext = errors.New("gspcrypt: invalid ciphertext")

// DeriveKey derives the AES-256 key for a GSP user from its GSTIN and mobile number.
func DeriveKey(gstin, mobile string) []byte {
	return pbkdf2.Key([]byte(gstin+mobile), []byte(salt), iterations, keyLen, sha256.New)
}

// Encrypt encrypts plaintext as base64(iv || AES-256-CBC(PKCS7(json(plaintext)))).
func Encrypt(key []byte, plaintext string) (string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("gspcrypt: %w", err)
	}
	data, err := json.Marshal(plaintext)
	if err != nil {
		return "", fmt.Errorf("gspcrypt: %w", err)
	}
	data = pad(data, aes.BlockSize)

	out := make([]byte, aes.BlockSize+len(data))
	iv := out[:aes.BlockSize]
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", fmt.Errorf("gspcrypt: generating iv: %w", err)
	}
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out[aes.BlockSize:], data)
	return base64.StdEncoding.EncodeToString(out), nil
}

// Decrypt reverses Encrypt. Plaintexts stored without JSON quoting are
// returned as is.
func Decrypt(key []byte, encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidCiphertext, err)
	}
	if len(raw) < 2*aes.BlockSize || len(raw)%aes.BlockSize != 0 {
		return "", ErrInvalidCiphertext
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("gspcrypt: %w", err)
	}
	iv, body := raw[:aes.BlockSize], raw[aes.BlockSize:]
	plain := make([]byte, len(body))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, body)

	plain, err = unpad(plain, aes.BlockSize)
	if err != nil {
		return "", err
	}
	plain = bytes.TrimSpace(plain)

	var s string
	if err := json.Unmarshal(plain, &s); err == nil {
		return s, nil
	}
	return string(plain), nil
}

func pad(data []byte, size int) []byte {
	n := size - len(data)%size
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}

func unpad(data []byte, size int) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrInvalidCiphertext
	}
	n := int(data[len(data)-1])
	if n == 0 || n > size || n > len(data) {
		return nil, ErrInvalidCiphertext
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, ErrInvalidCiphertext
		}
	}
	return data[:len(data)-n], nil
}
