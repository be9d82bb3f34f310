package filestore

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// devFallbackSecret is used when no encryption key is configured so a
// fresh checkout still runs. Not suitable for real data.
const devFallbackSecret = "smartcart-dev-fallback-key-please-set-env-var"

// deriveKey turns the configured secret into a 256-bit AES key. A
// 64-hex-char secret decodes directly; anything else is hashed with
// SHA-256 so the key length is always valid.
func deriveKey(secret string) []byte {
	if len(secret) == 64 {
		if key, err := hex.DecodeString(secret); err == nil {
			return key
		}
	}
	if secret == "" {
		secret = devFallbackSecret
	}
	sum := sha256.Sum256([]byte(secret))
	return sum[:]
}

// encrypt seals plaintext with AES-256-CBC under a random IV and returns
// the wire form "iv_hex:ciphertext_hex".
func encrypt(key, plaintext []byte) (string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return "", err
	}

	padded := pkcs7Pad(plaintext, aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return hex.EncodeToString(iv) + ":" + hex.EncodeToString(ciphertext), nil
}

// decrypt reverses encrypt. Any malformed input (wrong segment count, bad
// hex, bad length, bad padding) yields an error rather than garbage.
func decrypt(key []byte, payload string) ([]byte, error) {
	parts := strings.SplitN(payload, ":", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("not an encrypted payload")
	}

	iv, err := hex.DecodeString(parts[0])
	if err != nil || len(iv) != aes.BlockSize {
		return nil, fmt.Errorf("invalid iv")
	}
	ciphertext, err := hex.DecodeString(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, fmt.Errorf("invalid ciphertext encoding")
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("invalid ciphertext length")
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	return pkcs7Unpad(plaintext, aes.BlockSize)
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, fmt.Errorf("invalid padded length")
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, fmt.Errorf("invalid padding")
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, fmt.Errorf("invalid padding")
		}
	}
	return data[:len(data)-n], nil
}
