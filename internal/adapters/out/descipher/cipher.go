// Package descipher decrypts the identifiers the client apps encrypt with
// DES-CBC and PKCS#5 padding.
package descipher

import (
	"bytes"
	"crypto/cipher"
	"crypto/des" //nolint:gosec // the client apps encrypt with DES
	"encoding/base64"
	"errors"
	"strings"

	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

var (
	ErrInvalidPadding    = errors.New("invalid padding")
	ErrInvalidCiphertext = errors.New("ciphertext is not a whole number of blocks")
)

var _ ports.Cipher = (*Cipher)(nil)

type Cipher struct {
	block cipher.Block
	iv    []byte
}

// New builds a Cipher from an 8 byte key and IV.
func New(key string, iv string) (*Cipher, error) {
	if len(iv) != des.BlockSize {
		return nil, errs.NewValueIsOutOfRangeError("des iv length", len(iv), des.BlockSize, des.BlockSize)
	}
	block, err := des.NewCipher([]byte(key)) //nolint:gosec // the client apps encrypt with DES
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("des key", err)
	}
	return &Cipher{block: block, iv: []byte(iv)}, nil
}

// Encrypt returns the standard base64 encoding of the ciphertext, as the
// client apps produce it.
func (c *Cipher) Encrypt(plain string) (string, error) {
	padded := pad([]byte(plain), des.BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(c.block, c.iv).CryptBlocks(out, padded)
	return base64.StdEncoding.EncodeToString(out), nil
}

// Decrypt accepts both the standard and the URL-safe base64 alphabet, with or
// without padding.
func (c *Cipher) Decrypt(encoded string) (string, error) {
	normalized := strings.NewReplacer("+", "-", "/", "_").Replace(strings.TrimSpace(encoded))
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(normalized, "="))
	if err != nil {
		return "", errs.NewValueIsInvalidErrorWithCause("ciphertext", err)
	}
	if len(raw) == 0 || len(raw)%des.BlockSize != 0 {
		return "", errs.NewValueIsInvalidErrorWithCause("ciphertext", ErrInvalidCiphertext)
	}

	out := make([]byte, len(raw))
	cipher.NewCBCDecrypter(c.block, c.iv).CryptBlocks(out, raw)
	plain, err := unpad(out, des.BlockSize)
	if err != nil {
		return "", errs.NewValueIsInvalidErrorWithCause("ciphertext", err)
	}
	return string(plain), nil
}

func pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}

func unpad(data []byte, blockSize int) ([]byte, error) {
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, ErrInvalidPadding
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, ErrInvalidPadding
		}
	}
	return data[:len(data)-n], nil
}
