package krypto

import (
	"crypto/cipher"
	"crypto/des"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/twofish"
)

// BlockSize is the block size of the outer (Twofish) layer. Every
// ciphertext produced by Engine is a multiple of it.
const BlockSize = twofish.BlockSize

var (
	// ErrInvalidLength is returned when a ciphertext is not a whole number of outer blocks.
	ErrInvalidLength = errors.New("invalid ciphertext length")
	// ErrInvalidEncoding is returned when decrypted bytes are not valid UTF-8.
	ErrInvalidEncoding = errors.New("decrypted data is not valid utf-8")
	// ErrInvalidKey is returned when key material has an unusable size.
	ErrInvalidKey = errors.New("invalid key material")
)

// KeyMaterial holds the two independent keys of the engine.
type KeyMaterial struct {
	// PasswordKey is the normalized master passphrase (24 bytes). It keys
	// the inner Triple-DES layer and is never persisted.
	PasswordKey string
	// SecretKey keys the outer Twofish layer (16, 24 or 32 bytes). During
	// bootstrap the password key stands in for it.
	SecretKey string
}

// Engine is a deterministic two-layer block cipher composition: Twofish
// keyed by the secret key, then Triple-DES keyed by the password key, both
// applied block by block with no chaining or IV. Identical plaintexts under
// identical keys always produce identical ciphertexts, which the credential
// lookup depends on.
//
// There is no integrity tag. A wrong key is only detected when the result
// fails the UTF-8 check or a caller-side validation.
type Engine struct {
	outer cipher.Block
	inner cipher.Block
}

// NewEngine builds an Engine for km.
func NewEngine(km KeyMaterial) (*Engine, error) {
	if len(km.PasswordKey) != PasswordKeySize {
		return nil, fmt.Errorf("%w: password key must be %d bytes, got %d", ErrInvalidKey, PasswordKeySize, len(km.PasswordKey))
	}

	outer, err := twofish.NewCipher([]byte(km.SecretKey))
	if err != nil {
		return nil, fmt.Errorf("%w: create twofish cipher: %v", ErrInvalidKey, err)
	}

	inner, err := des.NewTripleDESCipher([]byte(km.PasswordKey))
	if err != nil {
		return nil, fmt.Errorf("%w: create triple-des cipher: %v", ErrInvalidKey, err)
	}

	return &Engine{outer: outer, inner: inner}, nil
}

// Encrypt pads plaintext with NUL bytes to a multiple of BlockSize (at least
// one block) and runs it through both layers.
func (e *Engine) Encrypt(plaintext string) []byte {
	padded := pad([]byte(plaintext), BlockSize)

	stage1 := make([]byte, len(padded))
	encryptBlocks(e.outer, stage1, padded)

	out := make([]byte, len(stage1))
	encryptBlocks(e.inner, out, stage1)
	return out
}

// Decrypt reverses Encrypt and strips the trailing NUL padding.
func (e *Engine) Decrypt(ciphertext []byte) (string, error) {
	if len(ciphertext)%BlockSize != 0 {
		return "", fmt.Errorf("%w: %d bytes is not a multiple of %d", ErrInvalidLength, len(ciphertext), BlockSize)
	}

	stage1 := make([]byte, len(ciphertext))
	decryptBlocks(e.inner, stage1, ciphertext)

	padded := make([]byte, len(stage1))
	decryptBlocks(e.outer, padded, stage1)

	if !utf8.Valid(padded) {
		return "", ErrInvalidEncoding
	}
	return strings.TrimRight(string(padded), "\x00"), nil
}

// EncryptString encrypts plaintext and returns it as standard base64, the
// form in which every stored field is persisted.
func (e *Engine) EncryptString(plaintext string) string {
	return base64.StdEncoding.EncodeToString(e.Encrypt(plaintext))
}

// DecryptString decodes a base64 field produced by EncryptString and decrypts it.
func (e *Engine) DecryptString(encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("decode base64: %w", err)
	}
	return e.Decrypt(raw)
}

// pad right-pads b with zero bytes up to the next multiple of size. Empty
// input still occupies one block.
func pad(b []byte, size int) []byte {
	n := (len(b) + size - 1) / size * size
	if n == 0 {
		n = size
	}
	out := make([]byte, n)
	copy(out, b)
	return out
}
