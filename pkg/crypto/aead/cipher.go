package aead

import (
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"io"
	"runtime"
)

// Type identifies the cipher algorithm.
type Type string

const (
	TypeAESGCM   Type = "aes-gcm"
	TypeChaCha20 Type = "chacha20-poly1305"
)

// Cipher provides authenticated encryption with caller-supplied nonces.
type Cipher interface {
	// Type returns the cipher type.
	Type() Type

	// Seal encrypts plaintext under nonce, binding additionalData.
	// The returned slice is ciphertext with the authentication tag
	// appended (the last Overhead() bytes).
	Seal(nonce, plaintext, additionalData []byte) ([]byte, error)

	// Open authenticates and decrypts ciphertext (tag appended).
	Open(nonce, ciphertext, additionalData []byte) ([]byte, error)

	// NonceSize returns the nonce size in bytes.
	NonceSize() int

	// Overhead returns the authentication tag size in bytes.
	Overhead() int
}

// New creates a cipher with the algorithm best suited to the hardware.
func New(key []byte) (Cipher, error) {
	if hasAESAcceleration() {
		return NewAESGCM(key)
	}
	return NewChaCha20(key)
}

// NewWithType creates a cipher of the specified type.
func NewWithType(key []byte, t Type) (Cipher, error) {
	switch t {
	case TypeAESGCM:
		return NewAESGCM(key)
	case TypeChaCha20:
		return NewChaCha20(key)
	default:
		return nil, errors.New("unknown cipher type: " + string(t))
	}
}

// hasAESAcceleration reports whether the platform has hardware AES.
// Go's crypto/aes uses AES-NI on amd64 and the ARM crypto extensions
// on arm64; elsewhere ChaCha20 is the better choice.
func hasAESAcceleration() bool {
	switch runtime.GOARCH {
	case "amd64", "arm64":
		return true
	default:
		return false
	}
}

// NewNonce returns a fresh random nonce for the cipher.
func NewNonce(c Cipher) ([]byte, error) {
	nonce := make([]byte, c.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return nonce, nil
}

// baseCipher provides the shared Seal/Open plumbing over a cipher.AEAD.
type baseCipher struct {
	aead cipher.AEAD
}

func (c *baseCipher) NonceSize() int {
	return c.aead.NonceSize()
}

func (c *baseCipher) Overhead() int {
	return c.aead.Overhead()
}

func (c *baseCipher) Seal(nonce, plaintext, additionalData []byte) ([]byte, error) {
	if len(nonce) != c.aead.NonceSize() {
		return nil, errors.New("invalid nonce size")
	}
	return c.aead.Seal(nil, nonce, plaintext, additionalData), nil
}

func (c *baseCipher) Open(nonce, ciphertext, additionalData []byte) ([]byte, error) {
	if len(nonce) != c.aead.NonceSize() {
		return nil, errors.New("invalid nonce size")
	}
	if len(ciphertext) < c.aead.Overhead() {
		return nil, errors.New("ciphertext too short")
	}
	return c.aead.Open(nil, nonce, ciphertext, additionalData)
}
