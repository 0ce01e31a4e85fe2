package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
)

// ErrCiphertextTooShort is returned by Open when the input cannot hold a nonce.
var ErrCiphertextTooShort = errors.New("encryption: ciphertext too short")

// Cipher seals and opens byte slices. The additional data is authenticated
// but not encrypted; Open fails unless it matches what Seal was given.
type Cipher interface {
	Seal(plaintext, additionalData []byte) ([]byte, error)
	Open(ciphertext, additionalData []byte) ([]byte, error)
}

// Algorithm names a supported AEAD.
type Algorithm string

const (
	AlgorithmAESGCM   Algorithm = "aes-256-gcm"
	AlgorithmChaCha20 Algorithm = "chacha20-poly1305"
)

// Algorithms lists the accepted algorithm names.
func Algorithms() []string {
	return []string{string(AlgorithmAESGCM), string(AlgorithmChaCha20)}
}

// Option configures New.
type Option func(*options)

type options struct {
	algorithm Algorithm
}

// WithAlgorithm selects the algorithm. The default is AES-256-GCM.
func WithAlgorithm(alg Algorithm) Option {
	return func(o *options) {
		if alg != "" {
			o.algorithm = alg
		}
	}
}

// New creates a Cipher keyed by the SHA-256 of key.
func New(key string, opts ...Option) (Cipher, error) {
	if key == "" {
		return nil, errors.New("encryption: empty key")
	}
	o := &options{algorithm: AlgorithmAESGCM}
	for _, opt := range opts {
		opt(o)
	}

	sum := sha256.Sum256([]byte(key))
	var (
		aead cipher.AEAD
		err  error
	)
	switch o.algorithm {
	case AlgorithmAESGCM:
		var block cipher.Block
		block, err = aes.NewCipher(sum[:])
		if err == nil {
			aead, err = cipher.NewGCM(block)
		}
	case AlgorithmChaCha20:
		aead, err = chacha20poly1305.New(sum[:])
	default:
		return nil, fmt.Errorf("encryption: unsupported algorithm %q", o.algorithm)
	}
	if err != nil {
		return nil, fmt.Errorf("encryption: create %s: %w", o.algorithm, err)
	}
	return &aeadCipher{aead: aead}, nil
}

type aeadCipher struct {
	aead cipher.AEAD
}

// Seal returns nonce || ciphertext.
func (c *aeadCipher) Seal(plaintext, additionalData []byte) ([]byte, error) {
	nonce := make([]byte, c.aead.NonceSize(), c.aead.NonceSize()+len(plaintext)+c.aead.Overhead())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("encryption: generate nonce: %w", err)
	}
	return c.aead.Seal(nonce, nonce, plaintext, additionalData), nil
}

func (c *aeadCipher) Open(ciphertext, additionalData []byte) ([]byte, error) {
	n := c.aead.NonceSize()
	if len(ciphertext) < n {
		return nil, ErrCiphertextTooShort
	}
	plaintext, err := c.aead.Open(nil, ciphertext[:n], ciphertext[n:], additionalData)
	if err != nil {
		return nil, fmt.Errorf("encryption: open: %w", err)
	}
	return plaintext, nil
}
