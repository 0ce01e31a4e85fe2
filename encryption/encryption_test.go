package encryption

import (
	"bytes"
	"errors"
	"testing"
)

func TestSealOpen(t *testing.T) {
	for _, alg := range []Algorithm{AlgorithmAESGCM, AlgorithmChaCha20} {
		t.Run(string(alg), func(t *testing.T) {
			c, err := New("passphrase", WithAlgorithm(alg))
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			tests := []struct {
				name      string
				plaintext []byte
			}{
				{"empty", nil},
				{"json", []byte(`{"accountMembership":{"canManageCards":true}}`)},
				{"binary", []byte{0, 1, 2, 0xff}},
			}
			for _, tc := range tests {
				sealed, err := c.Seal(tc.plaintext, []byte("k"))
				if err != nil {
					t.Fatalf("%s: Seal: %v", tc.name, err)
				}
				opened, err := c.Open(sealed, []byte("k"))
				if err != nil {
					t.Fatalf("%s: Open: %v", tc.name, err)
				}
				if !bytes.Equal(opened, tc.plaintext) {
					t.Errorf("%s: got %q, want %q", tc.name, opened, tc.plaintext)
				}
			}
		})
	}
}

func TestSealUsesFreshNonce(t *testing.T) {
	c, _ := New("passphrase")
	a, _ := c.Seal([]byte("same"), nil)
	b, _ := c.Seal([]byte("same"), nil)
	if bytes.Equal(a, b) {
		t.Error("sealing twice should produce different ciphertexts")
	}
}

func TestOpenRejects(t *testing.T) {
	c, _ := New("key-alpha")
	other, _ := New("key-beta")
	sealed, _ := c.Seal([]byte("snapshot"), []byte("user-1:m1"))

	if _, err := other.Open(sealed, []byte("user-1:m1")); err == nil {
		t.Error("a different key should not open the value")
	}
	if _, err := c.Open(sealed, []byte("user-2:m1")); err == nil {
		t.Error("different additional data should not open the value")
	}
	tampered := append([]byte(nil), sealed...)
	tampered[len(tampered)-1] ^= 1
	if _, err := c.Open(tampered, []byte("user-1:m1")); err == nil {
		t.Error("a tampered value should not open")
	}
	if _, err := c.Open([]byte{1, 2}, nil); !errors.Is(err, ErrCiphertextTooShort) {
		t.Errorf("got %v, want ErrCiphertextTooShort", err)
	}
}

func TestNewRejects(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Error("expected error for empty key")
	}
	if _, err := New("k", WithAlgorithm("rot13")); err == nil {
		t.Error("expected error for unknown algorithm")
	}
}
