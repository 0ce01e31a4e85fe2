package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kbukum/accessmatrix/encryption"
)

// TypedStore stores JSON-encoded values of type C under a key prefix.
type TypedStore[C any] struct {
	client    *Client
	keyPrefix string
	cipher    encryption.Cipher
}

// StoreOption configures a TypedStore.
type StoreOption func(*storeOptions)

type storeOptions struct {
	cipher encryption.Cipher
}

// WithCipher seals every value before it is written. The full Redis key is
// bound as additional data, so a value copied to another key will not open.
func WithCipher(c encryption.Cipher) StoreOption {
	return func(o *storeOptions) { o.cipher = c }
}

// NewTypedStore creates a TypedStore backed by client. Keys are stored as
// keyPrefix + ":" + key.
func NewTypedStore[C any](client *Client, keyPrefix string, opts ...StoreOption) *TypedStore[C] {
	var o storeOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &TypedStore[C]{client: client, keyPrefix: keyPrefix, cipher: o.cipher}
}

func (s *TypedStore[C]) fullKey(key string) string {
	if s.keyPrefix == "" {
		return key
	}
	return s.keyPrefix + ":" + key
}

// Load decodes the value at key. It returns (nil, nil) when the key does not
// exist.
func (s *TypedStore[C]) Load(ctx context.Context, key string) (*C, error) {
	full := s.fullKey(key)
	raw, found, err := s.client.Get(ctx, full)
	if err != nil {
		return nil, fmt.Errorf("typed store load %q: %w", key, err)
	}
	if !found {
		return nil, nil
	}
	if s.cipher != nil {
		if raw, err = s.cipher.Open(raw, []byte(full)); err != nil {
			return nil, fmt.Errorf("typed store open %q: %w", key, err)
		}
	}
	var val C
	if err := json.Unmarshal(raw, &val); err != nil {
		return nil, fmt.Errorf("typed store unmarshal %q: %w", key, err)
	}
	return &val, nil
}

// Save encodes val and stores it with ttl. A zero ttl means no expiration.
func (s *TypedStore[C]) Save(ctx context.Context, key string, val *C, ttl time.Duration) error {
	data, err := json.Marshal(val)
	if err != nil {
		return fmt.Errorf("typed store marshal %q: %w", key, err)
	}
	full := s.fullKey(key)
	if s.cipher != nil {
		if data, err = s.cipher.Seal(data, []byte(full)); err != nil {
			return fmt.Errorf("typed store seal %q: %w", key, err)
		}
	}
	if err := s.client.Set(ctx, full, data, ttl); err != nil {
		return fmt.Errorf("typed store save %q: %w", key, err)
	}
	return nil
}

// Delete removes the key.
func (s *TypedStore[C]) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.fullKey(key)); err != nil {
		return fmt.Errorf("typed store delete %q: %w", key, err)
	}
	return nil
}
