package redis

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/kbukum/accessmatrix/encryption"
	"github.com/kbukum/accessmatrix/logger"
	"github.com/kbukum/accessmatrix/observability"
	"github.com/kbukum/accessmatrix/security"
	"github.com/kbukum/accessmatrix/security/tlstest"
)

type testState struct {
	Count int      `json:"count"`
	Tags  []string `json:"tags"`
}

// newTestClient creates a Client backed by miniredis.
func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mini := miniredis.RunT(t)

	client, err := New(Config{Enabled: true, Addr: mini.Addr()}, logger.Nop())
	if err != nil {
		t.Fatalf("failed to create redis client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client, mini
}

func TestNew_Disabled(t *testing.T) {
	_, err := New(Config{}, logger.Nop())
	if !errors.Is(err, ErrDisabled) {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := Config{Enabled: true, DialTimeout: "soon"}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for malformed dial_timeout")
	}

	cfg = Config{Enabled: true, DB: 16}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for db out of range")
	}

	if err := (&Config{DialTimeout: "soon"}).Validate(); err != nil {
		t.Fatalf("disabled config should not be validated: %v", err)
	}
}

func TestNew_TLS(t *testing.T) {
	certs := tlstest.GenerateTLSCerts(t)
	pair, err := tls.LoadX509KeyPair(certs.CertFile, certs.KeyFile)
	if err != nil {
		t.Fatalf("load key pair: %v", err)
	}
	mini := miniredis.NewMiniRedis()
	if err := mini.StartTLS(&tls.Config{Certificates: []tls.Certificate{pair}}); err != nil {
		t.Fatalf("start TLS miniredis: %v", err)
	}
	t.Cleanup(mini.Close)

	client, err := New(Config{
		Enabled: true,
		Addr:    mini.Addr(),
		TLS:     security.TLSConfig{Enabled: true, CAFile: certs.CAFile},
	}, logger.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("Ping over TLS: %v", err)
	}

	_, err = New(Config{
		Enabled: true,
		TLS:     security.TLSConfig{Enabled: true, CAFile: "/nonexistent/ca.pem"},
	}, logger.Nop())
	if err == nil {
		t.Fatal("expected error for missing CA file")
	}
}

func TestClient_GetMissing(t *testing.T) {
	client, _ := newTestClient(t)
	_, found, err := client.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if found {
		t.Fatal("expected found=false for missing key")
	}
}

func TestClient_CheckHealth(t *testing.T) {
	client, mini := newTestClient(t)
	ctx := context.Background()

	if h := client.CheckHealth(ctx); h.Status != observability.HealthStatusUp {
		t.Fatalf("expected up, got %s (%s)", h.Status, h.Message)
	}

	mini.Close()
	if h := client.CheckHealth(ctx); h.Status != observability.HealthStatusDown {
		t.Fatalf("expected down after server stopped, got %s", h.Status)
	}
}

func TestClient_CloseIdempotent(t *testing.T) {
	client, _ := newTestClient(t)
	if err := client.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("second Close should be a no-op: %v", err)
	}
}

func TestTypedStore_SaveAndLoad(t *testing.T) {
	client, _ := newTestClient(t)
	store := NewTypedStore[testState](client, "test")
	ctx := context.Background()

	if err := store.Save(ctx, "k1", &testState{Count: 5, Tags: []string{"a", "b"}}, 0); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := store.Load(ctx, "k1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got == nil || got.Count != 5 || len(got.Tags) != 2 {
		t.Fatalf("expected Count=5, Tags=2, got %+v", got)
	}
}

func TestTypedStore_LoadMissing(t *testing.T) {
	client, _ := newTestClient(t)
	store := NewTypedStore[testState](client, "test")

	got, err := store.Load(context.Background(), "nonexistent")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing key, got %+v", got)
	}
}

func TestTypedStore_Delete(t *testing.T) {
	client, _ := newTestClient(t)
	store := NewTypedStore[testState](client, "test")
	ctx := context.Background()

	if err := store.Save(ctx, "k1", &testState{Count: 1}, 0); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Delete(ctx, "k1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	got, err := store.Load(ctx, "k1")
	if err != nil {
		t.Fatalf("Load after delete failed: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil after delete, got %+v", got)
	}
}

func TestTypedStore_TTL(t *testing.T) {
	client, mini := newTestClient(t)
	store := NewTypedStore[testState](client, "test")
	ctx := context.Background()

	if err := store.Save(ctx, "k1", &testState{Count: 1}, 2*time.Second); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if got, err := store.Load(ctx, "k1"); err != nil || got == nil {
		t.Fatalf("expected value before TTL, got %v, err %v", got, err)
	}

	mini.FastForward(3 * time.Second)

	got, err := store.Load(ctx, "k1")
	if err != nil {
		t.Fatalf("Load after TTL failed: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil after TTL expiration, got %+v", got)
	}
}

func TestTypedStore_KeyPrefix(t *testing.T) {
	client, mini := newTestClient(t)
	ctx := context.Background()

	if err := NewTypedStore[testState](client, "myprefix").Save(ctx, "k1", &testState{Count: 42}, 0); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !mini.Exists("myprefix:k1") {
		t.Fatal("expected prefixed key in Redis")
	}

	if err := NewTypedStore[testState](client, "").Save(ctx, "bare-key", &testState{Count: 1}, 0); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !mini.Exists("bare-key") {
		t.Fatal("expected bare key in Redis")
	}
}

func TestTypedStore_CorruptValue(t *testing.T) {
	client, mini := newTestClient(t)
	store := NewTypedStore[testState](client, "test")

	if err := mini.Set("test:k1", "{not json"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Load(context.Background(), "k1"); err == nil {
		t.Fatal("expected unmarshal error for corrupt value")
	}
}

func TestTypedStore_Encrypted(t *testing.T) {
	client, mini := newTestClient(t)
	c, err := encryption.New("cache-secret")
	if err != nil {
		t.Fatalf("encryption.New: %v", err)
	}
	store := NewTypedStore[testState](client, "sealed", WithCipher(c))
	ctx := context.Background()

	if err := store.Save(ctx, "k1", &testState{Count: 7, Tags: []string{"card"}}, 0); err != nil {
		t.Fatalf("Save: %v", err)
	}
	raw, err := mini.Get("sealed:k1")
	if err != nil {
		t.Fatalf("mini.Get: %v", err)
	}
	if bytes.Contains([]byte(raw), []byte("card")) {
		t.Error("stored value should not contain plaintext")
	}

	got, err := store.Load(ctx, "k1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Count != 7 || len(got.Tags) != 1 {
		t.Errorf("got %+v", got)
	}

	// a sealed value moved under another key must not open
	if err := mini.Set("sealed:k2", raw); err != nil {
		t.Fatalf("mini.Set: %v", err)
	}
	if _, err := store.Load(ctx, "k2"); err == nil {
		t.Error("expected error loading a value sealed for another key")
	}
}
