package gateway

import (
	"context"
	"net/http"
	"time"

	"github.com/kbukum/accessmatrix/auth"
	"github.com/kbukum/accessmatrix/auth/authctx"
	"github.com/kbukum/accessmatrix/logger"
	"github.com/kbukum/accessmatrix/observability"
	"github.com/kbukum/accessmatrix/snapshot"
)

// SnapshotStore persists snapshots by key. redis.TypedStore implements it.
type SnapshotStore interface {
	Load(ctx context.Context, key string) (*snapshot.Snapshot, error)
	Save(ctx context.Context, key string, s *snapshot.Snapshot, ttl time.Duration) error
}

// CachedSource serves snapshots from a store and falls back to the next
// source on a miss. Store failures are logged and bypassed; they never fail
// the request.
type CachedSource struct {
	next  SnapshotSource
	store SnapshotStore
	ttl   time.Duration
	log   *logger.Logger
}

// NewCachedSource wraps next with store.
func NewCachedSource(next SnapshotSource, store SnapshotStore, ttl time.Duration, log *logger.Logger) *CachedSource {
	return &CachedSource{next: next, store: store, ttl: ttl, log: log.WithComponent("snapshot-cache")}
}

// Load returns the cached snapshot for the session, loading and storing it
// on a miss. Requests without session claims are not cached.
func (c *CachedSource) Load(ctx context.Context, r *http.Request) (*snapshot.Snapshot, error) {
	key, ok := cacheKey(ctx)
	if !ok {
		return c.next.Load(ctx, r)
	}

	cached, err := c.store.Load(ctx, key)
	switch {
	case err != nil:
		c.log.WithContext(ctx).Warn("Snapshot cache read failed", logger.Fields(logger.FieldError, err.Error()))
	case cached != nil:
		return cached, nil
	}

	s, err := c.next.Load(ctx, r)
	if err != nil {
		return nil, err
	}
	if err := c.store.Save(ctx, key, s, c.ttl); err != nil {
		c.log.WithContext(ctx).Warn("Snapshot cache write failed", logger.Fields(logger.FieldError, err.Error()))
	}
	return s, nil
}

// CheckHealth delegates to the wrapped source.
func (c *CachedSource) CheckHealth(ctx context.Context) observability.Health {
	if hc, ok := c.next.(observability.HealthChecker); ok {
		return hc.CheckHealth(ctx)
	}
	return observability.Health{Name: "snapshot-source", Status: observability.HealthStatusUp}
}

// cacheKey scopes entries to the token subject and the membership, so two
// sessions never share a snapshot.
func cacheKey(ctx context.Context) (string, bool) {
	claims, ok := authctx.Get[*auth.SessionClaims](ctx)
	if !ok || claims.AccountMembershipID == "" {
		return "", false
	}
	return claims.Subject + ":" + claims.AccountMembershipID, true
}
