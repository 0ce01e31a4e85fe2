package gateway

import (
	"context"
	"net/http"

	"github.com/kbukum/accessmatrix/snapshot"
)

// SnapshotSource loads the authorization snapshot for the caller of r.
// Implementations return AppErrors; anything else is reported as an
// upstream failure.
type SnapshotSource interface {
	Load(ctx context.Context, r *http.Request) (*snapshot.Snapshot, error)
}

// SnapshotSourceFunc adapts a function to SnapshotSource.
type SnapshotSourceFunc func(ctx context.Context, r *http.Request) (*snapshot.Snapshot, error)

// Load implements SnapshotSource.
func (f SnapshotSourceFunc) Load(ctx context.Context, r *http.Request) (*snapshot.Snapshot, error) {
	return f(ctx, r)
}

// StaticSource returns the same snapshot for every request.
func StaticSource(s *snapshot.Snapshot) SnapshotSource {
	return SnapshotSourceFunc(func(context.Context, *http.Request) (*snapshot.Snapshot, error) {
		return s, nil
	})
}
