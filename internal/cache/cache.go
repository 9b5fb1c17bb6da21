package cache

import (
	"context"
	"time"
)

// ProjectionCache stores marshaled ledger projections keyed by report
// name, period and store revision. Keys embed the revision, so entries
// written against an older history are simply never read again.
type ProjectionCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type NoopProjectionCache struct{}

func (NoopProjectionCache) Get(_ context.Context, _ string) ([]byte, bool, error) {
	return nil, false, nil
}

func (NoopProjectionCache) Set(_ context.Context, _ string, _ []byte, _ time.Duration) error {
	return nil
}
