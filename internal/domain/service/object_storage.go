package service

import (
	"context"
	"time"
)

// ObjectStorage is the gateway over the bucket. Callers deal in keys only;
// URLs are minted on demand through the presign calls and never persisted.
type ObjectStorage interface {
	PutObject(ctx context.Context, key string, data []byte, contentType string) (string, error)
	GetObject(ctx context.Context, key string) ([]byte, error)
	DeleteObject(ctx context.Context, key string) error
	// DeleteByPrefix removes every object under the prefix. Individual
	// failures are logged and skipped; the call never aborts mid-sweep.
	DeleteByPrefix(ctx context.Context, prefix string) error
	ListObjects(ctx context.Context, prefix string) ([]string, error)
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
	PresignPut(ctx context.Context, key string, contentType string, ttl time.Duration) (string, error)
}
