// Package storage contains the object-store abstraction for S3-compatible
// backends. The application never proxies file bytes; it only mints
// time-bounded capabilities (presigned URLs) that let clients talk to the
// store directly.
package storage

import (
	"context"
	"time"
)

// Storage mints presigned URLs against a single configured bucket.
// Implementations must be safe for concurrent use.
type Storage interface {
	// PresignPut returns a time-limited URL authorizing exactly one PUT of a
	// new object at key. The signature covers a conditional-write header, so
	// an upload to an already existing key is rejected by the backend.
	PresignPut(ctx context.Context, key string, expiry time.Duration) (string, error)
	// PresignGet returns a time-limited URL that can be used to download the
	// object without credentials.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}
