package queue

import "context"

// IngestJob is the payload handed to the ingestion worker for one completed
// upload. The worker resolves the file by ID and advances its status.
type IngestJob struct {
	FileID     string `json:"file_id"`
	StorageKey string `json:"storage_key"`
}

// Enqueuer appends ingestion jobs to a durable work queue. This side never
// peeks, dequeues, or mutates jobs; delivery and retry semantics belong to
// the queue and its consumers.
type Enqueuer interface {
	Enqueue(ctx context.Context, job IngestJob) error
	// Close drains and releases the underlying connection. Call it once at
	// process shutdown.
	Close() error
}
