package types

import (
	"context"
	"time"
)

// DocumentClient is the remote document service the pipeline mutates
// through. The service holds whole documents: there is no partial patch.
type DocumentClient interface {
	// Fetch returns the current document and its version marker.
	// Returns ErrNotFound (possibly wrapped) if the document does not exist.
	Fetch(ctx context.Context, documentID string) (*Document, VersionMarker, error)

	// Replace overwrites the whole document. With a non-empty marker the
	// write is conditional: a stale marker fails with *ConflictError and
	// nothing is written. Returns the marker of the newly written version.
	// Transport errors pass through untouched; they are retryable by the
	// caller, never retried here.
	Replace(ctx context.Context, documentID string, doc *Document, marker VersionMarker) (VersionMarker, error)
}

// BlobInfo describes one stored blob.
type BlobInfo struct {
	Bucket    string    `json:"bucket"`
	Key       string    `json:"key"`
	Size      int       `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// Bucket names used by the backup and snapshot stores.
const (
	BucketBackups   = "backups"
	BucketSnapshots = "snapshots"
)

// BlobStore is opaque keyed persistence. Backup and snapshot records are
// stored verbatim; the store never interprets blob contents. Writes to
// distinct keys are safe for concurrent callers.
type BlobStore interface {
	// Put stores data under bucket/key, overwriting any existing blob.
	Put(bucket, key string, data []byte) error

	// Get returns the blob under bucket/key.
	// Returns ErrNotFound if no such blob exists.
	Get(bucket, key string) ([]byte, error)

	// List returns info for every blob in the bucket, newest first.
	List(bucket string) ([]BlobInfo, error)

	// Delete removes the blob under bucket/key.
	// Returns ErrNotFound if no such blob exists.
	Delete(bucket, key string) error
}
