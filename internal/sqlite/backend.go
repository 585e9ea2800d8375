// Package sqlite implements the SQLite blob store backend used for backup
// and snapshot persistence.
package sqlite

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/easel/pkg/types"
)

//go:embed schema.sql
var schemaSQL string

// dbFileName is the blob database file inside the data directory.
const dbFileName = "easel.db"

// knownBuckets lists the buckets the backend accepts.
var knownBuckets = map[string]bool{
	types.BucketBackups:   true,
	types.BucketSnapshots: true,
}

// Backend implements types.BlobStore on a single SQLite database file.
// Writes to distinct keys are safe for concurrent callers; SQLite
// serializes the underlying writes and the backend holds its own RWMutex
// around the attach state.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	db       *sql.DB
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{}
}

// Attach opens (or creates) the blob database under config.DataDir and
// initializes the schema. Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, dbFileName))
	if err != nil {
		return err
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return fmt.Errorf("initializing schema: %w", err)
	}

	b.db = db
	b.attached = true
	return nil
}

// Detach closes the database. Idempotent: multiple calls succeed. After
// Detach, blob operations return ErrStoreDetached.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil // idempotent
	}
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}
	b.attached = false
	return nil
}

// Put stores data under bucket/key, overwriting any existing blob.
func (b *Backend) Put(bucket, key string, data []byte) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if err := b.check(bucket, key); err != nil {
		return err
	}
	_, err := b.db.Exec(`
		INSERT INTO blobs (bucket, key, data, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(bucket, key) DO UPDATE SET
			data = excluded.data,
			created_at = excluded.created_at`,
		bucket, key, data, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("storing blob %s/%s: %w", bucket, key, err)
	}
	return nil
}

// Get returns the blob under bucket/key, or ErrNotFound.
func (b *Backend) Get(bucket, key string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if err := b.check(bucket, key); err != nil {
		return nil, err
	}
	var data []byte
	err := b.db.QueryRow(
		"SELECT data FROM blobs WHERE bucket = ? AND key = ?", bucket, key).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading blob %s/%s: %w", bucket, key, err)
	}
	return data, nil
}

// List returns info for every blob in the bucket, newest first.
func (b *Backend) List(bucket string) ([]types.BlobInfo, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if err := b.check(bucket, "-"); err != nil {
		return nil, err
	}
	rows, err := b.db.Query(`
		SELECT key, length(data), created_at FROM blobs
		WHERE bucket = ? ORDER BY created_at DESC`, bucket)
	if err != nil {
		return nil, fmt.Errorf("listing bucket %s: %w", bucket, err)
	}
	defer rows.Close()

	infos := []types.BlobInfo{}
	for rows.Next() {
		var info types.BlobInfo
		var createdAt string
		if err := rows.Scan(&info.Key, &info.Size, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning blob info: %w", err)
		}
		info.Bucket = bucket
		info.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing blob created_at: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// Delete removes the blob under bucket/key, or returns ErrNotFound.
func (b *Backend) Delete(bucket, key string) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if err := b.check(bucket, key); err != nil {
		return err
	}
	res, err := b.db.Exec(
		"DELETE FROM blobs WHERE bucket = ? AND key = ?", bucket, key)
	if err != nil {
		return fmt.Errorf("deleting blob %s/%s: %w", bucket, key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return nil
}

// check validates attach state, bucket, and key. Callers hold b.mu.
func (b *Backend) check(bucket, key string) error {
	if !b.attached {
		return types.ErrStoreDetached
	}
	if !knownBuckets[bucket] {
		return types.ErrBucketUnknown
	}
	if key == "" {
		return types.ErrInvalidID
	}
	return nil
}
