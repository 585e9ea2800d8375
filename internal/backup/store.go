// Package backup persists full pre-write copies of documents so any
// mutation can be rolled back after the fact.
package backup

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/easel/pkg/types"
)

// Store writes and reads backup records through a blob store.
type Store struct {
	blobs types.BlobStore
	now   func() time.Time
}

// NewStore builds a backup store over blobs.
func NewStore(blobs types.BlobStore) *Store {
	return &Store{blobs: blobs, now: time.Now}
}

// newBackupID builds a key that sorts chronologically per document and
// stays unique under concurrent captures in the same second.
func (s *Store) newBackupID(documentID string) string {
	suffix := shortID()
	return fmt.Sprintf("%s_%s_%s", documentID, s.now().UTC().Format("20060102_150405"), suffix)
}

func shortID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return strings.Split(id.String(), "-")[0]
}

// Save stores a full copy of the document and returns the backup ID.
func (s *Store) Save(documentID string, doc *types.Document) (string, error) {
	rec := types.BackupRecord{
		BackupID:   s.newBackupID(documentID),
		DocumentID: documentID,
		CapturedAt: s.now().UTC(),
		Document:   doc,
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("encoding backup for %s: %w", documentID, err)
	}
	if err := s.blobs.Put(types.BucketBackups, rec.BackupID, data); err != nil {
		return "", fmt.Errorf("writing backup %s: %w", rec.BackupID, err)
	}
	slog.Debug("backup saved", "backup_id", rec.BackupID, "document_id", documentID, "bytes", len(data))
	return rec.BackupID, nil
}

// Load returns the backup record stored under backupID.
func (s *Store) Load(backupID string) (*types.BackupRecord, error) {
	data, err := s.blobs.Get(types.BucketBackups, backupID)
	if err != nil {
		return nil, fmt.Errorf("reading backup %s: %w", backupID, err)
	}
	var rec types.BackupRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decoding backup %s: %w", backupID, err)
	}
	return &rec, nil
}

// List returns backup infos, newest first. A non-empty documentID filters
// to that document's backups.
func (s *Store) List(documentID string) ([]types.BlobInfo, error) {
	infos, err := s.blobs.List(types.BucketBackups)
	if err != nil {
		return nil, fmt.Errorf("listing backups: %w", err)
	}
	if documentID == "" {
		return infos, nil
	}
	filtered := infos[:0]
	for _, info := range infos {
		if keyMatchesDocument(info.Key, documentID) {
			filtered = append(filtered, info)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})
	return filtered, nil
}

// Latest returns the most recent backup record for a document, or
// types.ErrNotFound (wrapped) when none exists.
func (s *Store) Latest(documentID string) (*types.BackupRecord, error) {
	infos, err := s.List(documentID)
	if err != nil {
		return nil, err
	}
	if len(infos) == 0 {
		return nil, fmt.Errorf("no backups for %s: %w", documentID, types.ErrNotFound)
	}
	return s.Load(infos[0].Key)
}

// keyMatchesDocument reports whether a stored key belongs to documentID.
// Keys are <documentID>_<yyyymmdd>_<hhmmss>_<suffix>; a bare prefix check
// would also claim keys of documents whose ID extends this one.
func keyMatchesDocument(key, documentID string) bool {
	rest, ok := strings.CutPrefix(key, documentID+"_")
	if !ok {
		return false
	}
	parts := strings.Split(rest, "_")
	return len(parts) == 3 && isDigits(parts[0]) && isDigits(parts[1])
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Delete removes one backup.
func (s *Store) Delete(backupID string) error {
	if err := s.blobs.Delete(types.BucketBackups, backupID); err != nil {
		return fmt.Errorf("deleting backup %s: %w", backupID, err)
	}
	return nil
}
