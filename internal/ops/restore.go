package ops

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/easel/internal/pipeline"
	"github.com/mesh-intelligence/easel/pkg/types"
)

// Restore replaces the live document with the contents of a backup. The
// destructive-change detector is bypassed: shrinking back to an earlier
// state is the whole point. The pipeline still backs up the current state
// first, so a restore is itself reversible.
func (s *Service) Restore(ctx context.Context, documentID, backupID string) (*types.OperationResult, error) {
	rec, err := s.runner.Backups().Load(backupID)
	if err != nil {
		return nil, err
	}
	if rec.DocumentID != documentID {
		return nil, fmt.Errorf("backup %s belongs to document %s, not %s", backupID, rec.DocumentID, documentID)
	}
	restored, err := rec.Document.Clone()
	if err != nil {
		return nil, err
	}

	return s.runner.Run(ctx, pipeline.Request{
		DocumentID:     documentID,
		Operation:      "restore-backup",
		BypassDetector: true,
		EntityID:       backupID,
		Transform: func(doc *types.Document) error {
			*doc = *restored
			return nil
		},
		Verify: types.ExpectCount(types.KindSheet, "", len(restored.Sheets)),
	})
}
