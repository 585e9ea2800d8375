// Package guard holds the write-safety layers: the destructive-change
// detector evaluated before a commit, and the post-write verifier and
// health check evaluated after one.
package guard

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/mesh-intelligence/easel/pkg/types"
)

// ChangeClass tells the detector what kind of mutation produced the new
// document. Single-entity deletes are exempt from the bulk-drop heuristic:
// the heuristic exists to catch accidental mass loss from a malformed
// whole-document replacement, not intended surgical deletes.
type ChangeClass string

const (
	// ClassBulk is any mutation that is not an explicit single-entity
	// delete. The full policy applies.
	ClassBulk ChangeClass = "bulk"

	// ClassSingleDelete is an explicit delete of one entity. The
	// aggregate-drop checks are skipped; the empty-document check is not.
	ClassSingleDelete ChangeClass = "single_delete"
)

// Detector blocks writes that remove an implausibly large share of
// entities in one operation.
type Detector struct {
	visualLossThreshold    float64
	calcFieldLossThreshold float64
}

// NewDetector builds a detector with the config's loss thresholds.
func NewDetector(cfg types.Config) *Detector {
	return &Detector{
		visualLossThreshold:    cfg.VisualLossThreshold,
		calcFieldLossThreshold: cfg.CalcFieldLossThreshold,
	}
}

// Evaluate compares the entity counts of the documents before and after a
// transform. It returns nil when the write is allowed and a
// *types.DestructiveChangeError when it is blocked.
func (d *Detector) Evaluate(documentID string, before, after *types.Document, class ChangeClass) error {
	cur := before.Counts()
	next := after.Counts()

	var issues []string

	// Emptying all sheets is blocked for every change class. A restore or
	// a genuinely intended wipe goes through the allow-destructive option.
	if cur.Sheets > 0 && next.Sheets == 0 {
		issues = append(issues, fmt.Sprintf("would delete all %d sheets", cur.Sheets))
	}

	if class != ClassSingleDelete {
		if cur.Visuals > 0 {
			loss := float64(cur.Visuals-next.Visuals) / float64(cur.Visuals)
			if loss > d.visualLossThreshold {
				issues = append(issues, fmt.Sprintf(
					"would delete %.0f%% of visuals (%d -> %d), threshold %.0f%%",
					loss*100, cur.Visuals, next.Visuals, d.visualLossThreshold*100))
			}
		}
		if cur.CalculatedFields > 0 {
			loss := float64(cur.CalculatedFields-next.CalculatedFields) / float64(cur.CalculatedFields)
			if loss > d.calcFieldLossThreshold {
				issues = append(issues, fmt.Sprintf(
					"would delete %.0f%% of calculated fields (%d -> %d), threshold %.0f%%",
					loss*100, cur.CalculatedFields, next.CalculatedFields, d.calcFieldLossThreshold*100))
			}
		}
	}

	if len(issues) == 0 {
		return nil
	}

	slog.Warn("destructive change blocked",
		"document_id", documentID,
		"reason", strings.Join(issues, "; "),
		"before", cur.String(),
		"after", next.String())
	return &types.DestructiveChangeError{
		DocumentID: documentID,
		Reason:     strings.Join(issues, "; "),
		Before:     cur,
		After:      next,
	}
}
