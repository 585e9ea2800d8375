// Package snapshot captures lightweight structural summaries of documents
// and computes identity-keyed diffs between a summary and the live
// document.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/easel/pkg/types"
)

// Engine captures, stores, and diffs snapshots.
type Engine struct {
	client types.DocumentClient
	blobs  types.BlobStore
	now    func() time.Time
}

// NewEngine builds a snapshot engine over the given client and blob store.
func NewEngine(client types.DocumentClient, blobs types.BlobStore) *Engine {
	return &Engine{client: client, blobs: blobs, now: time.Now}
}

// Summarize reduces a document to its snapshot form. It stores structure
// only, never full visual payloads.
func Summarize(documentID string, doc *types.Document) *types.Snapshot {
	snap := &types.Snapshot{
		DocumentID:       documentID,
		FilterGroupCount: len(doc.FilterGroups),
	}
	for i := range doc.Sheets {
		s := &doc.Sheets[i]
		snap.Sheets = append(snap.Sheets, types.SheetSummary{
			SheetID:     s.SheetID,
			Name:        s.Name,
			VisualCount: len(s.Visuals),
		})
		for j := range s.Visuals {
			v := &s.Visuals[j]
			snap.Visuals = append(snap.Visuals, types.VisualSummary{
				VisualID: v.VisualID,
				Type:     v.Type,
				Title:    v.Title,
				SheetID:  s.SheetID,
			})
		}
	}
	for i := range doc.CalculatedFields {
		f := &doc.CalculatedFields[i]
		snap.CalcFields = append(snap.CalcFields, types.CalcFieldSummary{
			Name:       f.Name,
			Expression: f.Expression,
		})
	}
	for i := range doc.Parameters {
		snap.ParameterNames = append(snap.ParameterNames, doc.Parameters[i].Name)
	}
	return snap
}

// Capture fetches the document, summarizes it, and persists the snapshot.
func (e *Engine) Capture(ctx context.Context, documentID string) (*types.Snapshot, error) {
	doc, _, err := e.client.Fetch(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("fetching %s for snapshot: %w", documentID, err)
	}
	snap := Summarize(documentID, doc)
	snap.SnapshotID = e.newSnapshotID(documentID)
	snap.CapturedAt = e.now().UTC()

	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot for %s: %w", documentID, err)
	}
	if err := e.blobs.Put(types.BucketSnapshots, snap.SnapshotID, data); err != nil {
		return nil, fmt.Errorf("writing snapshot %s: %w", snap.SnapshotID, err)
	}
	slog.Debug("snapshot captured", "snapshot_id", snap.SnapshotID, "document_id", documentID)
	return snap, nil
}

// Load returns the snapshot stored under snapshotID.
func (e *Engine) Load(snapshotID string) (*types.Snapshot, error) {
	data, err := e.blobs.Get(types.BucketSnapshots, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot %s: %w", snapshotID, err)
	}
	var snap types.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot %s: %w", snapshotID, err)
	}
	return &snap, nil
}

// List returns snapshot infos, newest first. A non-empty documentID
// filters to that document's snapshots.
func (e *Engine) List(documentID string) ([]types.BlobInfo, error) {
	infos, err := e.blobs.List(types.BucketSnapshots)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
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
	return filtered, nil
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

// Delete removes one snapshot.
func (e *Engine) Delete(snapshotID string) error {
	if err := e.blobs.Delete(types.BucketSnapshots, snapshotID); err != nil {
		return fmt.Errorf("deleting snapshot %s: %w", snapshotID, err)
	}
	return nil
}

// DiffAgainstLive loads a stored snapshot and diffs it against a fresh
// fetch of the document.
func (e *Engine) DiffAgainstLive(ctx context.Context, snapshotID string) (*types.DiffResult, error) {
	old, err := e.Load(snapshotID)
	if err != nil {
		return nil, err
	}
	doc, _, err := e.client.Fetch(ctx, old.DocumentID)
	if err != nil {
		return nil, fmt.Errorf("fetching %s for diff: %w", old.DocumentID, err)
	}
	cur := Summarize(old.DocumentID, doc)
	result := Diff(old, cur)
	result.SnapshotID = snapshotID
	return result, nil
}

func (e *Engine) newSnapshotID(documentID string) string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	short := strings.Split(id.String(), "-")[0]
	return fmt.Sprintf("%s_%s_%s", documentID, e.now().UTC().Format("20060102_150405"), short)
}

// Diff compares two snapshots keyed by stable identity: sheet ID, visual
// ID, calculated-field name, parameter name. Reordering alone produces an
// empty diff.
func Diff(old, new *types.Snapshot) *types.DiffResult {
	result := &types.DiffResult{DocumentID: old.DocumentID}

	oldSheets := map[string]types.SheetSummary{}
	for _, s := range old.Sheets {
		oldSheets[s.SheetID] = s
	}
	newSheets := map[string]types.SheetSummary{}
	for _, s := range new.Sheets {
		newSheets[s.SheetID] = s
		if _, ok := oldSheets[s.SheetID]; !ok {
			result.SheetsAdded = append(result.SheetsAdded, s)
		}
	}
	for _, s := range old.Sheets {
		if _, ok := newSheets[s.SheetID]; !ok {
			result.SheetsRemoved = append(result.SheetsRemoved, s)
		}
	}

	oldVisuals := map[string]types.VisualSummary{}
	for _, v := range old.Visuals {
		oldVisuals[v.VisualID] = v
	}
	newVisuals := map[string]types.VisualSummary{}
	for _, v := range new.Visuals {
		newVisuals[v.VisualID] = v
		prev, ok := oldVisuals[v.VisualID]
		if !ok {
			result.VisualsAdded = append(result.VisualsAdded, v)
			continue
		}
		if prev.Title != v.Title {
			result.VisualChanges = append(result.VisualChanges, types.FieldChange{
				EntityID: v.VisualID, Field: "title", Old: prev.Title, New: v.Title,
			})
		}
		if prev.Type != v.Type {
			result.VisualChanges = append(result.VisualChanges, types.FieldChange{
				EntityID: v.VisualID, Field: "type", Old: string(prev.Type), New: string(v.Type),
			})
		}
		if prev.SheetID != v.SheetID {
			result.VisualChanges = append(result.VisualChanges, types.FieldChange{
				EntityID: v.VisualID, Field: "sheet_id", Old: prev.SheetID, New: v.SheetID,
			})
		}
	}
	for _, v := range old.Visuals {
		if _, ok := newVisuals[v.VisualID]; !ok {
			result.VisualsRemoved = append(result.VisualsRemoved, v)
		}
	}

	oldFields := map[string]types.CalcFieldSummary{}
	for _, f := range old.CalcFields {
		oldFields[f.Name] = f
	}
	newFields := map[string]types.CalcFieldSummary{}
	for _, f := range new.CalcFields {
		newFields[f.Name] = f
		prev, ok := oldFields[f.Name]
		if !ok {
			result.CalcFieldsAdded = append(result.CalcFieldsAdded, f)
			continue
		}
		if prev.Expression != f.Expression {
			result.CalcFieldChanges = append(result.CalcFieldChanges, types.FieldChange{
				EntityID: f.Name, Field: "expression", Old: prev.Expression, New: f.Expression,
			})
		}
	}
	for _, f := range old.CalcFields {
		if _, ok := newFields[f.Name]; !ok {
			result.CalcFieldsRemoved = append(result.CalcFieldsRemoved, f)
		}
	}

	oldParams := map[string]bool{}
	for _, p := range old.ParameterNames {
		oldParams[p] = true
	}
	newParams := map[string]bool{}
	for _, p := range new.ParameterNames {
		newParams[p] = true
		if !oldParams[p] {
			result.ParametersAdded = append(result.ParametersAdded, p)
		}
	}
	for _, p := range old.ParameterNames {
		if !newParams[p] {
			result.ParametersRemoved = append(result.ParametersRemoved, p)
		}
	}

	return result
}
