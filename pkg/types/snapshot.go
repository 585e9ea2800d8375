package types

import "time"

// SheetSummary is the snapshot view of one sheet.
type SheetSummary struct {
	SheetID     string `json:"sheet_id"`
	Name        string `json:"name"`
	VisualCount int    `json:"visual_count"`
}

// VisualSummary is the snapshot view of one visual.
type VisualSummary struct {
	VisualID string     `json:"visual_id"`
	Type     VisualType `json:"type"`
	Title    string     `json:"title,omitempty"`
	SheetID  string     `json:"sheet_id"`
}

// CalcFieldSummary is the snapshot view of one calculated field.
type CalcFieldSummary struct {
	Name       string `json:"name"`
	Expression string `json:"expression"`
}

// Snapshot is a lightweight structural summary of a document, captured for
// later comparison. It never stores the full document body. Read-only once
// created.
type Snapshot struct {
	SnapshotID string    `json:"snapshot_id"`
	DocumentID string    `json:"document_id"`
	CapturedAt time.Time `json:"captured_at"`

	Sheets           []SheetSummary     `json:"sheets"`
	Visuals          []VisualSummary    `json:"visuals"`
	CalcFields       []CalcFieldSummary `json:"calc_fields"`
	ParameterNames   []string           `json:"parameter_names"`
	FilterGroupCount int                `json:"filter_group_count"`
}

// FieldChange records one field-level difference on an entity present in
// both snapshots.
type FieldChange struct {
	EntityID string `json:"entity_id"`
	Field    string `json:"field"`
	Old      string `json:"old"`
	New      string `json:"new"`
}

// DiffResult is the set-difference comparison of two snapshots. Membership
// is keyed by stable identity, never by list position.
type DiffResult struct {
	DocumentID string `json:"document_id"`
	SnapshotID string `json:"snapshot_id,omitempty"`

	SheetsAdded   []SheetSummary `json:"sheets_added"`
	SheetsRemoved []SheetSummary `json:"sheets_removed"`

	VisualsAdded   []VisualSummary `json:"visuals_added"`
	VisualsRemoved []VisualSummary `json:"visuals_removed"`
	VisualChanges  []FieldChange   `json:"visual_changes"`

	CalcFieldsAdded   []CalcFieldSummary `json:"calc_fields_added"`
	CalcFieldsRemoved []CalcFieldSummary `json:"calc_fields_removed"`
	CalcFieldChanges  []FieldChange      `json:"calc_field_changes"`

	ParametersAdded   []string `json:"parameters_added"`
	ParametersRemoved []string `json:"parameters_removed"`
}

// HasChanges reports whether any category of the diff is non-empty.
func (d *DiffResult) HasChanges() bool {
	return len(d.SheetsAdded) > 0 ||
		len(d.SheetsRemoved) > 0 ||
		len(d.VisualsAdded) > 0 ||
		len(d.VisualsRemoved) > 0 ||
		len(d.VisualChanges) > 0 ||
		len(d.CalcFieldsAdded) > 0 ||
		len(d.CalcFieldsRemoved) > 0 ||
		len(d.CalcFieldChanges) > 0 ||
		len(d.ParametersAdded) > 0 ||
		len(d.ParametersRemoved) > 0
}

// BackupRecord is an immutable copy of a document plus capture metadata.
// Never mutated after creation; retained until externally pruned.
type BackupRecord struct {
	BackupID   string    `json:"backup_id"`
	DocumentID string    `json:"document_id"`
	CapturedAt time.Time `json:"captured_at"`
	Document   *Document `json:"document"`
}
