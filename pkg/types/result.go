package types

// EntityKind names the document entity an operation or verification
// targets.
type EntityKind string

// Entity kinds.
const (
	KindSheet           EntityKind = "sheet"
	KindVisual          EntityKind = "visual"
	KindCalculatedField EntityKind = "calculated_field"
	KindParameter       EntityKind = "parameter"
	KindFilterGroup     EntityKind = "filter_group"
)

// OperationResult is the outcome of one mutation pipeline run.
type OperationResult struct {
	DocumentID string     `json:"document_id"`
	EntityKind EntityKind `json:"entity_kind,omitempty"`

	// EntityID identifies the entity the operation created or affected
	// (for example a newly created visual ID).
	EntityID string `json:"entity_id,omitempty"`

	// BackupID is set when a pre-write backup was taken.
	BackupID string `json:"backup_id,omitempty"`

	// Verified is true when post-write verification ran and passed;
	// false when verification was disabled for the run.
	Verified bool `json:"verified"`

	// Marker is the version marker of the committed document.
	Marker VersionMarker `json:"marker,omitempty"`

	// Warnings carries non-fatal degradations, currently only backup
	// write failures when those are configured non-fatal.
	Warnings []string `json:"warnings,omitempty"`
}

// VerifyMode selects the verification variant.
type VerifyMode string

// Verification variants.
const (
	VerifyExists VerifyMode = "exists"
	VerifyAbsent VerifyMode = "absent"
	VerifyCount  VerifyMode = "count"
)

// VerificationSpec states what a fresh post-write fetch must show.
// Build one with ExpectExists, ExpectAbsent, or ExpectCount; attribute
// matches are added with WithName or WithTitle.
type VerificationSpec struct {
	Mode     VerifyMode `json:"mode"`
	Kind     EntityKind `json:"kind"`
	EntityID string     `json:"entity_id,omitempty"`

	// Name, when non-empty, must equal the entity's name (sheets,
	// parameters, calculated fields) or title (visuals).
	Name string `json:"name,omitempty"`

	// Expression, when non-empty, must equal the calculated field's
	// expression. Only meaningful for KindCalculatedField.
	Expression string `json:"expression,omitempty"`

	// SheetID scopes a count check to one sheet; empty counts the whole
	// document.
	SheetID string `json:"sheet_id,omitempty"`

	// Expected is the exact count for VerifyCount.
	Expected int `json:"expected,omitempty"`
}

// ExpectExists asserts that the entity is present after the write.
func ExpectExists(kind EntityKind, entityID string) *VerificationSpec {
	return &VerificationSpec{Mode: VerifyExists, Kind: kind, EntityID: entityID}
}

// ExpectAbsent asserts that the entity is gone after the write.
func ExpectAbsent(kind EntityKind, entityID string) *VerificationSpec {
	return &VerificationSpec{Mode: VerifyAbsent, Kind: kind, EntityID: entityID}
}

// ExpectCount asserts an exact entity count, optionally scoped to a sheet.
func ExpectCount(kind EntityKind, sheetID string, expected int) *VerificationSpec {
	return &VerificationSpec{Mode: VerifyCount, Kind: kind, SheetID: sheetID, Expected: expected}
}

// WithName adds a name match to an exists check.
func (s *VerificationSpec) WithName(name string) *VerificationSpec {
	s.Name = name
	return s
}

// WithTitle adds a title match to a visual exists check. Alias of WithName;
// visuals match on title.
func (s *VerificationSpec) WithTitle(title string) *VerificationSpec {
	return s.WithName(title)
}

// WithExpression adds an expression match to a calculated-field exists
// check, so a write that lands the field but loses its new expression
// still fails verification.
func (s *VerificationSpec) WithExpression(expression string) *VerificationSpec {
	s.Expression = expression
	return s
}
