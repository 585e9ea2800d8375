package types

import (
	"fmt"

	"github.com/tiendc/go-deepcopy"
)

// VersionMarker is the opaque last-modified token of a document, captured at
// fetch time and presented back at commit time for optimistic locking. An
// empty marker means "no lock": the commit is unconditional.
type VersionMarker string

// Document is the full analysis definition. It is mutated only by replacing
// the whole document in one remote call; callers own their in-memory copy
// exclusively for the duration of one pipeline run.
type Document struct {
	Sheets           []Sheet           `json:"sheets"`
	CalculatedFields []CalculatedField `json:"calculated_fields,omitempty"`
	Parameters       []Parameter       `json:"parameters,omitempty"`
	FilterGroups     []FilterGroup     `json:"filter_groups,omitempty"`
}

// Sheet is an ordered collection of visuals plus their grid layout.
type Sheet struct {
	SheetID string          `json:"sheet_id"`
	Name    string          `json:"name"`
	Visuals []Visual        `json:"visuals"`
	Layout  []LayoutElement `json:"layout"`
}

// LayoutElement binds one visual to a grid position. Every visual has at
// most one layout element; an element whose VisualID matches no visual is a
// consistency defect reported by the health check.
type LayoutElement struct {
	VisualID    string `json:"visual_id"`
	ColumnIndex int    `json:"column_index"`
	ColumnSpan  int    `json:"column_span"`
	RowIndex    int    `json:"row_index"`
	RowSpan     int    `json:"row_span"`
}

// CalculatedField maps a name to an expression over dataset columns.
// Names are unique within a document.
type CalculatedField struct {
	Name       string `json:"name"`
	Dataset    string `json:"dataset,omitempty"`
	Expression string `json:"expression"`
}

// Parameter type names.
const (
	ParamString   = "string"
	ParamInteger  = "integer"
	ParamDecimal  = "decimal"
	ParamDateTime = "datetime"
)

// validParamTypes is the set of recognized parameter type values.
var validParamTypes = map[string]bool{
	ParamString:   true,
	ParamInteger:  true,
	ParamDecimal:  true,
	ParamDateTime: true,
}

// IsValidParamType reports whether t is a recognized parameter type.
func IsValidParamType(t string) bool {
	return validParamTypes[t]
}

// Parameter is a typed, named input declaration with a default value.
// Names are unique within a document.
type Parameter struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Default any    `json:"default,omitempty"`
}

// FilterScope selects the sheets (and optionally visuals) a filter group
// applies to. AllSheets and SheetIDs are mutually exclusive.
type FilterScope struct {
	AllSheets bool     `json:"all_sheets,omitempty"`
	SheetIDs  []string `json:"sheet_ids,omitempty"`
}

// FilterCondition is one condition within a filter group.
type FilterCondition struct {
	Column   string   `json:"column"`
	Operator string   `json:"operator"`
	Values   []string `json:"values,omitempty"`
}

// FilterGroup is an ordered set of filter conditions with a scope.
type FilterGroup struct {
	FilterGroupID string            `json:"filter_group_id"`
	Scope         FilterScope       `json:"scope"`
	Filters       []FilterCondition `json:"filters"`
}

// Counts summarizes the entity cardinalities the destructive-change
// detector compares.
type Counts struct {
	Sheets           int `json:"sheets"`
	Visuals          int `json:"visuals"`
	CalculatedFields int `json:"calculated_fields"`
}

func (c Counts) String() string {
	return fmt.Sprintf("sheets=%d visuals=%d calculated_fields=%d",
		c.Sheets, c.Visuals, c.CalculatedFields)
}

// Clone returns a deep copy of the document. The pipeline transforms a
// clone so the captured "before" state stays untouched for comparison.
func (d *Document) Clone() (*Document, error) {
	var out Document
	if err := deepcopy.Copy(&out, d); err != nil {
		return nil, fmt.Errorf("cloning document: %w", err)
	}
	return &out, nil
}

// Counts returns the sheet, visual, and calculated-field cardinalities.
func (d *Document) Counts() Counts {
	return Counts{
		Sheets:           len(d.Sheets),
		Visuals:          d.VisualCount(),
		CalculatedFields: len(d.CalculatedFields),
	}
}

// VisualCount returns the number of visuals across all sheets.
func (d *Document) VisualCount() int {
	n := 0
	for i := range d.Sheets {
		n += len(d.Sheets[i].Visuals)
	}
	return n
}

// FindSheet returns the sheet with the given ID, or nil.
func (d *Document) FindSheet(sheetID string) *Sheet {
	for i := range d.Sheets {
		if d.Sheets[i].SheetID == sheetID {
			return &d.Sheets[i]
		}
	}
	return nil
}

// FindVisual returns the owning sheet and the visual with the given ID.
// Visual IDs are globally addressable within a document.
func (d *Document) FindVisual(visualID string) (*Sheet, *Visual) {
	for i := range d.Sheets {
		s := &d.Sheets[i]
		for j := range s.Visuals {
			if s.Visuals[j].VisualID == visualID {
				return s, &s.Visuals[j]
			}
		}
	}
	return nil, nil
}

// FindCalculatedField returns the calculated field with the given name, or nil.
func (d *Document) FindCalculatedField(name string) *CalculatedField {
	for i := range d.CalculatedFields {
		if d.CalculatedFields[i].Name == name {
			return &d.CalculatedFields[i]
		}
	}
	return nil
}

// FindParameter returns the parameter with the given name, or nil.
func (d *Document) FindParameter(name string) *Parameter {
	for i := range d.Parameters {
		if d.Parameters[i].Name == name {
			return &d.Parameters[i]
		}
	}
	return nil
}

// FindFilterGroup returns the filter group with the given ID, or nil.
func (d *Document) FindFilterGroup(filterGroupID string) *FilterGroup {
	for i := range d.FilterGroups {
		if d.FilterGroups[i].FilterGroupID == filterGroupID {
			return &d.FilterGroups[i]
		}
	}
	return nil
}

// LayoutFor returns the sheet's layout element bound to visualID, or nil.
func (s *Sheet) LayoutFor(visualID string) *LayoutElement {
	for i := range s.Layout {
		if s.Layout[i].VisualID == visualID {
			return &s.Layout[i]
		}
	}
	return nil
}
