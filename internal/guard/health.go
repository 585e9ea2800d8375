package guard

import (
	"fmt"

	"github.com/mesh-intelligence/easel/pkg/types"
)

// HealthIssue is one consistency defect found in a document.
type HealthIssue struct {
	Check  string `json:"check"`
	Detail string `json:"detail"`
}

// HealthReport is the outcome of a document consistency scan.
type HealthReport struct {
	DocumentID string        `json:"document_id"`
	Healthy    bool          `json:"healthy"`
	Counts     types.Counts  `json:"counts"`
	Issues     []HealthIssue `json:"issues,omitempty"`
}

// CheckHealth scans a document for structural defects: sheet count over
// the configured limit, visuals missing a layout element, layout elements
// bound to no visual, duplicate IDs, and invalid parameter types. It never
// returns an error; defects land in the report.
func CheckHealth(documentID string, doc *types.Document, cfg types.Config) *HealthReport {
	r := &HealthReport{
		DocumentID: documentID,
		Counts:     doc.Counts(),
	}

	if len(doc.Sheets) > cfg.MaxSheets {
		r.add("sheet_limit", fmt.Sprintf("document has %d sheets, limit is %d", len(doc.Sheets), cfg.MaxSheets))
	}

	seenSheets := map[string]bool{}
	seenVisuals := map[string]bool{}
	for i := range doc.Sheets {
		s := &doc.Sheets[i]
		if seenSheets[s.SheetID] {
			r.add("duplicate_sheet_id", fmt.Sprintf("sheet ID %q appears more than once", s.SheetID))
		}
		seenSheets[s.SheetID] = true

		laidOut := map[string]bool{}
		for j := range s.Layout {
			id := s.Layout[j].VisualID
			if laidOut[id] {
				r.add("duplicate_layout", fmt.Sprintf("sheet %q has multiple layout elements for visual %q", s.SheetID, id))
			}
			laidOut[id] = true
		}

		for j := range s.Visuals {
			v := &s.Visuals[j]
			if seenVisuals[v.VisualID] {
				r.add("duplicate_visual_id", fmt.Sprintf("visual ID %q appears more than once", v.VisualID))
			}
			seenVisuals[v.VisualID] = true
			if !laidOut[v.VisualID] {
				r.add("missing_layout", fmt.Sprintf("visual %q on sheet %q has no layout element", v.VisualID, s.SheetID))
			}
			delete(laidOut, v.VisualID)
		}
		for id := range laidOut {
			r.add("dangling_layout", fmt.Sprintf("layout element on sheet %q references unknown visual %q", s.SheetID, id))
		}
	}

	seenFields := map[string]bool{}
	for i := range doc.CalculatedFields {
		name := doc.CalculatedFields[i].Name
		if seenFields[name] {
			r.add("duplicate_calculated_field", fmt.Sprintf("calculated field %q appears more than once", name))
		}
		seenFields[name] = true
		if doc.CalculatedFields[i].Expression == "" {
			r.add("empty_expression", fmt.Sprintf("calculated field %q has an empty expression", name))
		}
	}

	seenParams := map[string]bool{}
	for i := range doc.Parameters {
		p := &doc.Parameters[i]
		if seenParams[p.Name] {
			r.add("duplicate_parameter", fmt.Sprintf("parameter %q appears more than once", p.Name))
		}
		seenParams[p.Name] = true
		if !types.IsValidParamType(p.Type) {
			r.add("invalid_parameter_type", fmt.Sprintf("parameter %q has unknown type %q", p.Name, p.Type))
		}
	}

	for i := range doc.FilterGroups {
		g := &doc.FilterGroups[i]
		if g.Scope.AllSheets && len(g.Scope.SheetIDs) > 0 {
			r.add("ambiguous_filter_scope", fmt.Sprintf("filter group %q sets both all-sheets and a sheet list", g.FilterGroupID))
		}
		for _, id := range g.Scope.SheetIDs {
			if !seenSheets[id] {
				r.add("dangling_filter_scope", fmt.Sprintf("filter group %q scopes unknown sheet %q", g.FilterGroupID, id))
			}
		}
	}

	r.Healthy = len(r.Issues) == 0
	return r
}

func (r *HealthReport) add(check, detail string) {
	r.Issues = append(r.Issues, HealthIssue{Check: check, Detail: detail})
}
