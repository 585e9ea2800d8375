package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/easel/pkg/types"
)

func issueChecks(r *HealthReport) []string {
	out := make([]string, 0, len(r.Issues))
	for _, i := range r.Issues {
		out = append(out, i.Check)
	}
	return out
}

func TestCheckHealthClean(t *testing.T) {
	r := CheckHealth("doc-1", buildDoc(2, 3, 2), types.DefaultConfig())
	assert.True(t, r.Healthy)
	assert.Empty(t, r.Issues)
	assert.Equal(t, types.Counts{Sheets: 2, Visuals: 6, CalculatedFields: 2}, r.Counts)
}

func TestCheckHealthSheetLimit(t *testing.T) {
	cfg := types.DefaultConfig()
	cfg.MaxSheets = 2
	r := CheckHealth("doc-1", buildDoc(3, 0, 0), cfg)
	require.False(t, r.Healthy)
	assert.Contains(t, issueChecks(r), "sheet_limit")
}

func TestCheckHealthLayoutDefects(t *testing.T) {
	doc := &types.Document{
		Sheets: []types.Sheet{
			{
				SheetID: "sheet-1",
				Name:    "Main",
				Visuals: []types.Visual{
					{VisualID: "visual-laid-out", Type: types.VisualTable},
					{VisualID: "visual-orphan", Type: types.VisualKPI},
				},
				Layout: []types.LayoutElement{
					{VisualID: "visual-laid-out"},
					{VisualID: "visual-gone"},
				},
			},
		},
	}
	r := CheckHealth("doc-1", doc, types.DefaultConfig())
	require.False(t, r.Healthy)
	checks := issueChecks(r)
	assert.Contains(t, checks, "missing_layout")
	assert.Contains(t, checks, "dangling_layout")
	assert.NotContains(t, checks, "duplicate_layout")
}

func TestCheckHealthDuplicates(t *testing.T) {
	doc := &types.Document{
		Sheets: []types.Sheet{
			{SheetID: "sheet-1", Name: "A"},
			{SheetID: "sheet-1", Name: "B"},
		},
		CalculatedFields: []types.CalculatedField{
			{Name: "margin", Expression: "1"},
			{Name: "margin", Expression: "2"},
		},
		Parameters: []types.Parameter{
			{Name: "region", Type: types.ParamString},
			{Name: "region", Type: types.ParamString},
		},
	}
	r := CheckHealth("doc-1", doc, types.DefaultConfig())
	require.False(t, r.Healthy)
	checks := issueChecks(r)
	assert.Contains(t, checks, "duplicate_sheet_id")
	assert.Contains(t, checks, "duplicate_calculated_field")
	assert.Contains(t, checks, "duplicate_parameter")
}

func TestCheckHealthScalarDefects(t *testing.T) {
	doc := &types.Document{
		Sheets: []types.Sheet{{SheetID: "sheet-1", Name: "A"}},
		CalculatedFields: []types.CalculatedField{
			{Name: "empty-expr"},
		},
		Parameters: []types.Parameter{
			{Name: "oddball", Type: "money"},
		},
		FilterGroups: []types.FilterGroup{
			{FilterGroupID: "fg-both", Scope: types.FilterScope{AllSheets: true, SheetIDs: []string{"sheet-1"}}},
			{FilterGroupID: "fg-dangling", Scope: types.FilterScope{SheetIDs: []string{"sheet-9"}}},
		},
	}
	r := CheckHealth("doc-1", doc, types.DefaultConfig())
	require.False(t, r.Healthy)
	checks := issueChecks(r)
	assert.Contains(t, checks, "empty_expression")
	assert.Contains(t, checks, "invalid_parameter_type")
	assert.Contains(t, checks, "ambiguous_filter_scope")
	assert.Contains(t, checks, "dangling_filter_scope")
}
