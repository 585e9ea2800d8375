package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureDoc() *Document {
	return &Document{
		Sheets: []Sheet{
			{
				SheetID: "sheet-1",
				Name:    "Main",
				Visuals: []Visual{
					{VisualID: "visual-1", Type: VisualKPI, Title: "Revenue"},
					{VisualID: "visual-2", Type: VisualBarChart, Title: "By Region"},
				},
				Layout: []LayoutElement{
					{VisualID: "visual-1", ColumnSpan: 18, RowSpan: 12},
				},
			},
			{SheetID: "sheet-2", Name: "Empty"},
		},
		CalculatedFields: []CalculatedField{{Name: "margin", Expression: "{rev} - {cost}"}},
		Parameters:       []Parameter{{Name: "region", Type: ParamString, Default: "EMEA"}},
		FilterGroups:     []FilterGroup{{FilterGroupID: "fg-1", Scope: FilterScope{AllSheets: true}}},
	}
}

func TestCloneIsolation(t *testing.T) {
	original := fixtureDoc()
	clone, err := original.Clone()
	require.NoError(t, err)
	require.Equal(t, original, clone)

	clone.Sheets[0].Name = "Changed"
	clone.Sheets[0].Visuals[0].Title = "Changed"
	clone.CalculatedFields[0].Expression = "changed"
	clone.FilterGroups[0].Scope.AllSheets = false

	assert.Equal(t, "Main", original.Sheets[0].Name)
	assert.Equal(t, "Revenue", original.Sheets[0].Visuals[0].Title)
	assert.Equal(t, "{rev} - {cost}", original.CalculatedFields[0].Expression)
	assert.True(t, original.FilterGroups[0].Scope.AllSheets)
}

func TestCounts(t *testing.T) {
	doc := fixtureDoc()
	counts := doc.Counts()
	assert.Equal(t, Counts{Sheets: 2, Visuals: 2, CalculatedFields: 1}, counts)
	assert.Equal(t, 2, doc.VisualCount())
	assert.Equal(t, "sheets=2 visuals=2 calculated_fields=1", counts.String())
}

func TestFinders(t *testing.T) {
	doc := fixtureDoc()

	require.NotNil(t, doc.FindSheet("sheet-1"))
	assert.Nil(t, doc.FindSheet("sheet-9"))

	sheet, visual := doc.FindVisual("visual-2")
	require.NotNil(t, visual)
	assert.Equal(t, "sheet-1", sheet.SheetID)
	_, missing := doc.FindVisual("visual-9")
	assert.Nil(t, missing)

	require.NotNil(t, doc.FindCalculatedField("margin"))
	assert.Nil(t, doc.FindCalculatedField("nope"))
	require.NotNil(t, doc.FindParameter("region"))
	assert.Nil(t, doc.FindParameter("nope"))
	require.NotNil(t, doc.FindFilterGroup("fg-1"))
	assert.Nil(t, doc.FindFilterGroup("nope"))
}

func TestFindersReturnAddressableElements(t *testing.T) {
	doc := fixtureDoc()
	doc.FindSheet("sheet-1").Name = "Renamed"
	assert.Equal(t, "Renamed", doc.Sheets[0].Name)

	_, visual := doc.FindVisual("visual-1")
	visual.Title = "Retitled"
	assert.Equal(t, "Retitled", doc.Sheets[0].Visuals[0].Title)
}

func TestLayoutFor(t *testing.T) {
	sheet := &fixtureDoc().Sheets[0]
	require.NotNil(t, sheet.LayoutFor("visual-1"))
	assert.Nil(t, sheet.LayoutFor("visual-2"))
}

func TestIsValidParamType(t *testing.T) {
	for _, valid := range []string{ParamString, ParamInteger, ParamDecimal, ParamDateTime} {
		assert.True(t, IsValidParamType(valid), valid)
	}
	assert.False(t, IsValidParamType("money"))
	assert.False(t, IsValidParamType(""))
}

func TestCanonicalAggregation(t *testing.T) {
	tests := map[string]string{
		"AVG":     AggAverage,
		"AVERAGE": AggAverage,
		"SUM":     AggSum,
		"MEDIAN":  "MEDIAN",
	}
	for in, want := range tests {
		assert.Equal(t, want, CanonicalAggregation(in))
	}
}

func TestIsValidVisualType(t *testing.T) {
	assert.True(t, IsValidVisualType(VisualKPI))
	assert.True(t, IsValidVisualType(VisualRaw))
	assert.False(t, IsValidVisualType("Sparkline"))
}
