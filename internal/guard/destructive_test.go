package guard

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/easel/pkg/types"
)

// buildDoc makes a document with the given number of sheets, visuals per
// sheet, and calculated fields. Every visual gets a layout element.
func buildDoc(sheets, visualsPerSheet, calcFields int) *types.Document {
	doc := &types.Document{}
	for i := 0; i < sheets; i++ {
		s := types.Sheet{
			SheetID: fmt.Sprintf("sheet-%d", i),
			Name:    fmt.Sprintf("Sheet %d", i),
		}
		for j := 0; j < visualsPerSheet; j++ {
			id := fmt.Sprintf("visual-%d-%d", i, j)
			s.Visuals = append(s.Visuals, types.Visual{VisualID: id, Type: types.VisualTable})
			s.Layout = append(s.Layout, types.LayoutElement{VisualID: id, ColumnSpan: 12, RowSpan: 8})
		}
		doc.Sheets = append(doc.Sheets, s)
	}
	for i := 0; i < calcFields; i++ {
		doc.CalculatedFields = append(doc.CalculatedFields, types.CalculatedField{
			Name:       fmt.Sprintf("field-%d", i),
			Expression: "sum({amount})",
		})
	}
	return doc
}

func TestDetectorEvaluate(t *testing.T) {
	tests := []struct {
		name       string
		before     *types.Document
		after      *types.Document
		class      ChangeClass
		wantBlock  bool
		wantReason string
	}{
		{
			name:   "no change allowed",
			before: buildDoc(2, 3, 4),
			after:  buildDoc(2, 3, 4),
			class:  ClassBulk,
		},
		{
			name:   "growth allowed",
			before: buildDoc(1, 1, 0),
			after:  buildDoc(2, 3, 2),
			class:  ClassBulk,
		},
		{
			name:       "emptying all sheets blocked",
			before:     buildDoc(3, 1, 0),
			after:      buildDoc(0, 0, 0),
			class:      ClassBulk,
			wantBlock:  true,
			wantReason: "would delete all 3 sheets",
		},
		{
			name:       "emptying all sheets blocked even for single delete",
			before:     buildDoc(1, 0, 0),
			after:      buildDoc(0, 0, 0),
			class:      ClassSingleDelete,
			wantBlock:  true,
			wantReason: "would delete all 1 sheets",
		},
		{
			name:   "from empty to empty allowed",
			before: buildDoc(0, 0, 0),
			after:  buildDoc(0, 0, 0),
			class:  ClassBulk,
		},
		{
			name:       "visual loss over threshold blocked",
			before:     buildDoc(2, 5, 0), // 10 visuals
			after:      buildDoc(2, 2, 0), // 4 visuals, 60% loss
			class:      ClassBulk,
			wantBlock:  true,
			wantReason: "60% of visuals",
		},
		{
			name:   "visual loss at threshold allowed",
			before: buildDoc(2, 2, 0), // 4 visuals
			after:  buildDoc(2, 1, 0), // 2 visuals, exactly 50%
			class:  ClassBulk,
		},
		{
			name:       "calc field loss over threshold blocked",
			before:     buildDoc(1, 1, 5),
			after:      buildDoc(1, 1, 1),
			class:      ClassBulk,
			wantBlock:  true,
			wantReason: "80% of calculated fields",
		},
		{
			name:   "single delete exempt from bulk heuristic",
			before: buildDoc(1, 1, 1),
			after:  buildDoc(1, 1, 0), // 100% calc field loss, but one entity
			class:  ClassSingleDelete,
		},
		{
			name:   "single visual delete of only visual allowed",
			before: buildDoc(1, 1, 0),
			after:  buildDoc(1, 0, 0),
			class:  ClassSingleDelete,
		},
	}

	det := NewDetector(types.DefaultConfig())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := det.Evaluate("doc-1", tt.before, tt.after, tt.class)
			if !tt.wantBlock {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var dce *types.DestructiveChangeError
			require.ErrorAs(t, err, &dce)
			assert.Equal(t, "doc-1", dce.DocumentID)
			assert.Contains(t, dce.Reason, tt.wantReason)
			assert.Equal(t, tt.before.Counts(), dce.Before)
			assert.Equal(t, tt.after.Counts(), dce.After)
		})
	}
}

func TestDetectorCustomThresholds(t *testing.T) {
	cfg := types.DefaultConfig()
	cfg.VisualLossThreshold = 0.9
	det := NewDetector(cfg)

	// 80% loss, under the custom 90% threshold.
	err := det.Evaluate("doc-1", buildDoc(1, 5, 0), buildDoc(1, 1, 0), ClassBulk)
	assert.NoError(t, err)

	cfg.VisualLossThreshold = 0.1
	det = NewDetector(cfg)
	err = det.Evaluate("doc-1", buildDoc(1, 5, 0), buildDoc(1, 4, 0), ClassBulk)
	var dce *types.DestructiveChangeError
	assert.ErrorAs(t, err, &dce)
}

func TestDetectorReportsAllIssues(t *testing.T) {
	det := NewDetector(types.DefaultConfig())
	err := det.Evaluate("doc-1", buildDoc(2, 5, 4), buildDoc(0, 0, 0), ClassBulk)
	require.Error(t, err)
	var dce *types.DestructiveChangeError
	require.True(t, errors.As(err, &dce))
	assert.Contains(t, dce.Reason, "all 2 sheets")
	assert.Contains(t, dce.Reason, "visuals")
	assert.Contains(t, dce.Reason, "calculated fields")
}
