package ops

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/easel/internal/docclient"
	"github.com/mesh-intelligence/easel/internal/pipeline"
	"github.com/mesh-intelligence/easel/internal/sqlite"
	"github.com/mesh-intelligence/easel/pkg/types"
)

func opsDoc() *types.Document {
	return &types.Document{
		Sheets: []types.Sheet{
			{
				SheetID: "sheet-main",
				Name:    "Main",
				Visuals: []types.Visual{
					{VisualID: "visual-rev", Type: types.VisualKPI, Title: "Revenue"},
					{VisualID: "visual-reg", Type: types.VisualBarChart, Title: "By Region"},
				},
				Layout: []types.LayoutElement{
					{VisualID: "visual-rev", ColumnSpan: 18, RowSpan: 12},
					{VisualID: "visual-reg", RowIndex: 12, ColumnSpan: 18, RowSpan: 12},
				},
			},
			{SheetID: "sheet-empty", Name: "Scratch"},
		},
		CalculatedFields: []types.CalculatedField{
			{Name: "margin", Expression: "{rev} - {cost}"},
		},
		Parameters: []types.Parameter{
			{Name: "region", Type: types.ParamString, Default: "EMEA"},
		},
		FilterGroups: []types.FilterGroup{
			{
				FilterGroupID: "fg-main-only",
				Scope:         types.FilterScope{SheetIDs: []string{"sheet-main"}},
				Filters:       []types.FilterCondition{{Column: "region", Operator: "equals", Values: []string{"EMEA"}}},
			},
			{
				FilterGroupID: "fg-everywhere",
				Scope:         types.FilterScope{AllSheets: true},
				Filters:       []types.FilterCondition{{Column: "year", Operator: "equals", Values: []string{"2026"}}},
			},
		},
	}
}

func newTestService(t *testing.T, cfg types.Config) (*Service, *docclient.Memory) {
	t.Helper()
	cfg.DataDir = t.TempDir()
	backend := sqlite.NewBackend()
	require.NoError(t, backend.Attach(cfg))
	t.Cleanup(func() { _ = backend.Detach() })

	client := docclient.NewMemory()
	require.NoError(t, client.Seed("doc-1", opsDoc()))
	return NewService(pipeline.NewRunner(client, backend, cfg), cfg), client
}

func fetchDoc(t *testing.T, client *docclient.Memory) *types.Document {
	t.Helper()
	doc, _, err := client.Fetch(context.Background(), "doc-1")
	require.NoError(t, err)
	return doc
}
