// Shared fixtures for the integration suite: a local document service
// behind an httptest server, the HTTP client against it, and the full
// operation stack over a temp-dir sqlite store.
package integration

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/easel/internal/docclient"
	"github.com/mesh-intelligence/easel/internal/docserve"
	"github.com/mesh-intelligence/easel/internal/ops"
	"github.com/mesh-intelligence/easel/internal/pipeline"
	"github.com/mesh-intelligence/easel/internal/snapshot"
	"github.com/mesh-intelligence/easel/internal/sqlite"
	"github.com/mesh-intelligence/easel/pkg/types"
)

// stack is everything a lifecycle test needs wired together.
type stack struct {
	server   *docserve.Server
	client   *docclient.HTTP
	backend  *sqlite.Backend
	service  *ops.Service
	snapshot *snapshot.Engine
}

func newStack(t *testing.T, cfg types.Config) *stack {
	t.Helper()
	cfg.DataDir = t.TempDir()

	server := docserve.New()
	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)

	backend := sqlite.NewBackend()
	require.NoError(t, backend.Attach(cfg))
	t.Cleanup(func() { _ = backend.Detach() })

	client := docclient.NewHTTP(ts.URL)
	runner := pipeline.NewRunner(client, backend, cfg)
	return &stack{
		server:   server,
		client:   client,
		backend:  backend,
		service:  ops.NewService(runner, cfg),
		snapshot: snapshot.NewEngine(client, backend),
	}
}

func seedDocument(t *testing.T, s *stack, documentID string) {
	t.Helper()
	require.NoError(t, s.server.Store().Seed(documentID, &types.Document{
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
		},
		CalculatedFields: []types.CalculatedField{
			{Name: "margin", Expression: "{revenue} - {cost}"},
		},
		Parameters: []types.Parameter{
			{Name: "region", Type: types.ParamString, Default: "EMEA"},
		},
	}))
}
