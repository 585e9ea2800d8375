// End-to-end lifecycle over the HTTP wire: build out a document with
// sheets and charts, snapshot it, mutate it, diff against the snapshot,
// and roll it back from a backup.
package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/easel/internal/guard"
	"github.com/mesh-intelligence/easel/pkg/types"
)

func TestDocumentLifecycle(t *testing.T) {
	s := newStack(t, types.DefaultConfig())
	seedDocument(t, s, "sales-2026")
	ctx := context.Background()
	svc := s.service

	// Build: a new sheet with two charts.
	sheet, err := svc.AddSheet(ctx, "sales-2026", "Forecast")
	require.NoError(t, err)
	require.True(t, sheet.Verified)

	kpi, err := svc.AddKPI(ctx, "sales-2026", sheet.EntityID, "Projected Revenue", "revenue", "sum")
	require.NoError(t, err)
	line, err := svc.AddLineChart(ctx, "sales-2026", sheet.EntityID, "Trend", "month", "revenue", "sum", "")
	require.NoError(t, err)

	doc, _, err := s.client.Fetch(ctx, "sales-2026")
	require.NoError(t, err)
	require.Len(t, doc.Sheets, 2)
	forecast := doc.FindSheet(sheet.EntityID)
	require.Len(t, forecast.Visuals, 2)
	require.Len(t, forecast.Layout, 2)

	// Snapshot before further changes.
	snap, err := s.snapshot.Capture(ctx, "sales-2026")
	require.NoError(t, err)

	// Mutate: retitle a chart, drop the other, add a parameter.
	_, err = svc.SetVisualTitle(ctx, "sales-2026", kpi.EntityID, "Projected Revenue (net)", "")
	require.NoError(t, err)
	_, err = svc.DeleteVisual(ctx, "sales-2026", line.EntityID)
	require.NoError(t, err)
	_, err = svc.AddParameter(ctx, "sales-2026", "year", types.ParamInteger, 2026)
	require.NoError(t, err)

	// Diff shows exactly those changes, keyed by identity.
	diff, err := s.snapshot.DiffAgainstLive(ctx, snap.SnapshotID)
	require.NoError(t, err)
	require.True(t, diff.HasChanges())
	assert.Empty(t, diff.SheetsAdded)
	assert.Empty(t, diff.SheetsRemoved)
	require.Len(t, diff.VisualsRemoved, 1)
	assert.Equal(t, line.EntityID, diff.VisualsRemoved[0].VisualID)
	require.Len(t, diff.VisualChanges, 1)
	assert.Equal(t, kpi.EntityID, diff.VisualChanges[0].EntityID)
	assert.Equal(t, []string{"year"}, diff.ParametersAdded)

	// Roll back to the state the first mutation backed up.
	restored, err := svc.Restore(ctx, "sales-2026", sheet.BackupID)
	require.NoError(t, err)
	require.True(t, restored.Verified)

	doc, _, err = s.client.Fetch(ctx, "sales-2026")
	require.NoError(t, err)
	assert.Len(t, doc.Sheets, 1)
	assert.Nil(t, doc.FindParameter("year"))
	assert.NotNil(t, doc.FindParameter("region"))
}

func TestSnapshotIdempotence(t *testing.T) {
	s := newStack(t, types.DefaultConfig())
	seedDocument(t, s, "sales-2026")
	ctx := context.Background()

	snap, err := s.snapshot.Capture(ctx, "sales-2026")
	require.NoError(t, err)

	diff, err := s.snapshot.DiffAgainstLive(ctx, snap.SnapshotID)
	require.NoError(t, err)
	assert.False(t, diff.HasChanges())
}

func TestDestructiveGuardOverTheWire(t *testing.T) {
	s := newStack(t, types.DefaultConfig())
	seedDocument(t, s, "sales-2026")
	ctx := context.Background()

	// Deleting the only sheet empties the document; blocked.
	_, err := s.service.DeleteSheet(ctx, "sales-2026", "sheet-main")
	var dce *types.DestructiveChangeError
	require.ErrorAs(t, err, &dce)

	doc, _, err := s.client.Fetch(ctx, "sales-2026")
	require.NoError(t, err)
	assert.Len(t, doc.Sheets, 1)
}

func TestHealthReportOverTheWire(t *testing.T) {
	s := newStack(t, types.DefaultConfig())
	seedDocument(t, s, "sales-2026")
	ctx := context.Background()

	doc, _, err := s.client.Fetch(ctx, "sales-2026")
	require.NoError(t, err)
	report := guard.CheckHealth("sales-2026", doc, types.DefaultConfig())
	assert.True(t, report.Healthy)

	// Knock a layout element out and the scan flags it.
	doc.Sheets[0].Layout = doc.Sheets[0].Layout[:1]
	_, err = s.client.Replace(ctx, "sales-2026", doc, "")
	require.NoError(t, err)

	doc, _, err = s.client.Fetch(ctx, "sales-2026")
	require.NoError(t, err)
	report = guard.CheckHealth("sales-2026", doc, types.DefaultConfig())
	require.False(t, report.Healthy)
	require.Len(t, report.Issues, 1)
	assert.Equal(t, "missing_layout", report.Issues[0].Check)
}
