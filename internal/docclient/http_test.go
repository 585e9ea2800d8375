package docclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/easel/pkg/types"
)

// fakeService implements the document service wire contract with
// scriptable responses.
type fakeService struct {
	t       *testing.T
	doc     *types.Document
	marker  string
	status  int           // forced status for PUT, 0 for normal behavior
	gotBody *types.Document
	gotETag string
	delay   time.Duration
}

func (f *fakeService) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /documents/{id}", func(w http.ResponseWriter, r *http.Request) {
		if f.delay > 0 {
			time.Sleep(f.delay)
		}
		if r.PathValue("id") != "doc-1" {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "document not found"})
			return
		}
		w.Header().Set("ETag", f.marker)
		_ = json.NewEncoder(w).Encode(f.doc)
	})
	mux.HandleFunc("PUT /documents/{id}", func(w http.ResponseWriter, r *http.Request) {
		if f.delay > 0 {
			time.Sleep(f.delay)
		}
		f.gotETag = r.Header.Get("If-Match")
		var doc types.Document
		require.NoError(f.t, json.NewDecoder(r.Body).Decode(&doc))
		f.gotBody = &doc

		if f.status != 0 {
			if f.status == http.StatusConflict {
				w.Header().Set("ETag", f.marker)
			}
			w.WriteHeader(f.status)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "scripted failure"})
			return
		}
		w.Header().Set("ETag", f.marker+"-next")
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

func newFake(t *testing.T) (*fakeService, *HTTP) {
	t.Helper()
	f := &fakeService{t: t, doc: memDoc(), marker: "marker-1"}
	ts := httptest.NewServer(f.handler())
	t.Cleanup(ts.Close)
	return f, NewHTTP(ts.URL)
}

func TestHTTPFetch(t *testing.T) {
	_, client := newFake(t)

	doc, marker, err := client.Fetch(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.Equal(t, types.VersionMarker("marker-1"), marker)
	assert.Equal(t, "sheet-1", doc.Sheets[0].SheetID)
}

func TestHTTPFetchNotFound(t *testing.T) {
	_, client := newFake(t)
	_, _, err := client.Fetch(context.Background(), "nope")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestHTTPReplaceSendsIfMatch(t *testing.T) {
	f, client := newFake(t)

	changed := memDoc()
	changed.Sheets[0].Name = "Renamed"
	newMarker, err := client.Replace(context.Background(), "doc-1", changed, "marker-1")
	require.NoError(t, err)
	assert.Equal(t, types.VersionMarker("marker-1-next"), newMarker)
	assert.Equal(t, "marker-1", f.gotETag)
	require.NotNil(t, f.gotBody)
	assert.Equal(t, "Renamed", f.gotBody.Sheets[0].Name)
}

func TestHTTPReplaceUnconditionalOmitsIfMatch(t *testing.T) {
	f, client := newFake(t)
	_, err := client.Replace(context.Background(), "doc-1", memDoc(), "")
	require.NoError(t, err)
	assert.Empty(t, f.gotETag)
}

func TestHTTPReplaceConflict(t *testing.T) {
	f, client := newFake(t)
	f.status = http.StatusConflict
	f.marker = "marker-current"

	_, err := client.Replace(context.Background(), "doc-1", memDoc(), "marker-stale")
	var conflict *types.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, types.VersionMarker("marker-stale"), conflict.Expected)
	assert.Equal(t, types.VersionMarker("marker-current"), conflict.Actual)
}

func TestHTTPReplaceServerError(t *testing.T) {
	f, client := newFake(t)
	f.status = http.StatusInternalServerError

	_, err := client.Replace(context.Background(), "doc-1", memDoc(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scripted failure")
}

func TestHTTPTimeoutSurfacesDeadline(t *testing.T) {
	f, client := newFake(t)
	f.delay = 200 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := client.Replace(ctx, "doc-1", memDoc(), "marker-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
