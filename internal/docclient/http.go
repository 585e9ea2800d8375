package docclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/mesh-intelligence/easel/pkg/types"
)

// HTTP is a DocumentClient speaking the document service's REST contract:
// GET /documents/:id returns the document body with the version marker in
// the ETag header; PUT /documents/:id with If-Match performs a conditional
// replace, answering 409 on a stale marker.
type HTTP struct {
	baseURL string
	client  *http.Client
}

// NewHTTP returns a client for the document service at baseURL. Timeouts
// come from the per-call context; the underlying http.Client sets none of
// its own.
func NewHTTP(baseURL string) *HTTP {
	return &HTTP{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
	}
}

// Fetch returns the current document and its version marker.
func (h *HTTP) Fetch(ctx context.Context, documentID string) (*types.Document, types.VersionMarker, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.documentURL(documentID), nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetching document %s: %w", documentID, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, "", fmt.Errorf("document %q: %w", documentID, types.ErrNotFound)
	default:
		return nil, "", fmt.Errorf("fetching document %s: %s", documentID, readError(resp))
	}

	var doc types.Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, "", fmt.Errorf("decoding document %s: %w", documentID, err)
	}
	return &doc, types.VersionMarker(resp.Header.Get("ETag")), nil
}

// Replace overwrites the document. A non-empty marker travels as If-Match;
// the service answers 409 with its current marker when the write is stale.
func (h *HTTP) Replace(ctx context.Context, documentID string, doc *types.Document, marker types.VersionMarker) (types.VersionMarker, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encoding document %s: %w", documentID, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, h.documentURL(documentID), bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if marker != "" {
		req.Header.Set("If-Match", string(marker))
	}

	resp, err := h.client.Do(req)
	if err != nil {
		// Transport failure mid-PUT: the caller cannot know whether the
		// write applied. The pipeline maps timeouts to IndeterminateCommit.
		return "", fmt.Errorf("replacing document %s: %w", documentID, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return types.VersionMarker(resp.Header.Get("ETag")), nil
	case http.StatusNotFound:
		return "", fmt.Errorf("document %q: %w", documentID, types.ErrNotFound)
	case http.StatusConflict:
		return "", &types.ConflictError{
			DocumentID: documentID,
			Expected:   marker,
			Actual:     types.VersionMarker(resp.Header.Get("ETag")),
		}
	default:
		return "", fmt.Errorf("replacing document %s: %s", documentID, readError(resp))
	}
}

func (h *HTTP) documentURL(documentID string) string {
	return h.baseURL + "/documents/" + documentID
}

// readError extracts a short error description from a non-2xx response.
func readError(resp *http.Response) string {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return fmt.Sprintf("%s: %s", resp.Status, payload.Error)
	}
	return resp.Status
}
