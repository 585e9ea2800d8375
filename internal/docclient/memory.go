// Package docclient provides DocumentClient implementations: an in-memory
// client with compare-and-swap replace semantics, and an HTTP client for a
// remote document service.
package docclient

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mesh-intelligence/easel/pkg/types"
)

// Memory is an in-memory DocumentClient. Replace is a true compare-and-swap
// under the client's lock, so the version guard gets atomic conditional
// writes. Used by tests, and by the local document service as its store.
//
// The fault-injection fields reproduce the remote service's observed
// failure modes so the safety layers can be tested against them.
type Memory struct {
	mu      sync.Mutex
	docs    map[string]*types.Document
	markers map[string]types.VersionMarker
	seq     int64

	// DropWrites makes Replace report success without persisting, the
	// silent-failure class the post-write verifier exists to catch.
	DropWrites bool

	// ReplaceErr, when set, is returned by every Replace call before any
	// state change.
	ReplaceErr error

	// FetchErr, when set, is returned by every Fetch call.
	FetchErr error
}

// NewMemory returns an empty in-memory client.
func NewMemory() *Memory {
	return &Memory{
		docs:    make(map[string]*types.Document),
		markers: make(map[string]types.VersionMarker),
	}
}

// Seed stores a document directly, bypassing version checks. Test setup and
// document-service bootstrap only.
func (m *Memory) Seed(documentID string, doc *types.Document) error {
	clone, err := doc.Clone()
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[documentID] = clone
	m.markers[documentID] = m.nextMarker()
	return nil
}

// Fetch returns a deep copy of the document and its current marker.
func (m *Memory) Fetch(ctx context.Context, documentID string) (*types.Document, types.VersionMarker, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	if m.FetchErr != nil {
		return nil, "", m.FetchErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.docs[documentID]
	if !ok {
		return nil, "", fmt.Errorf("document %q: %w", documentID, types.ErrNotFound)
	}
	clone, err := doc.Clone()
	if err != nil {
		return nil, "", err
	}
	return clone, m.markers[documentID], nil
}

// Replace overwrites the document. A non-empty marker makes the write
// conditional: a stale marker fails with *ConflictError and nothing
// changes.
func (m *Memory) Replace(ctx context.Context, documentID string, doc *types.Document, marker types.VersionMarker) (types.VersionMarker, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.ReplaceErr != nil {
		return "", m.ReplaceErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.markers[documentID]
	if !ok {
		return "", fmt.Errorf("document %q: %w", documentID, types.ErrNotFound)
	}
	if marker != "" && marker != current {
		return "", &types.ConflictError{
			DocumentID: documentID,
			Expected:   marker,
			Actual:     current,
		}
	}

	next := m.nextMarker()
	if m.DropWrites {
		// Accepted but not persisted. The marker still advances, as the
		// real service bumps LastUpdatedTime even for no-op writes.
		m.markers[documentID] = next
		return next, nil
	}

	clone, err := doc.Clone()
	if err != nil {
		return "", err
	}
	m.docs[documentID] = clone
	m.markers[documentID] = next
	return next, nil
}

// Marker returns the current marker for a document. Test helper.
func (m *Memory) Marker(documentID string) types.VersionMarker {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.markers[documentID]
}

// nextMarker generates a strictly increasing opaque marker. Callers hold
// m.mu.
func (m *Memory) nextMarker() types.VersionMarker {
	m.seq++
	return types.VersionMarker(fmt.Sprintf("%s-%06d",
		time.Now().UTC().Format(time.RFC3339Nano), m.seq))
}
