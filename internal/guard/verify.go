package guard

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mesh-intelligence/easel/pkg/types"
)

// Verifier confirms, with a fresh fetch, that a committed write actually
// took effect. The service acknowledges writes it then silently drops, so
// a 200 on the replace call proves nothing by itself.
type Verifier struct {
	client types.DocumentClient
}

// NewVerifier builds a verifier reading through the given client.
func NewVerifier(client types.DocumentClient) *Verifier {
	return &Verifier{client: client}
}

// Verify fetches the document and checks it against the expectation. A mismatch
// returns a *types.VerificationError; a fetch failure is returned as-is.
func (v *Verifier) Verify(ctx context.Context, operation, documentID string, spec *types.VerificationSpec) error {
	doc, _, err := v.client.Fetch(ctx, documentID)
	if err != nil {
		return fmt.Errorf("re-fetching %s for verification: %w", documentID, err)
	}
	if err := Check(doc, spec); err != nil {
		slog.Warn("post-write verification failed",
			"operation", operation, "document_id", documentID, "detail", err.Error())
		return &types.VerificationError{
			Operation:  operation,
			DocumentID: documentID,
			Details:    err.Error(),
		}
	}
	slog.Debug("post-write verification passed",
		"operation", operation, "document_id", documentID, "mode", string(spec.Mode))
	return nil
}

// Check evaluates a verification spec against an already-fetched document.
// It returns nil on match and a plain error describing the mismatch
// otherwise.
func Check(doc *types.Document, spec *types.VerificationSpec) error {
	switch spec.Mode {
	case types.VerifyExists:
		return checkExists(doc, spec)
	case types.VerifyAbsent:
		return checkAbsent(doc, spec)
	case types.VerifyCount:
		return checkCount(doc, spec)
	default:
		return fmt.Errorf("unknown verification mode %q", spec.Mode)
	}
}

func checkExists(doc *types.Document, spec *types.VerificationSpec) error {
	name, found := lookup(doc, spec.Kind, spec.EntityID)
	if !found {
		return fmt.Errorf("%s %q not found after write", spec.Kind, spec.EntityID)
	}
	if spec.Name != "" && name != spec.Name {
		return fmt.Errorf("%s %q has name %q, expected %q", spec.Kind, spec.EntityID, name, spec.Name)
	}
	if spec.Expression != "" {
		f := doc.FindCalculatedField(spec.EntityID)
		if f == nil || f.Expression != spec.Expression {
			return fmt.Errorf("calculated field %q does not carry the written expression", spec.EntityID)
		}
	}
	return nil
}

func checkAbsent(doc *types.Document, spec *types.VerificationSpec) error {
	if _, found := lookup(doc, spec.Kind, spec.EntityID); found {
		return fmt.Errorf("%s %q still present after write", spec.Kind, spec.EntityID)
	}
	return nil
}

func checkCount(doc *types.Document, spec *types.VerificationSpec) error {
	var got int
	switch spec.Kind {
	case types.KindSheet:
		got = len(doc.Sheets)
	case types.KindVisual:
		if spec.SheetID != "" {
			sheet := doc.FindSheet(spec.SheetID)
			if sheet == nil {
				return fmt.Errorf("sheet %q not found for visual count", spec.SheetID)
			}
			got = len(sheet.Visuals)
		} else {
			got = doc.VisualCount()
		}
	case types.KindCalculatedField:
		got = len(doc.CalculatedFields)
	case types.KindParameter:
		got = len(doc.Parameters)
	case types.KindFilterGroup:
		got = len(doc.FilterGroups)
	default:
		return fmt.Errorf("unknown entity kind %q", spec.Kind)
	}
	if got != spec.Expected {
		scope := "document"
		if spec.SheetID != "" {
			scope = "sheet " + spec.SheetID
		}
		return fmt.Errorf("%s count in %s is %d, expected %d", spec.Kind, scope, got, spec.Expected)
	}
	return nil
}

// lookup resolves an entity by kind and ID, returning its display name
// (sheet name, visual title, or the entity's own name) and whether it was
// found.
func lookup(doc *types.Document, kind types.EntityKind, entityID string) (string, bool) {
	switch kind {
	case types.KindSheet:
		if s := doc.FindSheet(entityID); s != nil {
			return s.Name, true
		}
	case types.KindVisual:
		if _, v := doc.FindVisual(entityID); v != nil {
			return v.Title, true
		}
	case types.KindCalculatedField:
		if f := doc.FindCalculatedField(entityID); f != nil {
			return f.Name, true
		}
	case types.KindParameter:
		if p := doc.FindParameter(entityID); p != nil {
			return p.Name, true
		}
	case types.KindFilterGroup:
		if g := doc.FindFilterGroup(entityID); g != nil {
			return g.FilterGroupID, true
		}
	}
	return "", false
}
