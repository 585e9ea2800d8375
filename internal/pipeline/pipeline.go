// Package pipeline orchestrates every mutation against the document
// service: fetch, transform a clone, screen for destructive changes, back
// up, commit with the version guard, then verify the committed state.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/mesh-intelligence/easel/internal/backup"
	"github.com/mesh-intelligence/easel/internal/guard"
	"github.com/mesh-intelligence/easel/pkg/types"
)

// Transform mutates a private clone of the document in place. It must not
// touch anything outside the clone; a returned error aborts the run before
// anything is written.
type Transform func(doc *types.Document) error

// Request describes one mutation run.
type Request struct {
	DocumentID string
	// Operation is the name used in logs, verification errors, and results,
	// for example "add-sheet".
	Operation string
	Transform Transform

	// Class tunes the destructive-change detector; zero value is
	// guard.ClassBulk semantics via normalization in Run.
	Class guard.ChangeClass

	// BypassDetector skips the destructive-change screen. Reserved for
	// restores, which are legitimately allowed to shrink a document.
	BypassDetector bool

	// Verify states what a fresh fetch must show after the commit. Nil
	// skips verification for this run even when verification is enabled.
	Verify *types.VerificationSpec

	// VerifyFrom derives the expectation from the captured and transformed
	// documents, for operations whose expected counts are only known once
	// the current state is seen. Ignored when Verify is set.
	VerifyFrom func(before, after *types.Document) *types.VerificationSpec

	// EntityKind and EntityID describe the entity the operation targets,
	// echoed on the result.
	EntityKind types.EntityKind
	EntityID   string
}

// Runner executes mutation requests with the configured safety layers.
type Runner struct {
	client   types.DocumentClient
	backups  *backup.Store
	detector *guard.Detector
	verifier *guard.Verifier
	cfg      types.Config
}

// NewRunner wires a runner from the client, blob store, and config.
func NewRunner(client types.DocumentClient, blobs types.BlobStore, cfg types.Config) *Runner {
	return &Runner{
		client:   client,
		backups:  backup.NewStore(blobs),
		detector: guard.NewDetector(cfg),
		verifier: guard.NewVerifier(client),
		cfg:      cfg,
	}
}

// Backups exposes the runner's backup store for restore and list commands.
func (r *Runner) Backups() *backup.Store { return r.backups }

// Client exposes the runner's document client for read-only commands.
func (r *Runner) Client() types.DocumentClient { return r.client }

// Run executes one mutation end to end and returns the operation result.
//
// The commit is conditional on the marker captured at fetch time when
// optimistic locking is on. Without locking there is an unavoidable window
// between fetch and commit in which another writer's change is silently
// overwritten; locking converts that window into a ConflictError.
func (r *Runner) Run(ctx context.Context, req Request) (*types.OperationResult, error) {
	if req.DocumentID == "" {
		return nil, fmt.Errorf("document ID %q: %w", req.DocumentID, types.ErrInvalidID)
	}
	if req.Transform == nil {
		return nil, errors.New("request has no transform")
	}
	if req.Class == "" {
		req.Class = guard.ClassBulk
	}

	before, marker, err := r.fetch(ctx, req.DocumentID)
	if err != nil {
		return nil, err
	}

	after, err := before.Clone()
	if err != nil {
		return nil, err
	}
	if err := req.Transform(after); err != nil {
		return nil, fmt.Errorf("%s on %s: %w", req.Operation, req.DocumentID, err)
	}

	if req.Verify == nil && req.VerifyFrom != nil {
		req.Verify = req.VerifyFrom(before, after)
	}

	if !req.BypassDetector {
		if err := r.detector.Evaluate(req.DocumentID, before, after, req.Class); err != nil {
			return nil, err
		}
	}

	result := &types.OperationResult{
		DocumentID: req.DocumentID,
		EntityKind: req.EntityKind,
		EntityID:   req.EntityID,
	}

	if r.cfg.BackupFirst {
		backupID, err := r.backups.Save(req.DocumentID, before)
		if err != nil {
			if r.cfg.BackupFailureFatal {
				return nil, fmt.Errorf("backup before %s: %w", req.Operation, err)
			}
			slog.Warn("proceeding without backup",
				"operation", req.Operation, "document_id", req.DocumentID, "error", err)
			result.Warnings = append(result.Warnings, fmt.Sprintf("backup failed: %v", err))
		} else {
			result.BackupID = backupID
		}
	}

	commitMarker := marker
	if !r.cfg.OptimisticLocking {
		commitMarker = ""
	}
	newMarker, err := r.commit(ctx, req.DocumentID, after, commitMarker)
	if err != nil {
		return nil, err
	}
	result.Marker = newMarker
	slog.Info("committed",
		"operation", req.Operation, "document_id", req.DocumentID,
		"entity_kind", string(req.EntityKind), "entity_id", req.EntityID)

	if r.cfg.VerifyWrites && req.Verify != nil {
		vctx, cancel := r.callContext(ctx)
		err := r.verifier.Verify(vctx, req.Operation, req.DocumentID, req.Verify)
		cancel()
		if err != nil {
			return nil, err
		}
		result.Verified = true
	}

	return result, nil
}

func (r *Runner) fetch(ctx context.Context, documentID string) (*types.Document, types.VersionMarker, error) {
	fctx, cancel := r.callContext(ctx)
	defer cancel()
	doc, marker, err := r.client.Fetch(fctx, documentID)
	if err != nil {
		return nil, "", fmt.Errorf("fetching %s: %w", documentID, err)
	}
	return doc, marker, nil
}

// commit replaces the document. A timeout while the call is in flight is
// wrapped as IndeterminateCommitError: the service may have applied the
// write before the deadline hit, so the failure must not be treated as a
// clean no-op.
func (r *Runner) commit(ctx context.Context, documentID string, doc *types.Document, marker types.VersionMarker) (types.VersionMarker, error) {
	cctx, cancel := r.callContext(ctx)
	defer cancel()
	newMarker, err := r.client.Replace(cctx, documentID, doc, marker)
	if err != nil {
		var conflict *types.ConflictError
		if errors.As(err, &conflict) {
			return "", err
		}
		if isTimeout(err) {
			return "", &types.IndeterminateCommitError{DocumentID: documentID, Cause: err}
		}
		return "", fmt.Errorf("committing to %s: %w", documentID, err)
	}
	return newMarker, nil
}

func (r *Runner) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, time.Duration(r.cfg.CallTimeoutSeconds)*time.Second)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
