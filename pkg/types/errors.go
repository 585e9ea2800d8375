package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for simple conditions. Structured failures that carry
// entity identity and counts have dedicated types below.
var (
	ErrNotFound        = errors.New("not found")
	ErrAlreadyExists   = errors.New("already exists")
	ErrInvalidID       = errors.New("invalid ID")
	ErrStoreDetached   = errors.New("blob store is detached")
	ErrAlreadyAttached = errors.New("blob store is already attached")
	ErrBucketUnknown   = errors.New("unknown bucket")
)

// ConflictError reports a stale version marker: the document was modified
// by another writer between capture and commit. The caller recovers by
// re-fetching and retrying the whole operation; the pipeline never retries.
type ConflictError struct {
	DocumentID string
	Expected   VersionMarker
	Actual     VersionMarker
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf(
		"document %s was modified by another session (expected marker %q, actual %q): fetch the latest version and retry",
		e.DocumentID, e.Expected, e.Actual)
}

// DestructiveChangeError reports a write blocked by the destructive-change
// detector. Reason and the before/after counts are surfaced verbatim.
type DestructiveChangeError struct {
	DocumentID string
	Reason     string
	Before     Counts
	After      Counts
}

func (e *DestructiveChangeError) Error() string {
	return fmt.Sprintf(
		"blocked destructive update to %s: %s (before: %s; after: %s)",
		e.DocumentID, e.Reason, e.Before, e.After)
}

// VerificationError reports a commit that the remote service accepted but
// whose expected effect a fresh post-write fetch does not show. It is never
// retried automatically: a second write could compound an unknown partial
// state.
type VerificationError struct {
	Operation  string
	DocumentID string
	Details    string
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf(
		"verification failed for %s on %s: %s (the write call succeeded but the change is not reflected)",
		e.Operation, e.DocumentID, e.Details)
}

// IndeterminateCommitError reports a timeout while the commit call was in
// flight. The write may or may not have applied; the caller must inspect
// the document before deciding anything.
type IndeterminateCommitError struct {
	DocumentID string
	Cause      error
}

func (e *IndeterminateCommitError) Error() string {
	return fmt.Sprintf(
		"commit to %s is indeterminate: %v (the write may or may not have applied; verify manually before retrying)",
		e.DocumentID, e.Cause)
}

func (e *IndeterminateCommitError) Unwrap() error { return e.Cause }
