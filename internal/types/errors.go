package types

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that a referenced task or issue does not exist.
var ErrNotFound = errors.New("not found")

// ProviderError wraps a text-generation backend failure: transport, auth,
// or timeout. Malformed model output is never a ProviderError; tolerating
// that is the interpreter's job.
type ProviderError struct {
	Provider  string
	Err       error
	Transient bool // retryable: timeout, 429, 5xx
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// ValidationError reports a StructuredAction missing a field its handler
// requires. Never retried.
type ValidationError struct {
	Kind  ActionKind
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("invalid %s action: %s", e.Kind, e.Msg)
	}
	return fmt.Sprintf("invalid %s action: missing required field %q", e.Kind, e.Field)
}

// PersistenceError reports a mapping-store write failure. Fatal for the
// single sync operation that hit it; other entries are unaffected.
type PersistenceError struct {
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persisting mapping %s: %v", e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// TrackerError reports that the issue tracker rejected a call. Counted as
// a batch error during syncAll, never fatal to the batch.
type TrackerError struct {
	Op  string // "create", "close", "update"
	Err error
}

func (e *TrackerError) Error() string {
	return fmt.Sprintf("tracker %s: %v", e.Op, e.Err)
}

func (e *TrackerError) Unwrap() error { return e.Err }

// StoreError reports a Task Store failure, preserving the underlying
// taskwarrior exit status or parse failure.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("task store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
