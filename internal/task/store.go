// Package task defines the Task Store contract and its Taskwarrior-backed
// implementation.
//
// The store is an external collaborator: taskflow reads tasks and issues
// mutation requests, but Taskwarrior owns the data. The memory store in
// this package exists for tests and for running without a Taskwarrior
// installation.
package task

import (
	"context"
	"time"

	"github.com/taskflow-ai/taskflow/internal/types"
)

// NewTask carries the fields of an add request.
type NewTask struct {
	Description string
	Project     string
	Priority    types.Priority
	Due         *time.Time
	Tags        []string
}

// Store is the Task Store operation contract.
type Store interface {
	// Add creates a task. Description must be non-empty.
	Add(ctx context.Context, t NewTask) (*types.Task, error)

	// Complete marks the referenced task done. Returns a *types.StoreError
	// wrapping types.ErrNotFound when the id does not resolve.
	Complete(ctx context.Context, taskID string) (*types.Task, error)

	// List returns tasks, optionally filtered by project and status.
	// Empty status means pending.
	List(ctx context.Context, project string, status types.Status) ([]*types.Task, error)

	// Search returns pending tasks whose description contains the query,
	// case-insensitively.
	Search(ctx context.Context, query string) ([]*types.Task, error)

	// GetByID resolves a display id or uuid to a task. Returns a
	// *types.StoreError wrapping types.ErrNotFound when absent.
	GetByID(ctx context.Context, id string) (*types.Task, error)

	// Projects lists the distinct project names in use.
	Projects(ctx context.Context) ([]string, error)

	// All returns every task regardless of status. Sync batches need the
	// full picture: pending tasks may need issues created, terminal ones
	// may need issues closed.
	All(ctx context.Context) ([]*types.Task, error)
}

// Snapshot assembles the interpreter's prompt context from a store.
// Failures degrade to an empty snapshot; interpretation must work even
// when the store is unreachable.
func Snapshot(ctx context.Context, store Store) types.ContextSnapshot {
	var snap types.ContextSnapshot

	tasks, err := store.List(ctx, "", types.StatusPending)
	if err != nil {
		return snap
	}
	snap.TaskCount = len(tasks)

	const maxPending = 5
	for _, t := range tasks {
		if len(snap.Pending) == maxPending {
			break
		}
		snap.Pending = append(snap.Pending, t.Description)
	}

	if projects, err := store.Projects(ctx); err == nil {
		snap.Projects = projects
	}
	return snap
}
