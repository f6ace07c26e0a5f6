package task

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/taskflow-ai/taskflow/internal/types"
)

// Memory is an in-process Store. It backs tests and lets the interpreter
// and reconciler run without a Taskwarrior installation.
type Memory struct {
	mu     sync.RWMutex
	tasks  []*types.Task
	nextID int
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{nextID: 1}
}

// Seed inserts a task as-is, generating a uuid when absent. Test helper.
func (m *Memory) Seed(t *types.Task) *types.Task {
	m.mu.Lock()
	defer m.mu.Unlock()

	if t.UUID == "" {
		t.UUID = uuid.NewString()
	}
	if t.ID == 0 {
		t.ID = m.nextID
	}
	m.nextID++
	if t.Status == "" {
		t.Status = types.StatusPending
	}
	m.tasks = append(m.tasks, t)
	return t
}

// Add implements Store.
func (m *Memory) Add(_ context.Context, t NewTask) (*types.Task, error) {
	if strings.TrimSpace(t.Description) == "" {
		return nil, &types.ValidationError{Kind: types.ActionCreateTask, Field: "description"}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	created := &types.Task{
		UUID:        uuid.NewString(),
		ID:          m.nextID,
		Description: t.Description,
		Project:     t.Project,
		Priority:    t.Priority,
		Due:         t.Due,
		Tags:        t.Tags,
		Status:      types.StatusPending,
	}
	m.nextID++
	m.tasks = append(m.tasks, created)
	return created, nil
}

// Complete implements Store.
func (m *Memory) Complete(_ context.Context, taskID string) (*types.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if t := findByID(m.tasks, taskID); t != nil {
		t.Status = types.StatusCompleted
		return t, nil
	}
	return nil, &types.StoreError{Op: "complete", Err: fmt.Errorf("task %q: %w", taskID, types.ErrNotFound)}
}

// List implements Store.
func (m *Memory) List(_ context.Context, project string, status types.Status) ([]*types.Task, error) {
	if status == "" {
		status = types.StatusPending
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*types.Task
	for _, t := range m.tasks {
		if t.Status != status {
			continue
		}
		if project != "" && t.Project != project {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// Search implements Store.
func (m *Memory) Search(ctx context.Context, query string) ([]*types.Task, error) {
	pending, err := m.List(ctx, "", types.StatusPending)
	if err != nil {
		return nil, err
	}
	return filterByDescription(pending, query), nil
}

// GetByID implements Store.
func (m *Memory) GetByID(_ context.Context, id string) (*types.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if t := findByID(m.tasks, id); t != nil {
		return t, nil
	}
	return nil, &types.StoreError{Op: "get", Err: fmt.Errorf("task %q: %w", id, types.ErrNotFound)}
}

// Projects implements Store.
func (m *Memory) Projects(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return distinctProjects(m.tasks), nil
}

// All returns every task regardless of status, for sync batches.
func (m *Memory) All(_ context.Context) ([]*types.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*types.Task, len(m.tasks))
	copy(out, m.tasks)
	return out, nil
}
