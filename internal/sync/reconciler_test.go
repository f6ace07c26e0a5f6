package sync

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	stdsync "sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskflow-ai/taskflow/internal/github"
	"github.com/taskflow-ai/taskflow/internal/types"
)

// fakeTracker records create/close calls and can be told to fail
// specific titles.
type fakeTracker struct {
	mu         stdsync.Mutex
	nextNumber int
	creates    []string // titles, in call order
	closes     []int    // issue numbers, in call order
	comments   []string
	failTitles map[string]bool
}

func newFakeTracker() *fakeTracker {
	return &fakeTracker{nextNumber: 100, failTitles: make(map[string]bool)}
}

func (f *fakeTracker) CreateIssue(_ context.Context, title, body string, labels []string) (*github.Issue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failTitles[title] {
		return nil, &types.TrackerError{Op: "create", Err: errors.New("rejected")}
	}
	f.nextNumber++
	f.creates = append(f.creates, title)
	return &github.Issue{Number: f.nextNumber, Title: title, Body: body, State: "open"}, nil
}

func (f *fakeTracker) CloseIssue(_ context.Context, number int, comment string) (*github.Issue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closes = append(f.closes, number)
	f.comments = append(f.comments, comment)
	return &github.Issue{Number: number, State: "closed"}, nil
}

func (f *fakeTracker) createCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.creates)
}

func (f *fakeTracker) closeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.closes)
}

func newTestReconciler(t *testing.T) (*Reconciler, *fakeTracker, *MappingStore) {
	t.Helper()
	ms, err := NewMappingStore(filepath.Join(t.TempDir(), "mapping.json"))
	require.NoError(t, err)
	tracker := newFakeTracker()
	return NewReconciler(ms, tracker, nil), tracker, ms
}

func TestReconcileCreatesAndPersists(t *testing.T) {
	r, tracker, ms := newTestReconciler(t)
	task := &types.Task{UUID: "t2", Description: "New feature", Status: types.StatusPending}

	outcome, err := r.Reconcile(context.Background(), task)
	require.NoError(t, err)
	assert.Equal(t, SyncedOpen, outcome.State)
	assert.True(t, outcome.Created)
	assert.Equal(t, 1, tracker.createCount())

	// The mapping must already be on disk when Reconcile returns.
	data, err := os.ReadFile(ms.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "t2")

	entry, ok := ms.Get("t2")
	require.True(t, ok)
	assert.Equal(t, outcome.Issue, entry.Issue)
}

func TestReconcileCreateReportsPersistenceFailure(t *testing.T) {
	r, tracker, ms := newTestReconciler(t)

	// Point the store at a path whose parent is a regular file so the
	// post-create save fails.
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))
	ms.filePath = filepath.Join(blocker, "mapping.json")

	task := &types.Task{UUID: "t3", Description: "New feature", Status: types.StatusPending}
	outcome, err := r.Reconcile(context.Background(), task)

	require.Error(t, err)
	var pe *types.PersistenceError
	assert.True(t, errors.As(err, &pe), "want PersistenceError, got %v", err)
	assert.Contains(t, err.Error(), "not persisted")
	assert.Equal(t, Unsynced, outcome.State)

	// The issue was created exactly once before the write failed.
	assert.Equal(t, 1, tracker.createCount())
}

func TestReconcileClosesTerminalTaskOnce(t *testing.T) {
	r, tracker, ms := newTestReconciler(t)
	require.NoError(t, ms.Put("t1", 42))
	task := &types.Task{UUID: "t1", Description: "Fix bug", Status: types.StatusCompleted}

	outcome, err := r.Reconcile(context.Background(), task)
	require.NoError(t, err)
	assert.Equal(t, SyncedClosed, outcome.State)
	assert.True(t, outcome.Closed)
	require.Equal(t, 1, tracker.closeCount())
	assert.Equal(t, 42, tracker.closes[0])
	assert.Contains(t, tracker.comments[0], "completada")

	// A second reconcile with unchanged input performs no tracker call.
	outcome, err = r.Reconcile(context.Background(), task)
	require.NoError(t, err)
	assert.Equal(t, SyncedClosed, outcome.State)
	assert.False(t, outcome.Closed)
	assert.Equal(t, 1, tracker.closeCount())
}

func TestReconcileDeletedComment(t *testing.T) {
	r, tracker, ms := newTestReconciler(t)
	require.NoError(t, ms.Put("t1", 9))
	task := &types.Task{UUID: "t1", Description: "Old", Status: types.StatusDeleted}

	_, err := r.Reconcile(context.Background(), task)
	require.NoError(t, err)
	require.Equal(t, 1, tracker.closeCount())
	assert.Contains(t, tracker.comments[0], "eliminada")
}

func TestReconcileOpenMappedTaskIsNoop(t *testing.T) {
	r, tracker, ms := newTestReconciler(t)
	require.NoError(t, ms.Put("t1", 5))
	task := &types.Task{UUID: "t1", Description: "Ongoing", Status: types.StatusPending}

	outcome, err := r.Reconcile(context.Background(), task)
	require.NoError(t, err)
	assert.Equal(t, SyncedOpen, outcome.State)
	assert.False(t, outcome.Created)
	assert.False(t, outcome.Closed)
	assert.Zero(t, tracker.createCount())
	assert.Zero(t, tracker.closeCount())
}

// A SyncedClosed task whose status reverts to pending triggers no tracker
// call. The no-reopen policy is terminal.
func TestSyncedClosedIsTerminal(t *testing.T) {
	r, tracker, ms := newTestReconciler(t)
	require.NoError(t, ms.Put("t1", 42))
	require.NoError(t, ms.MarkClosed("t1"))

	reverted := &types.Task{UUID: "t1", Description: "Fix bug", Status: types.StatusPending}
	outcome, err := r.Reconcile(context.Background(), reverted)
	require.NoError(t, err)
	assert.Equal(t, SyncedClosed, outcome.State)
	assert.Zero(t, tracker.createCount())
	assert.Zero(t, tracker.closeCount())
}

func TestSyncAllIdempotent(t *testing.T) {
	r, tracker, _ := newTestReconciler(t)
	tasks := []*types.Task{
		{UUID: "a", Description: "one", Status: types.StatusPending},
		{UUID: "b", Description: "two", Status: types.StatusPending, Project: "web"},
		{UUID: "c", Description: "three", Status: types.StatusCompleted},
	}

	// c has terminal status and was never mirrored, so it is skipped.
	first := r.SyncAll(context.Background(), tasks)
	assert.Equal(t, 2, first.Created)
	assert.Zero(t, first.Closed)
	assert.Zero(t, first.Errors)

	// The second run with no task changes is a fixed point.
	second := r.SyncAll(context.Background(), tasks)
	assert.Zero(t, second.Created)
	assert.Zero(t, second.Closed)
	assert.Zero(t, second.Errors)
	assert.Equal(t, 2, tracker.createCount())
	assert.Zero(t, tracker.closeCount())
}

func TestSyncAllBatchIsolation(t *testing.T) {
	r, tracker, ms := newTestReconciler(t)
	tracker.failTitles["Task A"] = true
	tasks := []*types.Task{
		{UUID: "a", Description: "Task A", Status: types.StatusPending},
		{UUID: "b", Description: "Task B", Status: types.StatusPending},
	}

	result := r.SyncAll(context.Background(), tasks)
	assert.Equal(t, 1, result.Errors)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, []string{"a"}, result.Failed)

	// B's mapping is persisted regardless of A's failure.
	_, ok := ms.Get("b")
	assert.True(t, ok)
	_, ok = ms.Get("a")
	assert.False(t, ok)
}

func TestStatusReport(t *testing.T) {
	r, _, ms := newTestReconciler(t)
	require.NoError(t, ms.Put("a", 1))
	tasks := []*types.Task{
		{UUID: "a", Description: "one", Status: types.StatusPending},
		{UUID: "b", Description: "two", Status: types.StatusPending},
	}

	report := r.Status(tasks)
	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 1, report.Synced)
	assert.InDelta(t, 50.0, report.Percent, 0.001)
	assert.Equal(t, ms.Path(), report.MappingPath)
}
