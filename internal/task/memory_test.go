package task

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/taskflow-ai/taskflow/internal/types"
)

func TestMemoryAddAndGet(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	created, err := store.Add(ctx, NewTask{
		Description: "Fix login bug",
		Project:     "web",
		Priority:    types.PriorityHigh,
		Tags:        []string{"bug"},
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if created.UUID == "" {
		t.Error("created task has no uuid")
	}
	if created.Status != types.StatusPending {
		t.Errorf("Status = %s, want pending", created.Status)
	}

	byUUID, err := store.GetByID(ctx, created.UUID)
	if err != nil {
		t.Fatalf("GetByID(uuid): %v", err)
	}
	if byUUID != created {
		t.Error("GetByID(uuid) returned a different task")
	}

	byID, err := store.GetByID(ctx, strconv.Itoa(created.ID))
	if err != nil {
		t.Fatalf("GetByID(id): %v", err)
	}
	if byID != created {
		t.Error("GetByID(id) returned a different task")
	}
}

func TestMemoryAddRejectsEmptyDescription(t *testing.T) {
	store := NewMemory()

	_, err := store.Add(context.Background(), NewTask{Description: "   "})
	var ve *types.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Add(empty) error = %v, want ValidationError", err)
	}
}

func TestMemoryCompleteNotFound(t *testing.T) {
	store := NewMemory()

	_, err := store.Complete(context.Background(), "nope")
	if !errors.Is(err, types.ErrNotFound) {
		t.Fatalf("Complete(missing) error = %v, want ErrNotFound", err)
	}
}

func TestMemoryListFilters(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	store.Seed(&types.Task{Description: "a", Project: "web"})
	store.Seed(&types.Task{Description: "b", Project: "infra"})
	store.Seed(&types.Task{Description: "c", Project: "web", Status: types.StatusCompleted})

	pending, err := store.List(ctx, "web", types.StatusPending)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 || pending[0].Description != "a" {
		t.Errorf("List(web, pending) = %v", pending)
	}

	completed, err := store.List(ctx, "", types.StatusCompleted)
	if err != nil {
		t.Fatal(err)
	}
	if len(completed) != 1 {
		t.Errorf("List(completed) returned %d tasks, want 1", len(completed))
	}

	all, err := store.All(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Errorf("All() returned %d tasks, want 3", len(all))
	}
}

func TestMemorySearch(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	store.Seed(&types.Task{Description: "Revisar el código"})
	store.Seed(&types.Task{Description: "Escribir documentación"})
	store.Seed(&types.Task{Description: "revisar despliegue", Status: types.StatusCompleted})

	got, err := store.Search(ctx, "revisar")
	if err != nil {
		t.Fatal(err)
	}
	// Completed tasks are out of scope for search.
	if len(got) != 1 || got[0].Description != "Revisar el código" {
		t.Errorf("Search(revisar) = %v", got)
	}
}

func TestMemoryProjects(t *testing.T) {
	store := NewMemory()
	store.Seed(&types.Task{Description: "a", Project: "web"})
	store.Seed(&types.Task{Description: "b", Project: "infra"})
	store.Seed(&types.Task{Description: "c", Project: "web"})
	store.Seed(&types.Task{Description: "d"})

	projects, err := store.Projects(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(projects) != 2 || projects[0] != "infra" || projects[1] != "web" {
		t.Errorf("Projects() = %v, want [infra web]", projects)
	}
}

func TestSnapshot(t *testing.T) {
	store := NewMemory()
	for i := 0; i < 7; i++ {
		store.Seed(&types.Task{Description: "t" + strconv.Itoa(i), Project: "web"})
	}

	snap := Snapshot(context.Background(), store)
	if snap.TaskCount != 7 {
		t.Errorf("TaskCount = %d, want 7", snap.TaskCount)
	}
	if len(snap.Pending) != 5 {
		t.Errorf("Pending capped at %d, want 5", len(snap.Pending))
	}
	if len(snap.Projects) != 1 || snap.Projects[0] != "web" {
		t.Errorf("Projects = %v", snap.Projects)
	}
}
