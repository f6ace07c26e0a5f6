package kanban

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/taskflow-ai/taskflow/internal/task"
	"github.com/taskflow-ai/taskflow/internal/types"
)

func seedStore() *task.Memory {
	store := task.NewMemory()
	store.Seed(&types.Task{UUID: "u1", Description: "tarea normal", Project: "web", Status: types.StatusPending, Priority: types.PriorityMedium})
	store.Seed(&types.Task{UUID: "u2", Description: "arreglo urgente", Project: "web", Status: types.StatusPending, Priority: types.PriorityHigh})
	store.Seed(&types.Task{UUID: "u3", Description: "ya terminada", Project: "web", Status: types.StatusCompleted})
	return store
}

func TestBuildColumns(t *testing.T) {
	g := NewGenerator(seedStore(), t.TempDir())

	board, err := g.Build(context.Background(), "web")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(board.Todo) != 1 || board.Todo[0].UUID != "u1" {
		t.Errorf("Todo = %v", board.Todo)
	}
	if len(board.Urgent) != 1 || board.Urgent[0].UUID != "u2" {
		t.Errorf("Urgent = %v", board.Urgent)
	}
	if len(board.Done) != 1 || board.Done[0].UUID != "u3" {
		t.Errorf("Done = %v", board.Done)
	}
}

func TestRenderMarkdown(t *testing.T) {
	g := NewGenerator(seedStore(), t.TempDir())
	board, err := g.Build(context.Background(), "web")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	md := Render(board)
	for _, want := range []string{
		"# Tablero Kanban - web",
		"## Por Hacer (1)",
		"## Urgente (1)",
		"## Completado (1)",
		"- [ ] tarea normal",
		"- [ ] arreglo urgente `H`",
		"- [x] ya terminada",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("rendered board missing %q\n%s", want, md)
		}
	}
}

func TestRenderEmptyBoard(t *testing.T) {
	g := NewGenerator(task.NewMemory(), t.TempDir())
	board, err := g.Build(context.Background(), "")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	md := Render(board)
	if !strings.Contains(md, "# Tablero Kanban General") {
		t.Errorf("missing general title:\n%s", md)
	}
	if !strings.Contains(md, "_sin tareas_") {
		t.Errorf("empty columns should render a placeholder:\n%s", md)
	}
}

func TestGenerateWritesFile(t *testing.T) {
	dir := t.TempDir()
	g := NewGenerator(seedStore(), dir)

	path, err := g.Generate(context.Background(), "Mi Proyecto")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("path = %q, want under %q", path, dir)
	}
	base := filepath.Base(path)
	if !strings.HasPrefix(base, "kanban_mi_proyecto_") || !strings.HasSuffix(base, ".md") {
		t.Errorf("filename = %q", base)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read board: %v", err)
	}
	if !strings.Contains(string(data), "arreglo urgente") {
		t.Errorf("board content missing task:\n%s", data)
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("á", 50)
	got := truncate(long, 40)
	if len([]rune(got)) != 43 {
		t.Errorf("truncate length = %d runes, want 43", len([]rune(got)))
	}
	if truncate("corta", 40) != "corta" {
		t.Errorf("short strings must pass through")
	}
}
