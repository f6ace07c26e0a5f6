// Package kanban renders a task snapshot as a markdown kanban board.
//
// Boards are plain markdown documents written under a configured output
// directory; `taskflow board --preview` renders the same document in the
// terminal. Columns: Por Hacer (pending, non-high priority), Urgente
// (pending, high priority), Completado (most recent completions).
package kanban

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/taskflow-ai/taskflow/internal/task"
	"github.com/taskflow-ai/taskflow/internal/types"
)

const (
	// maxCompleted caps the Completado column.
	maxCompleted = 10
	// maxDescription truncates long task descriptions on cards.
	maxDescription = 40
)

// Generator builds boards from a task store.
type Generator struct {
	store     task.Store
	outputDir string
}

// NewGenerator returns a Generator writing boards under outputDir.
func NewGenerator(store task.Store, outputDir string) *Generator {
	return &Generator{store: store, outputDir: outputDir}
}

// Board is the column layout for one render.
type Board struct {
	Project   string
	Generated time.Time
	Todo      []*types.Task // pending, priority below high
	Urgent    []*types.Task // pending, high priority
	Done      []*types.Task // recent completions, capped
}

// Build assembles the board for a project ("" means all projects).
func (g *Generator) Build(ctx context.Context, project string) (*Board, error) {
	pending, err := g.store.List(ctx, project, types.StatusPending)
	if err != nil {
		return nil, err
	}
	completed, err := g.store.List(ctx, project, types.StatusCompleted)
	if err != nil {
		return nil, err
	}
	if len(completed) > maxCompleted {
		completed = completed[len(completed)-maxCompleted:]
	}

	board := &Board{Project: project, Generated: time.Now(), Done: completed}
	for _, t := range pending {
		if t.Priority == types.PriorityHigh {
			board.Urgent = append(board.Urgent, t)
		} else {
			board.Todo = append(board.Todo, t)
		}
	}
	return board, nil
}

// Generate builds the board, renders it, and writes it under the output
// directory. It returns the written file path.
func (g *Generator) Generate(ctx context.Context, project string) (string, error) {
	board, err := g.Build(ctx, project)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(g.outputDir, 0755); err != nil {
		return "", fmt.Errorf("create board directory: %w", err)
	}

	name := fmt.Sprintf("kanban_%s_%s.md", sanitizeFilename(project), board.Generated.Format("20060102_150405"))
	path := filepath.Join(g.outputDir, name)
	if err := os.WriteFile(path, []byte(Render(board)), 0644); err != nil {
		return "", fmt.Errorf("write board: %w", err)
	}
	return path, nil
}

// Render produces the markdown document for a board.
func Render(board *Board) string {
	var b strings.Builder

	title := "Tablero Kanban General"
	if board.Project != "" {
		title = "Tablero Kanban - " + board.Project
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "_Generado: %s_\n", board.Generated.Format("2006-01-02 15:04"))

	renderColumn(&b, "Por Hacer", board.Todo, false)
	renderColumn(&b, "Urgente", board.Urgent, false)
	renderColumn(&b, "Completado", board.Done, true)

	return b.String()
}

func renderColumn(b *strings.Builder, name string, tasks []*types.Task, done bool) {
	fmt.Fprintf(b, "\n## %s (%d)\n\n", name, len(tasks))
	if len(tasks) == 0 {
		b.WriteString("_sin tareas_\n")
		return
	}

	mark := " "
	if done {
		mark = "x"
	}
	for _, t := range tasks {
		fmt.Fprintf(b, "- [%s] %s", mark, truncate(t.Description, maxDescription))
		if t.Priority != types.PriorityNone {
			fmt.Fprintf(b, " `%s`", t.Priority)
		}
		if t.Project != "" {
			fmt.Fprintf(b, " _%s_", t.Project)
		}
		if t.Due != nil {
			fmt.Fprintf(b, " (vence %s)", t.Due.Format(time.DateOnly))
		}
		b.WriteString("\n")
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

// sanitizeFilename keeps board filenames shell-safe.
func sanitizeFilename(s string) string {
	if s == "" {
		return "general"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '_'
		}
	}, s)
}
