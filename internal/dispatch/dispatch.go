// Package dispatch maps structured actions onto task store calls.
//
// Exactly one store mutation happens for create/complete, none for the
// read-only kinds, and none at all for unknown/error actions. Validation
// runs before any store contact; store errors propagate typed.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taskflow-ai/taskflow/internal/task"
	"github.com/taskflow-ai/taskflow/internal/timeparsing"
	"github.com/taskflow-ai/taskflow/internal/types"
)

// Result is the outcome of dispatching one action.
type Result struct {
	Kind    types.ActionKind
	Message string
	Task    *types.Task   // the task created or completed, when applicable
	Tasks   []*types.Task // list/search results
	Project string        // board scope for generate_board
}

// Dispatch validates the action and performs its store call. The board
// kind carries no store call here; rendering is the caller's concern and
// the result only scopes it.
func Dispatch(ctx context.Context, action types.StructuredAction, store task.Store) (*Result, error) {
	switch action.Kind {
	case types.ActionCreateTask:
		return createTask(ctx, action, store)
	case types.ActionCompleteTask:
		return completeTask(ctx, action, store)
	case types.ActionListTasks:
		return listTasks(ctx, action, store)
	case types.ActionSearchTasks:
		return searchTasks(ctx, action, store)
	case types.ActionGenerateBoard:
		return &Result{
			Kind:    action.Kind,
			Project: action.Project,
			Message: carried(action, "Generando tablero kanban"),
		}, nil
	case types.ActionUnknown, types.ActionError:
		// The carried message is surfaced verbatim; no store contact.
		return &Result{Kind: action.Kind, Message: carried(action, "No entendí el comando.")}, nil
	default:
		return nil, &types.ValidationError{Kind: action.Kind, Msg: fmt.Sprintf("unrecognized action kind %q", action.Kind)}
	}
}

func createTask(ctx context.Context, action types.StructuredAction, store task.Store) (*Result, error) {
	if strings.TrimSpace(action.Description) == "" {
		return nil, &types.ValidationError{Kind: action.Kind, Field: "description"}
	}

	nt := task.NewTask{
		Description: action.Description,
		Project:     action.Project,
		Priority:    types.ParsePriority(action.Priority),
		Tags:        action.Tags,
	}
	if action.DueDate != "" {
		due, err := timeparsing.Parse(action.DueDate, time.Now())
		if err != nil {
			// An unparseable due date does not block creation; the task
			// is created without one.
			slog.Debug("due date not understood", "input", action.DueDate, "error", err)
		} else {
			nt.Due = &due
		}
	}

	created, err := store.Add(ctx, nt)
	if err != nil {
		return nil, err
	}
	return &Result{
		Kind:    action.Kind,
		Task:    created,
		Message: carried(action, fmt.Sprintf("Tarea creada: %s", created.Description)),
	}, nil
}

func completeTask(ctx context.Context, action types.StructuredAction, store task.Store) (*Result, error) {
	if strings.TrimSpace(action.TaskID) == "" {
		return nil, &types.ValidationError{Kind: action.Kind, Field: "task_id"}
	}

	completed, err := store.Complete(ctx, action.TaskID)
	if err != nil {
		return nil, err
	}
	return &Result{
		Kind:    action.Kind,
		Task:    completed,
		Message: carried(action, fmt.Sprintf("Tarea completada: %s", completed.Description)),
	}, nil
}

func listTasks(ctx context.Context, action types.StructuredAction, store task.Store) (*Result, error) {
	tasks, err := store.List(ctx, action.Project, "")
	if err != nil {
		return nil, err
	}
	return &Result{
		Kind:    action.Kind,
		Tasks:   tasks,
		Message: carried(action, fmt.Sprintf("%d tareas", len(tasks))),
	}, nil
}

func searchTasks(ctx context.Context, action types.StructuredAction, store task.Store) (*Result, error) {
	if strings.TrimSpace(action.Query) == "" {
		return nil, &types.ValidationError{Kind: action.Kind, Field: "query"}
	}

	tasks, err := store.Search(ctx, action.Query)
	if err != nil {
		return nil, err
	}
	return &Result{
		Kind:    action.Kind,
		Tasks:   tasks,
		Message: carried(action, fmt.Sprintf("%d resultados para %q", len(tasks), action.Query)),
	}, nil
}

// carried prefers the interpreter's user-facing message over a synthetic
// default.
func carried(action types.StructuredAction, fallback string) string {
	if strings.TrimSpace(action.Message) != "" {
		return action.Message
	}
	return fallback
}
