package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/taskflow-ai/taskflow/internal/ai"
	"github.com/taskflow-ai/taskflow/internal/github"
	"github.com/taskflow-ai/taskflow/internal/sync"
	"github.com/taskflow-ai/taskflow/internal/task"
	"github.com/taskflow-ai/taskflow/internal/types"
	"github.com/taskflow-ai/taskflow/internal/ui"
)

// newStore returns the Taskwarrior-backed store.
func newStore() task.Store {
	return task.NewWarrior(cfg.Task.Binary)
}

// newProviderOrNil builds the configured AI provider. Commands that can
// degrade (sync issue bodies, for example) pass the nil through; commands
// that require interpretation surface the error.
func newProviderOrNil() ai.Provider {
	provider, err := ai.NewProvider(cfg.Provider)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: AI provider unavailable: %v\n", err)
		return nil
	}
	return provider
}

// newReconciler wires the mapping store, tracker client, and provider.
func newReconciler() (*sync.Reconciler, error) {
	if !cfg.GitHub.Configured() {
		return nil, fmt.Errorf("GitHub sync is not configured: set github.token, github.owner, and github.repo (or GITHUB_TOKEN); run 'taskflow config init' to create a starter config")
	}

	mapping, err := sync.NewMappingStore(cfg.Sync.MappingPath)
	if err != nil {
		return nil, err
	}

	client := github.NewClient(cfg.GitHub.Token, cfg.GitHub.Owner, cfg.GitHub.Repo)
	return sync.NewReconciler(mapping, client, newProviderOrNil()).WithWorkers(cfg.Sync.Workers), nil
}

// syncContext derives a bounded context for one sync batch.
func syncContext() (context.Context, context.CancelFunc) {
	timeout := cfg.Sync.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	// The batch multiplies the per-call timeout; workers overlap calls.
	return context.WithTimeout(rootCtx, 10*timeout)
}

// printTasks renders a task list for humans.
func printTasks(tasks []*types.Task) {
	if len(tasks) == 0 {
		fmt.Println(ui.MutedStyle.Render("sin tareas"))
		return
	}
	for _, t := range tasks {
		line := fmt.Sprintf("%3d  %s", t.ID, t.Description)
		switch t.Priority {
		case types.PriorityHigh:
			line += " " + ui.FailStyle.Render("[H]")
		case types.PriorityMedium:
			line += " " + ui.WarnStyle.Render("[M]")
		case types.PriorityLow:
			line += " " + ui.PassStyle.Render("[L]")
		}
		if t.Project != "" {
			line += " " + ui.AccentStyle.Render(t.Project)
		}
		if t.Due != nil {
			line += " " + ui.MutedStyle.Render("vence "+t.Due.Format(time.DateOnly))
		}
		fmt.Println(line)
	}
}

// printBatch summarizes a sync run.
func printBatch(result sync.BatchResult) {
	fmt.Printf("%s %d issues creados, %d cerrados",
		ui.PassStyle.Render(ui.IconPass), result.Created, result.Closed)
	if result.Errors > 0 {
		fmt.Printf(", %s", ui.FailStyle.Render(fmt.Sprintf("%d errores", result.Errors)))
	}
	fmt.Println()
	for _, uuid := range result.Failed {
		fmt.Printf("  %s %s\n", ui.FailStyle.Render(ui.IconFail), uuid)
	}
}
