package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/taskflow-ai/taskflow/internal/ui"
)

var (
	syncStatusFlag bool
	syncWatchFlag  bool
)

// watchDebounce coalesces Taskwarrior's burst of data-file writes into
// one sync batch.
const watchDebounce = 2 * time.Second

var syncCmd = &cobra.Command{
	Use:     "sync",
	Short:   "Mirror tasks as GitHub issues",
	GroupID: "sync",
	Long: `Reconcile every task against its mirrored GitHub issue: unsynced pending
tasks get an issue created, completed or deleted tasks get theirs closed.
The batch is idempotent; re-running it with no task changes does nothing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if syncStatusFlag {
			return runSyncStatus()
		}
		if syncWatchFlag {
			return runSyncWatch()
		}
		return runSyncBatch()
	},
}

func runSyncBatch() error {
	reconciler, err := newReconciler()
	if err != nil {
		return err
	}

	ctx, cancel := syncContext()
	defer cancel()

	tasks, err := newStore().All(ctx)
	if err != nil {
		return err
	}

	printBatch(reconciler.SyncAll(ctx, tasks))
	return nil
}

func runSyncStatus() error {
	reconciler, err := newReconciler()
	if err != nil {
		return err
	}

	tasks, err := newStore().All(rootCtx)
	if err != nil {
		return err
	}

	report := reconciler.Status(tasks)
	fmt.Println(ui.HeaderStyle.Render("Estado de sincronización"))
	fmt.Printf("  Tareas:        %d\n", report.Total)
	fmt.Printf("  Sincronizadas: %d (%.1f%%)\n", report.Synced, report.Percent)
	fmt.Printf("  Mapping:       %s\n", ui.MutedStyle.Render(report.MappingPath))
	return nil
}

// runSyncWatch re-runs the sync batch whenever the Taskwarrior data
// directory changes. Safe because the batch is idempotent.
func runSyncWatch() error {
	dataDir := cfg.Task.DataDir
	if dataDir == "" {
		dataDir = os.ExpandEnv("$HOME/.task")
	}
	if _, err := os.Stat(dataDir); err != nil {
		return fmt.Errorf("taskwarrior data dir %s: %w (set task.data_dir in config)", dataDir, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()
	if err := watcher.Add(dataDir); err != nil {
		return err
	}

	fmt.Printf("Observando %s (Ctrl-C para salir)\n", dataDir)
	if err := runSyncBatch(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}

	var timer *time.Timer
	pending := make(chan struct{}, 1)
	for {
		select {
		case <-rootCtx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})
		case <-pending:
			if err := runSyncBatch(); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "Warning: watcher: %v\n", err)
		}
	}
}

func init() {
	syncCmd.Flags().BoolVar(&syncStatusFlag, "status", false, "Show sync coverage instead of running a batch")
	syncCmd.Flags().BoolVar(&syncWatchFlag, "watch", false, "Watch the Taskwarrior data dir and re-sync on changes")
	rootCmd.AddCommand(syncCmd)
}
