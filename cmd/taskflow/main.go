// Command taskflow is an AI assistant for Taskwarrior: it interprets
// free-text commands, mutates the task list, mirrors tasks as GitHub
// issues, and renders kanban boards.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/taskflow-ai/taskflow/internal/config"
	"github.com/taskflow-ai/taskflow/internal/debug"
	"github.com/taskflow-ai/taskflow/internal/telemetry"
)

var (
	cfg         *config.Config
	verboseFlag bool

	rootCtx    context.Context
	rootCancel context.CancelFunc
)

var rootCmd = &cobra.Command{
	Use:   "taskflow",
	Short: "taskflow - AI assistant for Taskwarrior",
	Long: `Taskwarrior assistant: describe what you want in natural language and
taskflow turns it into task mutations, mirrored GitHub issues, and kanban
boards.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		debug.SetVerbose(verboseFlag)

		rootCtx, rootCancel = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}

		if err := telemetry.Init(rootCtx, "taskflow", Version); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: telemetry init failed: %v\n", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		telemetry.Shutdown(rootCtx)
		if rootCancel != nil {
			rootCancel()
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose/debug output")

	rootCmd.AddGroup(
		&cobra.Group{ID: "tasks", Title: "Working With Tasks:"},
		&cobra.Group{ID: "sync", Title: "Sync & Boards:"},
		&cobra.Group{ID: "setup", Title: "Setup & Configuration:"},
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
