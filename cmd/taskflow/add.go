package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/taskflow-ai/taskflow/internal/task"
	"github.com/taskflow-ai/taskflow/internal/timeparsing"
	"github.com/taskflow-ai/taskflow/internal/types"
	"github.com/taskflow-ai/taskflow/internal/ui"
)

var (
	addProject  string
	addPriority string
	addDue      string
	addTags     []string
)

var addCmd = &cobra.Command{
	Use:     "add <description>",
	Short:   "Add a task directly (no AI interpretation)",
	GroupID: "tasks",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		nt := task.NewTask{
			Description: strings.Join(args, " "),
			Project:     addProject,
			Priority:    types.ParsePriority(addPriority),
			Tags:        addTags,
		}
		if addDue != "" {
			due, err := timeparsing.Parse(addDue, time.Now())
			if err != nil {
				return fmt.Errorf("due date %q not understood: %w", addDue, err)
			}
			nt.Due = &due
		}

		created, err := newStore().Add(rootCtx, nt)
		if err != nil {
			return err
		}
		fmt.Printf("%s Tarea %d creada: %s\n", ui.PassStyle.Render(ui.IconPass), created.ID, created.Description)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVarP(&addProject, "project", "p", "", "Project name")
	addCmd.Flags().StringVar(&addPriority, "priority", "", "Priority (low|normal|high)")
	addCmd.Flags().StringVar(&addDue, "due", "", "Due date (+2d, mañana, 2026-09-15, next friday)")
	addCmd.Flags().StringSliceVarP(&addTags, "tag", "t", nil, "Tags (repeatable)")
	rootCmd.AddCommand(addCmd)
}
