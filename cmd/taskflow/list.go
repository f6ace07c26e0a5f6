package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taskflow-ai/taskflow/internal/types"
)

var (
	listProject string
	listStatus  string
)

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List tasks",
	GroupID: "tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		if listStatus != "" && !types.ValidStatus(listStatus) {
			return fmt.Errorf("invalid status %q (pending|in_progress|completed|deleted)", listStatus)
		}
		tasks, err := newStore().List(rootCtx, listProject, types.Status(listStatus))
		if err != nil {
			return err
		}
		printTasks(tasks)
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:     "search <query>",
	Short:   "Search pending tasks by description",
	GroupID: "tasks",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tasks, err := newStore().Search(rootCtx, args[0])
		if err != nil {
			return err
		}
		printTasks(tasks)
		return nil
	},
}

func init() {
	listCmd.Flags().StringVarP(&listProject, "project", "p", "", "Filter by project")
	listCmd.Flags().StringVarP(&listStatus, "status", "s", "", "Filter by status (default pending)")
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(searchCmd)
}
