package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taskflow-ai/taskflow/internal/ui"
)

var doneCmd = &cobra.Command{
	Use:     "done <task id or uuid>",
	Short:   "Mark a task as completed",
	GroupID: "tasks",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		completed, err := newStore().Complete(rootCtx, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s Tarea completada: %s\n", ui.PassStyle.Render(ui.IconPass), completed.Description)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doneCmd)
}
