package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/taskflow-ai/taskflow/internal/kanban"
	"github.com/taskflow-ai/taskflow/internal/ui"
)

var (
	boardProject string
	boardPreview bool
)

var boardCmd = &cobra.Command{
	Use:     "board",
	Short:   "Generate a markdown kanban board",
	GroupID: "sync",
	RunE: func(cmd *cobra.Command, args []string) error {
		generator := kanban.NewGenerator(newStore(), cfg.Kanban.OutputDir)

		path, err := generator.Generate(rootCtx, boardProject)
		if err != nil {
			return err
		}
		fmt.Printf("%s Tablero generado: %s\n", ui.PassStyle.Render(ui.IconPass), path)

		if boardPreview {
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			fmt.Print(ui.RenderMarkdown(string(data)))
		}
		return nil
	},
}

func init() {
	boardCmd.Flags().StringVarP(&boardProject, "project", "p", "", "Board scope (default: all projects)")
	boardCmd.Flags().BoolVar(&boardPreview, "preview", false, "Render the board in the terminal")
	rootCmd.AddCommand(boardCmd)
}
