package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taskflow-ai/taskflow/internal/ai"
	"github.com/taskflow-ai/taskflow/internal/dispatch"
	"github.com/taskflow-ai/taskflow/internal/kanban"
	"github.com/taskflow-ai/taskflow/internal/task"
	"github.com/taskflow-ai/taskflow/internal/types"
	"github.com/taskflow-ai/taskflow/internal/ui"
)

var askSyncFlag bool

var askCmd = &cobra.Command{
	Use:     "ask <free text command>",
	Short:   "Interpret a natural-language command and run it",
	GroupID: "tasks",
	Long: `Interpret free text ("crea una tarea urgente para revisar el login del
proyecto web") into a structured action and execute it against Taskwarrior.
Falls back to deterministic keyword classification when the AI backend is
unavailable.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := strings.Join(args, " ")
		store := newStore()

		var interpreter *ai.Interpreter
		if provider := newProviderOrNil(); provider != nil {
			interpreter = ai.NewInterpreter(provider)
		}

		var action types.StructuredAction
		if interpreter != nil {
			action = interpreter.Interpret(rootCtx, input, task.Snapshot(rootCtx, store))
		} else {
			action = ai.Classify(input)
		}

		result, err := dispatch.Dispatch(rootCtx, action, store)
		if err != nil {
			return err
		}

		switch result.Kind {
		case types.ActionListTasks, types.ActionSearchTasks:
			fmt.Println(result.Message)
			printTasks(result.Tasks)
		case types.ActionGenerateBoard:
			generator := kanban.NewGenerator(store, cfg.Kanban.OutputDir)
			path, err := generator.Generate(rootCtx, result.Project)
			if err != nil {
				return err
			}
			fmt.Printf("%s Tablero generado: %s\n", ui.PassStyle.Render(ui.IconPass), path)
		case types.ActionError:
			fmt.Println(ui.FailStyle.Render(result.Message))
		case types.ActionUnknown:
			fmt.Println(ui.WarnStyle.Render(result.Message))
		default:
			fmt.Printf("%s %s\n", ui.PassStyle.Render(ui.IconPass), result.Message)
		}

		if askSyncFlag {
			return runSyncBatch()
		}
		return nil
	},
}

func init() {
	askCmd.Flags().BoolVar(&askSyncFlag, "sync", false, "Run a GitHub sync batch after the command")
	rootCmd.AddCommand(askCmd)
}
