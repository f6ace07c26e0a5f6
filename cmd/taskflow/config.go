package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taskflow-ai/taskflow/internal/config"
	"github.com/taskflow-ai/taskflow/internal/ui"
)

var configCmd = &cobra.Command{
	Use:     "config",
	Short:   "Manage taskflow configuration",
	GroupID: "setup",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config.yaml",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.WriteDefault()
		if err != nil {
			return err
		}
		fmt.Printf("%s Config creada: %s\n", ui.PassStyle.Render(ui.IconPass), path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(ui.HeaderStyle.Render("taskflow configuration"))
		fmt.Printf("  config dir:   %s\n", config.Dir())
		fmt.Printf("  provider:     %s (%s)\n", cfg.Provider.Backend, cfg.Provider.Model)
		fmt.Printf("  task binary:  %s\n", cfg.Task.Binary)
		fmt.Printf("  mapping:      %s\n", cfg.Sync.MappingPath)
		fmt.Printf("  boards:       %s\n", cfg.Kanban.OutputDir)
		if cfg.GitHub.Configured() {
			fmt.Printf("  github:       %s/%s\n", cfg.GitHub.Owner, cfg.GitHub.Repo)
		} else {
			fmt.Printf("  github:       %s\n", ui.MutedStyle.Render("not configured"))
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
