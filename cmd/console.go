/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"labqms/internal/bootstrap"
	"labqms/internal/errs"
	"labqms/internal/usecase/console"
)

var (
	consoleStatus   string
	consolePriority string
	consoleQuery    string
	consoleApprover string
	consoleRefresh  time.Duration
)

// consoleCmd represents the console command
var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Interactive investigation console",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, svc services) error {
		applyWorkflowPolicy(cmd, app, svc)

		model := console.NewModel(cmd.Context(), svc.Investigations, console.Options{
			StatusFilter:    consoleStatus,
			PriorityFilter:  consolePriority,
			Query:           consoleQuery,
			Approver:        consoleApprover,
			RefreshInterval: consoleRefresh,
		})

		program := tea.NewProgram(model, tea.WithContext(cmd.Context()))
		if _, err := program.Run(); err != nil {
			return errs.Wrap(err, "run console")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(consoleCmd)

	consoleCmd.Flags().StringVar(&consoleStatus, "status", "all", "Status filter")
	consoleCmd.Flags().StringVar(&consolePriority, "priority", "all", "Priority filter")
	consoleCmd.Flags().StringVar(&consoleQuery, "query", "", "Text search over id and title")
	consoleCmd.Flags().StringVar(&consoleApprover, "approver", "", "Approver name stamped on console decisions")
	consoleCmd.Flags().DurationVar(&consoleRefresh, "refresh", 5*time.Second, "Refresh interval")
}
