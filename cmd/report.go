/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"labqms/internal/bootstrap"
	"labqms/internal/errs"
)

var (
	reportAuthor string
	reportOut    string
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report <investigation-id>",
	Short: "Generate an investigation report",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, svc services) error {
		applyWorkflowPolicy(cmd, app, svc)

		report, err := svc.Docs.GenerateInvestigationReport(
			cmd.Context(), cmd.Flags().Arg(0), reportAuthor, svc.Investigations.Policy().ApprovalRoles)
		if err != nil {
			return errs.Wrap(err, "generate report")
		}

		out := cmd.OutOrStdout()
		if reportOut != "" {
			file, err := os.Create(reportOut)
			if err != nil {
				return errs.Wrap(err, "create report file")
			}
			defer file.Close()
			out = file
		}
		if _, err := svc.Docs.ExportReport(cmd.Context(), report.ID, out); err != nil {
			return errs.Wrap(err, "write report")
		}

		if reportOut != "" {
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "report %s written to %s\n", report.ID, reportOut); err != nil {
				return errs.Wrap(err, "write report output")
			}
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVar(&reportAuthor, "author", "system", "Report author")
	reportCmd.Flags().StringVar(&reportOut, "out", "", "Output file (defaults to stdout)")
}
