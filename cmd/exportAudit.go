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
	"labqms/internal/usecase/audit"
)

var (
	exportAuditOut    string
	exportAuditModule string
	exportAuditAction string
	exportAuditUser   string
	exportAuditFrom   string
	exportAuditTo     string
)

// exportAuditCmd represents the export-audit command
var exportAuditCmd = &cobra.Command{
	Use:   "export-audit",
	Short: "Export the audit trail as CSV",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, svc services) error {
		out := cmd.OutOrStdout()
		if exportAuditOut != "" {
			file, err := os.Create(exportAuditOut)
			if err != nil {
				return errs.Wrap(err, "create export file")
			}
			defer file.Close()
			out = file
		}

		count, err := svc.Audit.ExportCSV(cmd.Context(), out, audit.Filter{
			Module: exportAuditModule,
			Action: exportAuditAction,
			UserID: exportAuditUser,
			From:   exportAuditFrom,
			To:     exportAuditTo,
		})
		if err != nil {
			return errs.Wrap(err, "export audit trail")
		}

		if exportAuditOut != "" {
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "exported %d audit entries to %s\n", count, exportAuditOut); err != nil {
				return errs.Wrap(err, "write export-audit output")
			}
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(exportAuditCmd)

	exportAuditCmd.Flags().StringVar(&exportAuditOut, "out", "", "Output file (defaults to stdout)")
	exportAuditCmd.Flags().StringVar(&exportAuditModule, "module", "", "Filter by module")
	exportAuditCmd.Flags().StringVar(&exportAuditAction, "action", "", "Filter by action")
	exportAuditCmd.Flags().StringVar(&exportAuditUser, "user", "", "Filter by user id")
	exportAuditCmd.Flags().StringVar(&exportAuditFrom, "from", "", "Inclusive RFC3339 lower bound")
	exportAuditCmd.Flags().StringVar(&exportAuditTo, "to", "", "Inclusive RFC3339 upper bound")
}
