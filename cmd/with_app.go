package cmd

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"labqms/internal/bootstrap"
	"labqms/internal/bootstrap/logging"
	"labqms/internal/errs"
	"labqms/internal/usecase/audit"
	"labqms/internal/usecase/docs"
	"labqms/internal/usecase/investigation"
)

type services struct {
	Investigations *investigation.Service
	Docs           *docs.Service
	Audit          *audit.Service
}

func withApp(run func(cmd *cobra.Command, app *bootstrap.App, svc services) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := logging.WithAttrs(
			cmd.Context(),
			slog.String("command", cmd.CommandPath()),
			slog.String("config_file", cfgFile),
		)

		var app *bootstrap.App
		var svc services
		fxApp := fx.New(
			bootstrap.Module,
			fx.Provide(func() context.Context { return ctx }),
			fx.Provide(
				fx.Annotate(
					func() string { return cfgFile },
					fx.ResultTags(`name:"configFile"`),
				),
			),
			fx.Populate(&app, &svc.Investigations, &svc.Docs, &svc.Audit),
		)

		startCtx, cancelStart := context.WithTimeout(ctx, 10*time.Second)
		defer cancelStart()
		if err := fxApp.Start(startCtx); err != nil {
			logging.Error(ctx, "bootstrap application failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "start fx application")
		}

		defer func() {
			stopCtx, cancelStop := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancelStop()
			if err := fxApp.Stop(stopCtx); err != nil {
				logging.Error(ctx, "fx application stop failed", slog.Any("err", errs.Loggable(err)))
			}
		}()

		if err := run(cmd, app, svc); err != nil {
			return errs.Wrap(err, "run command")
		}
		return nil
	}
}

// applyWorkflowPolicy loads the workflow profile named in config and installs
// it on the investigation service. A missing profile keeps the default.
func applyWorkflowPolicy(cmd *cobra.Command, app *bootstrap.App, svc services) {
	ctx := cmd.Context()
	policy, err := investigation.LoadWorkflowPolicy(app.Config.Workflow.PolicyFile)
	if err != nil {
		logging.Warn(ctx, "workflow profile not loaded, using defaults",
			slog.String("policy_file", app.Config.Workflow.PolicyFile),
			slog.Any("err", errs.Loggable(err)),
		)
		return
	}
	svc.Investigations.ApplyPolicy(policy)
	logging.Info(ctx, "workflow profile applied",
		slog.String("policy_file", app.Config.Workflow.PolicyFile),
		slog.Bool("enforce_order", policy.Transitions.EnforceInvestigationOrder),
	)
}
