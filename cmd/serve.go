/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"labqms/internal/bootstrap"
	"labqms/internal/bootstrap/logging"
	"labqms/internal/errs"
	"labqms/internal/httpapi"
	"labqms/internal/usecase/investigation"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long:  "Serves the quality investigation API. The workflow profile is hot-reloaded when the file changes on disk.",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, svc services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))
		applyWorkflowPolicy(cmd, app, svc)

		addr := serveAddr
		if addr == "" {
			addr = app.Config.Server.Addr
		}

		server := &http.Server{
			Addr:              addr,
			Handler:           httpapi.NewServer(svc.Investigations, svc.Docs, svc.Audit).Router(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		watchDone := watchWorkflowProfile(runCtx, app.Config.Workflow.PolicyFile, svc.Investigations)

		serveErr := make(chan error, 1)
		go func() {
			logging.Info(ctx, "http server listening", slog.String("addr", addr))
			serveErr <- server.ListenAndServe()
		}()

		select {
		case err := <-serveErr:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return errs.Wrap(err, "serve http")
			}
		case <-runCtx.Done():
			logging.Info(ctx, "shutdown signal received")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return errs.Wrap(err, "shutdown http server")
		}
		<-watchDone

		logging.Info(ctx, "http server stopped")
		return nil
	}),
}

// watchWorkflowProfile reloads the policy whenever the profile file is
// written. Editors often replace the file, so the watch is on the directory.
func watchWorkflowProfile(ctx context.Context, policyFile string, svc *investigation.Service) <-chan struct{} {
	done := make(chan struct{})

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logging.Warn(ctx, "workflow profile watch disabled", slog.Any("err", errs.Loggable(err)))
		close(done)
		return done
	}
	if err := watcher.Add(filepath.Dir(policyFile)); err != nil {
		logging.Warn(ctx, "workflow profile watch disabled",
			slog.String("policy_file", policyFile),
			slog.Any("err", errs.Loggable(err)),
		)
		_ = watcher.Close()
		close(done)
		return done
	}

	target := filepath.Clean(policyFile)
	go func() {
		defer close(done)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				policy, err := investigation.LoadWorkflowPolicy(policyFile)
				if err != nil {
					logging.Warn(ctx, "workflow profile reload failed", slog.Any("err", errs.Loggable(err)))
					continue
				}
				svc.ApplyPolicy(policy)
				logging.Info(ctx, "workflow profile reloaded", slog.String("policy_file", policyFile))
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logging.Warn(ctx, "workflow profile watch error", slog.Any("err", errs.Loggable(err)))
			}
		}
	}()
	return done
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (defaults to server.addr from config)")
}
