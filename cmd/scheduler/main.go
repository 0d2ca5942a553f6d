package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/appointment-scheduler/internal/app"
	"github.com/BruksfildServices01/appointment-scheduler/internal/config"
	"github.com/BruksfildServices01/appointment-scheduler/internal/logging"
	"github.com/BruksfildServices01/appointment-scheduler/internal/routes"
	"github.com/BruksfildServices01/appointment-scheduler/internal/usecase/appointment"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "scheduler",
		Short:         "Appointment scheduler API and batch jobs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(expirePendingCmd())
	rootCmd.AddCommand(sendRemindersCmd())
	rootCmd.AddCommand(exportCalendarCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

// withApp sobe a infraestrutura, roda fn e fecha tudo no final.
func withApp(ctx context.Context, fn func(ctx context.Context, a *app.App) error) error {
	cfg := config.Load()
	log := logging.Must(cfg.IsProduction())

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Error("startup failed", zap.Error(err))
		_ = log.Sync()
		return err
	}
	defer a.Close()

	return fn(ctx, a)
}

// printJSON escreve o resultado do job no stdout para o cron/CI.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// ======================================================
// SERVE
// ======================================================

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), runServer)
		},
	}
}

func runServer(_ context.Context, a *app.App) error {
	srv := &http.Server{
		Addr:              a.Config.Addr(),
		Handler:           routes.NewRouter(a),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Log.Info("server running", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	a.Log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	a.Log.Info("server stopped")
	return nil
}

// ======================================================
// JOBS
// ======================================================

func expirePendingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expire-pending",
		Short: "Cancel pending appointments that were never paid",
		RunE: func(cmd *cobra.Command, args []string) error {
			minutes, _ := cmd.Flags().GetInt("minutes")
			limit, _ := cmd.Flags().GetInt("limit")
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				if !cmd.Flags().Changed("minutes") {
					minutes = a.Config.PendingMaxAgeMinutes
				}

				res, err := a.ExpirePending.Execute(ctx, appointment.ExpirePendingInput{
					MaxAge: time.Duration(minutes) * time.Minute,
					Limit:  limit,
					DryRun: dryRun,
				})
				if err != nil {
					return err
				}

				a.Log.Info("expire-pending done",
					zap.Int("candidates", len(res.Candidates)),
					zap.Int64("expired", res.Expired),
					zap.Int("failed", res.Failed),
					zap.Bool("dry_run", res.DryRun),
				)
				return printJSON(res)
			})
		},
	}

	cmd.Flags().Int("minutes", 30, "Maximum age of a pending appointment, in minutes")
	cmd.Flags().Int("limit", appointment.DefaultExpireLimit, "Maximum rows handled per run")
	cmd.Flags().Bool("dry-run", false, "List candidates without changing anything")
	return cmd
}

func sendRemindersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send-reminders",
		Short: "Send the 7-day and 24-hour reminders (run every 15 minutes)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				res, err := a.SendReminders.Execute(ctx)
				if err != nil {
					return err
				}

				a.Log.Info("send-reminders done",
					zap.Int("sent", res.Sent),
					zap.Int("skipped", res.Skipped),
					zap.Int("failed", res.Failed),
				)
				return printJSON(res)
			})
		},
	}
}

func exportCalendarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export-calendar",
		Short: "Upload an ICS export of the calendar to S3",
		RunE: func(cmd *cobra.Command, args []string) error {
			includePending, _ := cmd.Flags().GetBool("include-pending")
			onlyNotSent, _ := cmd.Flags().GetBool("only-not-sent")

			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				res, err := a.ExportCalendar.Execute(ctx, appointment.ExportCalendarInput{
					IncludePending: includePending,
					OnlyNotSent:    onlyNotSent,
				})
				if err != nil {
					return err
				}

				a.Log.Info("export-calendar done",
					zap.Int("count", res.Count),
					zap.String("location", res.Location),
				)
				return printJSON(res)
			})
		},
	}

	cmd.Flags().Bool("include-pending", false, "Also export unpaid appointments")
	cmd.Flags().Bool("only-not-sent", false, "Skip appointments already exported")
	return cmd
}
