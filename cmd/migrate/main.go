package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
	"go.temporal.io/sdk/client"

	"github.com/kerrokantasi/hearinggeo/internal/adapters/postgres"
	"github.com/kerrokantasi/hearinggeo/internal/pkg/config"
	"github.com/kerrokantasi/hearinggeo/internal/pkg/logging"
	"github.com/kerrokantasi/hearinggeo/internal/workflows"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "migrate",
		Short:         "Schema migrations and stored geometry backfills",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newUpCommand())
	cmd.AddCommand(newDownCommand())
	cmd.AddCommand(newStatusCommand())
	cmd.AddCommand(newNormalizeCommand())
	return cmd
}

func newUpCommand() *cobra.Command {
	return newGooseCommand("up", "Apply SQL migrations that have not run yet", goose.UpContext)
}

func newDownCommand() *cobra.Command {
	return newGooseCommand("down", "Roll back the most recent migration", goose.DownContext)
}

func newStatusCommand() *cobra.Command {
	return newGooseCommand("status", "Print applied and pending migrations", goose.StatusContext)
}

func newGooseCommand(use, short string, run func(context.Context, *sql.DB, string, ...goose.OptionsFunc) error) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := sql.Open("pgx", cfg.Database.DSN())
			if err != nil {
				return fmt.Errorf("open db for migrations: %w", err)
			}
			defer db.Close()
			if err := goose.SetDialect("postgres"); err != nil {
				return fmt.Errorf("set goose dialect: %w", err)
			}
			if err := run(cmd.Context(), db, dir); err != nil {
				return fmt.Errorf("migrate %s: %w", use, err)
			}
			slog.Info("migrations done", "command", use, "dir", dir)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "migrations", "Directory holding NNN_name.sql files")
	return cmd
}

func newNormalizeCommand() *cobra.Command {
	var (
		dryRun   bool
		pageSize int
	)
	cmd := &cobra.Command{
		Use:   "normalize",
		Short: "Start a geometry normalization workflow for every stored hearing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := postgres.New(cmd.Context(), cfg.Database.DSN())
			if err != nil {
				return fmt.Errorf("db: %w", err)
			}
			defer db.Close()

			tc, err := client.Dial(client.Options{
				HostPort:  cfg.Temporal.HostPort,
				Namespace: cfg.Temporal.Namespace,
			})
			if err != nil {
				return fmt.Errorf("temporal client: %w", err)
			}
			defer tc.Close()

			return startNormalization(cmd.Context(), postgres.NewHearingRepo(db), tc, cfg.Temporal.TaskQueue, pageSize, dryRun)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would change without writing")
	cmd.Flags().IntVar(&pageSize, "page-size", 100, "Hearings read per page")
	return cmd
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load("hearinggeo-migrate")
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	logging.Setup(cfg.Telemetry.ServiceName, cfg.Log.Level, "text")
	return cfg, nil
}

func startNormalization(ctx context.Context, repo *postgres.HearingRepo, tc client.Client, queue string, pageSize int, dryRun bool) error {
	started := 0
	for offset := 0; ; offset += pageSize {
		hearings, total, err := repo.List(ctx, pageSize, offset)
		if err != nil {
			return err
		}
		for _, h := range hearings {
			opts := client.StartWorkflowOptions{
				ID:        workflows.WorkflowID(h.ID),
				TaskQueue: queue,
			}
			run, err := tc.ExecuteWorkflow(ctx, opts, workflows.NormalizeHearingGeometryWorkflow,
				workflows.NormalizeInput{HearingID: h.ID, DryRun: dryRun})
			if err != nil {
				slog.Warn("workflow not started", "hearing_id", h.ID, "error", err)
				continue
			}
			started++
			slog.Debug("workflow started", "hearing_id", h.ID, "run_id", run.GetRunID())
		}
		if offset+pageSize >= total || len(hearings) == 0 {
			break
		}
	}
	slog.Info("normalization workflows started", "count", started, "dry_run", dryRun)
	return nil
}
