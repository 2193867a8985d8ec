package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/kerrokantasi/hearinggeo/internal/adapters/postgres"
	"github.com/kerrokantasi/hearinggeo/internal/core/domain"
	"github.com/kerrokantasi/hearinggeo/internal/core/geometry"
	"github.com/kerrokantasi/hearinggeo/internal/pkg/config"
	"github.com/kerrokantasi/hearinggeo/internal/pkg/logging"
)

// exportedHearing is one record of a hearing export file.
type exportedHearing struct {
	ID        string            `json:"id"`
	Slug      string            `json:"slug"`
	Title     map[string]string `json:"title"`
	GeoJSON   json.RawMessage   `json:"geojson"`
	Published bool              `json:"published"`
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		batchSize int
		keepShape bool
	)
	cmd := &cobra.Command{
		Use:           "importer <export.json>",
		Short:         "Bulk load hearings from a JSON export",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load("hearinggeo-importer")
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			logging.Setup(cfg.Telemetry.ServiceName, cfg.Log.Level, "text")

			hearings, err := readExport(args[0], !keepShape)
			if err != nil {
				return err
			}

			db, err := postgres.New(cmd.Context(), cfg.Database.DSN())
			if err != nil {
				return fmt.Errorf("db: %w", err)
			}
			defer db.Close()

			return importHearings(cmd.Context(), postgres.NewHearingRepo(db), hearings, batchSize)
		},
	}
	cmd.Flags().IntVar(&batchSize, "batch-size", 500, "Hearings upserted per batch")
	cmd.Flags().BoolVar(&keepShape, "keep-shape", false, "Store geometry exactly as exported instead of canonicalizing it")
	return cmd
}

func readExport(path string, canonicalize bool) ([]domain.Hearing, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}
	var records []exportedHearing
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse export: %w", err)
	}
	return toHearings(records, canonicalize)
}

func toHearings(records []exportedHearing, canonicalize bool) ([]domain.Hearing, error) {
	out := make([]domain.Hearing, 0, len(records))
	rewritten := 0
	for i, r := range records {
		if r.Slug == "" {
			return nil, fmt.Errorf("record %d: slug is required", i)
		}
		if r.ID == "" {
			r.ID = uuid.NewString()
		} else if _, err := uuid.Parse(r.ID); err != nil {
			return nil, fmt.Errorf("record %d: invalid id %q: %w", i, r.ID, err)
		}

		geo := r.GeoJSON
		if canonicalize {
			var changed bool
			if geo, changed = geometry.Canonicalize(geo); changed {
				rewritten++
			}
		}
		out = append(out, domain.Hearing{
			ID:        r.ID,
			Slug:      r.Slug,
			Title:     r.Title,
			GeoJSON:   geo,
			Published: r.Published,
		})
	}
	slog.Info("export read", "hearings", len(out), "geometry_rewritten", rewritten)
	return out, nil
}

func importHearings(ctx context.Context, repo *postgres.HearingRepo, hearings []domain.Hearing, batchSize int) error {
	if batchSize <= 0 {
		batchSize = 500
	}
	for start := 0; start < len(hearings); start += batchSize {
		end := min(start+batchSize, len(hearings))
		if err := repo.UpsertBatch(ctx, hearings[start:end]); err != nil {
			return fmt.Errorf("upsert hearings %d-%d: %w", start, end, err)
		}
		slog.Info("batch imported", "from", start, "to", end)
	}
	slog.Info("import complete", "hearings", len(hearings))
	return nil
}
