package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/intakehq/docintel/internal/common"
	"github.com/intakehq/docintel/internal/entity"
	"github.com/intakehq/docintel/internal/export"
	"github.com/intakehq/docintel/internal/extract"
	"github.com/intakehq/docintel/internal/fusion"
	"github.com/intakehq/docintel/internal/pipeline"
	"github.com/intakehq/docintel/internal/schema"
	"github.com/intakehq/docintel/internal/store"
)

var (
	fuseGroupID  string
	fuseXLSXPath string
	fuseSnapshot bool
	fuseValidate bool
)

var fuseCmd = &cobra.Command{
	Use:   "fuse <file>...",
	Short: "Fuse a group of submission documents into one record",
	Long: `Loads and classifies every file as one submission group, extracts each
member, and merges the results into a single fused record printed as JSON.
Optionally validates the record, exports it to XLSX, and snapshots it in
the version store.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFuse,
}

func init() {
	fuseCmd.Flags().StringVarP(&fuseGroupID, "group", "g", "", "group id (defaults to a new UUID)")
	fuseCmd.Flags().StringVar(&fuseXLSXPath, "xlsx", "", "also write the fused record to this XLSX file")
	fuseCmd.Flags().BoolVar(&fuseSnapshot, "save", false, "snapshot the fused record in the version store (STORE_PATH)")
	fuseCmd.Flags().BoolVar(&fuseValidate, "validate", false, "validate the fused record against the canonical schema")
	rootCmd.AddCommand(fuseCmd)
}

func runFuse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger()
	groupID := fuseGroupID
	if groupID == "" {
		groupID = uuid.NewString()
	}

	ctx := context.Background()
	p := pipeline.Default(cfg, logger)
	group := p.LoadGroup(ctx, groupID, args)

	strategy := fusion.New(extract.DefaultRegistry(cfg.Extract, logger), cfg.Fusion, logger)
	result, err := strategy.Fuse(ctx, group)
	if err != nil {
		return err
	}
	fused, ok := result.Data.(entity.FusedSubmission)
	if !ok {
		return fmt.Errorf("unexpected fusion payload %T", result.Data)
	}

	if fuseValidate {
		registry, err := schema.NewRegistry()
		if err != nil {
			return err
		}
		if err := registry.ValidateFused(fused); err != nil {
			result.Warnings = append(result.Warnings, err.Error())
		}
	}

	if fuseSnapshot {
		versionID, err := saveSnapshot(ctx, cfg.Store.Path, groupID, fused)
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "version:", versionID)
	}

	if fuseXLSXPath != "" {
		b, err := export.NewService(logger).ExportFusedXLSX(fused)
		if err != nil {
			return err
		}
		if err := os.WriteFile(fuseXLSXPath, b, 0o644); err != nil {
			return fmt.Errorf("write xlsx: %w", err)
		}
	}

	return printJSON(result)
}

func saveSnapshot(ctx context.Context, path, groupID string, fused entity.FusedSubmission) (string, error) {
	s, err := store.Open(common.StoreConfig{Path: path}, nil)
	if err != nil {
		return "", err
	}
	defer s.Close()
	return s.CreateVersion(ctx, groupID, fused, "", "extract", "fused via cli")
}
