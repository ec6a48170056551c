package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/intakehq/docintel/constants"
	"github.com/intakehq/docintel/internal/entity"
	"github.com/intakehq/docintel/internal/pipeline"
	"github.com/intakehq/docintel/internal/schema"
)

var (
	extractDir      string
	extractValidate bool
)

var extractCmd = &cobra.Command{
	Use:   "extract [file...]",
	Short: "Run the full pipeline on documents and print extraction results",
	Long: `Runs load, classify, and extract on each file and prints the results as
JSON. With --dir, every supported file in the directory is processed;
failures are reported per file and do not stop the batch.`,
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&extractDir, "dir", "d", "", "process every supported file in this directory")
	extractCmd.Flags().BoolVar(&extractValidate, "validate", false, "validate each payload against its canonical schema")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	if extractDir == "" && len(args) == 0 {
		return cmd.Usage()
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger()
	p := pipeline.Default(cfg, logger)
	ctx := context.Background()

	var results []entity.ExtractionResult
	if extractDir != "" {
		results, err = p.ProcessDirectory(ctx, extractDir)
		if err != nil {
			return err
		}
	}
	results = append(results, p.ProcessBatch(ctx, args)...)

	if extractValidate {
		if err := validateResults(results); err != nil {
			return err
		}
	}
	return printJSON(results)
}

func validateResults(results []entity.ExtractionResult) error {
	registry, err := schema.NewRegistry()
	if err != nil {
		return err
	}
	for i := range results {
		r := &results[i]
		if !r.Success {
			continue
		}
		docType, _ := r.Metadata["document_type"].(string)
		t := constants.DocumentType(docType)
		if !registry.Has(t) {
			continue
		}
		if err := registry.Validate(t, r.Data); err != nil {
			r.Warnings = append(r.Warnings, err.Error())
		}
	}
	return nil
}
