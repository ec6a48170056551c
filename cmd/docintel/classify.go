package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/intakehq/docintel/internal/classify"
	"github.com/intakehq/docintel/internal/reader"
)

var classifyIndicators bool

var classifyCmd = &cobra.Command{
	Use:   "classify <file>...",
	Short: "Classify documents without extracting them",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runClassify,
}

func init() {
	classifyCmd.Flags().BoolVar(&classifyIndicators, "indicators", false, "print the matched classification indicators")
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger()
	loader := reader.NewLoader(nil, logger)
	composite := classify.DefaultRegistry(cfg.Classify, logger).Composite(classify.ParseStrategy(cfg.Classify.Strategy))

	ctx := context.Background()
	for _, path := range args {
		doc, err := loader.Load(ctx, path)
		if err != nil {
			fmt.Printf("%s\tERROR\t%v\n", path, err)
			continue
		}
		docType, confidence := composite.Classify(doc)
		fmt.Printf("%s\t%s\t%.3f\n", path, docType, confidence)

		if classifyIndicators {
			for _, ind := range composite.Indicators(doc) {
				fmt.Printf("  %s/%s %q (%.2f)\n", ind.Classifier, ind.Type, ind.Value, ind.Confidence)
			}
		}
	}
	return nil
}
