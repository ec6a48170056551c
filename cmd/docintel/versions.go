package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/intakehq/docintel/internal/common"
	"github.com/intakehq/docintel/internal/store"
)

var versionsShow string

var versionsCmd = &cobra.Command{
	Use:   "versions <group-id>",
	Short: "List fused record snapshots for a group",
	Args:  cobra.ExactArgs(1),
	RunE:  runVersions,
}

func init() {
	versionsCmd.Flags().StringVar(&versionsShow, "show", "", "print the full snapshot for this version id")
	rootCmd.AddCommand(versionsCmd)
}

func runVersions(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	s, err := store.Open(common.StoreConfig{Path: cfg.Store.Path}, newLogger())
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := context.Background()
	if versionsShow != "" {
		v, err := s.GetVersion(ctx, versionsShow)
		if err != nil {
			return err
		}
		return printJSON(v)
	}

	versions, err := s.ListVersions(ctx, args[0])
	if err != nil {
		return err
	}
	for _, v := range versions {
		fmt.Printf("v%d\t%s\t%s\t%s\t%s\n",
			v.VersionNumber, v.VersionID, v.CreatedAt.Format("2006-01-02 15:04:05"), v.CreatedBy, v.Action)
	}
	return nil
}
