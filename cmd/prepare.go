package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/insightforge/insightforge/internal/prepare"
)

var (
	prepareRawPath string
	prepareOutDir  string
	prepareLimit   int
)

var prepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "Derive processed source datasets from a raw marketplace export",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("prepare"); err != nil {
			return err
		}

		opts := prepare.Options{
			RawPath: cfg.Prepare.RawPath,
			OutDir:  cfg.Prepare.OutDir,
			Limit:   cfg.Prepare.Limit,
		}
		if prepareRawPath != "" {
			opts.RawPath = prepareRawPath
		}
		if prepareOutDir != "" {
			opts.OutDir = prepareOutDir
		}
		if prepareLimit > 0 {
			opts.Limit = prepareLimit
		}

		summary, err := prepare.Run(opts)
		if err != nil {
			return err
		}

		encoded, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return err
		}
		fmt.Printf("Processed datasets written to: %s\n", opts.OutDir)
		fmt.Println(string(encoded))
		return nil
	},
}

func init() {
	prepareCmd.Flags().StringVar(&prepareRawPath, "raw", "", "raw export path, .csv or .xlsx (default from config)")
	prepareCmd.Flags().StringVar(&prepareOutDir, "out-dir", "", "output directory for processed files (default from config)")
	prepareCmd.Flags().IntVar(&prepareLimit, "limit", 0, "max rows to process (default from config)")
	rootCmd.AddCommand(prepareCmd)
}
