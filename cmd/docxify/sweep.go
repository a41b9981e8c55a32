package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/coah80/docxify/internal/services"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Delete staged and converted files older than one hour",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		report := services.NewSweeper(cfg).Sweep(time.Now())
		fmt.Fprintf(cmd.OutOrStdout(), "scanned %d, removed %d, failures %d\n",
			report.Scanned, report.Removed, len(report.Failures))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}
