package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coah80/docxify/internal/util"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the conversion engine is installed",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if _, ok := util.CheckDependencies(cfg.ConverterBin); !ok {
			return fmt.Errorf("missing required dependency %q", cfg.ConverterBin)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
