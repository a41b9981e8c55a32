// Package main is the entry point for the docxify server and its
// maintenance commands.
package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/coah80/docxify/internal/config"
)

// version is set at build time via ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "docxify",
	Short: "Convert uploaded PDFs to Word documents over HTTP",
	Long: `docxify accepts PDF uploads, converts them to DOCX with the pdf2docx
engine, and serves the result for download. Converted and staged files are
swept after one hour.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("upload-folder", "", "staging directory (env UPLOAD_FOLDER)")
	rootCmd.PersistentFlags().String("converted-folder", "", "output directory (env CONVERTED_FOLDER)")
	rootCmd.PersistentFlags().String("converter-bin", "", "conversion engine executable (env CONVERTER_BIN)")
}

// loadConfig merges .env, the environment and any flags that were set on
// cmd into a Config.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	godotenv.Load()

	v := viper.New()
	for key, flag := range map[string]string{
		"host":             "host",
		"port":             "port",
		"debug":            "debug",
		"upload_folder":    "upload-folder",
		"converted_folder": "converted-folder",
		"converter_bin":    "converter-bin",
	} {
		f := cmd.Flags().Lookup(flag)
		if f == nil || !f.Changed {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return config.Config{}, err
		}
	}

	cfg, err := config.Load(v)
	if err != nil {
		return config.Config{}, err
	}
	if cfg.Debug {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}
	return cfg, nil
}

func main() {
	config.Version = version
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
