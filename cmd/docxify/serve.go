package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/coah80/docxify/internal/server"
	"github.com/coah80/docxify/internal/util"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		server.PrintBanner(cfg)
		util.CheckDependencies(cfg.ConverterBin)

		srv, err := server.New(cfg)
		if err != nil {
			return err
		}
		if !srv.Converter.Available() {
			log.Printf("[WARN] %s not found on PATH, every conversion will fail", srv.Converter.Bin())
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := srv.Run(ctx); err != nil {
			return fmt.Errorf("server: %w", err)
		}
		fmt.Println("Server stopped.")
		return nil
	},
}

func init() {
	serveCmd.Flags().String("host", "", "bind host (env HOST)")
	serveCmd.Flags().String("port", "", "bind port (env PORT)")
	serveCmd.Flags().Bool("debug", false, "debug logging (env APP_ENV=development)")

	rootCmd.AddCommand(serveCmd)
}
