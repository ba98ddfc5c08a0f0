package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/goatkit/novadmin/internal/config"
	"github.com/goatkit/novadmin/internal/dateutil"
	"github.com/goatkit/novadmin/internal/mockapi"
)

var flagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the mock admin backend",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "listen address, overrides server.addr")
}

func applyDates(cfg *config.Config) error {
	cal, err := cfg.Dates.Calendar()
	if err != nil {
		return err
	}
	dateutil.SetDefault(cal)
	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	loader := config.NewLoader(flagConfig)
	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if flagAddr != "" {
		cfg.Server.Addr = flagAddr
	}
	if err := applyDates(cfg); err != nil {
		return err
	}
	config.Set(cfg)
	gin.SetMode(cfg.Server.Mode)

	if flagConfig != "" {
		log.Printf("Loaded configuration from %s", flagConfig)
		loader.Watch(func(next *config.Config) {
			// The listener and token settings are fixed for the process;
			// only date rendering follows the file.
			if err := applyDates(next); err != nil {
				log.Printf("Warning: keeping previous date settings: %v", err)
				return
			}
			next.Server.Addr = cfg.Server.Addr
			config.Set(next)
		})
	}

	srv, err := mockapi.NewServer(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx)
}
