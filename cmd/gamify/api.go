package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gamify/internal/server"
)

var flagHTTPAddr string

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the JSON HTTP API",
	Long: `Serve the design catalog and the move engine over HTTP.

Endpoints:
  GET  /api/health        - Liveness check
  GET  /api/designs       - Design summaries
  GET  /api/designs/{id}  - One design as a canonical bundle
  POST /api/move          - Bundle + "direction" (+ "seed") -> grid, player, rule
  POST /api/check         - Bundle -> validation report

Examples:
  gamify api
  gamify api --http :9090
  curl -s localhost:8080/api/designs`,
	Args: cobra.NoArgs,
	RunE: runAPI,
}

func init() {
	apiCmd.Flags().StringVar(&flagHTTPAddr, "http", "", "HTTP listen address (host:port)")
}

func runAPI(cmd *cobra.Command, _ []string) error {
	httpCfg := cfg.HTTP
	if cmd.Flags().Changed("http") {
		httpCfg.Addr = flagHTTPAddr
	}

	store := openStoreOrWarn()
	if store != nil {
		defer store.Close()
	}

	srv := server.New(server.Config{
		Addr:            httpCfg.Addr,
		ReadTimeout:     httpCfg.ReadTimeout,
		WriteTimeout:    httpCfg.WriteTimeout,
		ShutdownTimeout: httpCfg.ShutdownTimeout,
	}, newCatalog(store), logger.WithPrefix("gamify-api"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.ListenAndServe(ctx)
}
