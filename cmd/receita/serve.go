package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/receitaapp/receita-server/internal/di"
	"github.com/receitaapp/receita-server/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flags.Port, "port", "", "Port to listen on (env SERVER_PORT, default 8000)")
	serveCmd.Flags().StringVar(&flags.AccessTokenDuration, "token-duration", "", "Bearer token lifetime, e.g. 720h (env ACCESS_TOKEN_DURATION)")
}

func runServe(_ *cobra.Command, _ []string) error {
	injector := di.NewContainer(flags)

	if err := di.Bootstrap(injector); err != nil {
		return fmt.Errorf("bootstrap server: %w", err)
	}

	log := do.MustInvoke[*logger.Logger](injector)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	// The container shuts providers down in reverse dependency order:
	// the HTTP server drains before the database closes.
	if err := injector.Shutdown(); err != nil {
		log.Error("Shutdown error", "error", err)
		return err
	}

	log.Info("Server stopped")
	return nil
}
