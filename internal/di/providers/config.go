// Package providers contains dependency injection providers for the Receita server.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/receitaapp/receita-server/internal/config"
	"github.com/receitaapp/receita-server/internal/logger"
)

// ProvideConfig loads the configuration from the flags registered in the injector.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	flags := do.MustInvoke[config.Flags](i)
	return config.LoadConfig(flags)
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	log.Info("Starting Receita server",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"data_path", cfg.Data.BasePath,
		"media_root", cfg.Media.Root,
	)

	return log, nil
}
