// Package di provides dependency injection configuration for the Receita server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/receitaapp/receita-server/internal/auth"
	"github.com/receitaapp/receita-server/internal/config"
	"github.com/receitaapp/receita-server/internal/di/providers"
	"github.com/receitaapp/receita-server/internal/logger"
	"github.com/receitaapp/receita-server/internal/media/images"
	"github.com/receitaapp/receita-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
// Nothing is built until it is first invoked.
func NewContainer(flags config.Flags) *do.RootScope {
	injector := do.New()

	do.ProvideValue(injector, flags)

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Storage layer
	do.Provide(injector, providers.ProvideImageStorage)
	do.Provide(injector, providers.ProvideImageUploader)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)

	// Business services
	do.Provide(injector, providers.ProvideValidator)
	do.Provide(injector, providers.ProvideIdentityService)
	do.Provide(injector, providers.ProvideTagService)
	do.Provide(injector, providers.ProvideIngredientService)
	do.Provide(injector, providers.ProvideRecipeService)
	do.Provide(injector, providers.ProvideImageService)

	// Server
	do.Provide(injector, providers.ProvideMetrics)
	do.Provide(injector, providers.ProvideAPIServer)
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap builds every service and starts the HTTP server.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*logger.Logger](injector)
	if _, err := do.Invoke[providers.AuthKey](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*images.Storage](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*auth.TokenService](injector)

	_ = do.MustInvoke[*service.IdentityService](injector)
	_ = do.MustInvoke[*service.RecipeService](injector)
	_ = do.MustInvoke[*service.ImageService](injector)

	_, err := do.Invoke[*providers.HTTPServerHandle](injector)
	return err
}
