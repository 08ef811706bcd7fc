// Package di provides dependency injection configuration for the SteamSearcher web front-end.
package di

import (
	"github.com/samber/do/v2"

	"github.com/steamsearcher/steamsearcher-web/internal/backend"
	"github.com/steamsearcher/steamsearcher-web/internal/config"
	"github.com/steamsearcher/steamsearcher-web/internal/di/providers"
	"github.com/steamsearcher/steamsearcher-web/internal/filters"
	"github.com/steamsearcher/steamsearcher-web/internal/logger"
	"github.com/steamsearcher/steamsearcher-web/internal/results"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Backend
	do.Provide(injector, providers.ProvideBackendClient)
	do.Provide(injector, providers.ProvideFilterLoader)
	do.Provide(injector, providers.ProvideCoordinator)
	do.Provide(injector, providers.ProvideResultsService)

	// Web
	do.Provide(injector, providers.ProvideRenderer)
	do.Provide(injector, providers.ProvideRateLimiter)
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and starts the HTTP server.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*backend.Client](injector)
	_ = do.MustInvoke[*filters.Loader](injector)
	_ = do.MustInvoke[*results.Coordinator](injector)
	_ = do.MustInvoke[*results.Service](injector)
	_ = do.MustInvoke[*providers.RendererHandle](injector)
	_ = do.MustInvoke[*providers.RateLimiterHandle](injector)

	if _, err := do.Invoke[*providers.HTTPServerHandle](injector); err != nil {
		return err
	}
	return nil
}
