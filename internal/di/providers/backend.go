package providers

import (
	"github.com/samber/do/v2"

	"github.com/steamsearcher/steamsearcher-web/internal/backend"
	"github.com/steamsearcher/steamsearcher-web/internal/config"
	"github.com/steamsearcher/steamsearcher-web/internal/filters"
	"github.com/steamsearcher/steamsearcher-web/internal/logger"
	"github.com/steamsearcher/steamsearcher-web/internal/results"
)

// ProvideBackendClient provides the search backend client.
func ProvideBackendClient(i do.Injector) (*backend.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return backend.NewClient(backend.Options{
		BaseURL:           cfg.Backend.BaseURL,
		Timeout:           cfg.Backend.Timeout,
		RequestsPerSecond: cfg.Backend.RequestsPerSecond,
		Burst:             cfg.Backend.Burst,
	}, log.With("component", "backend")), nil
}

// ProvideFilterLoader provides the genre and category loader.
func ProvideFilterLoader(i do.Injector) (*filters.Loader, error) {
	client := do.MustInvoke[*backend.Client](i)
	log := do.MustInvoke[*logger.Logger](i)

	return filters.NewLoader(client, log.Logger), nil
}

// ProvideCoordinator provides the per-client fetch coordinator.
func ProvideCoordinator(i do.Injector) (*results.Coordinator, error) {
	return results.NewCoordinator(), nil
}

// ProvideResultsService provides the results-view search service.
func ProvideResultsService(i do.Injector) (*results.Service, error) {
	client := do.MustInvoke[*backend.Client](i)
	coord := do.MustInvoke[*results.Coordinator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return results.NewService(client, coord, log.Logger), nil
}
