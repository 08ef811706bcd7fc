package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/steamsearcher/steamsearcher-web/internal/api"
	"github.com/steamsearcher/steamsearcher-web/internal/config"
	"github.com/steamsearcher/steamsearcher-web/internal/filters"
	"github.com/steamsearcher/steamsearcher-web/internal/logger"
	"github.com/steamsearcher/steamsearcher-web/internal/ratelimit"
	"github.com/steamsearcher/steamsearcher-web/internal/results"
	"github.com/steamsearcher/steamsearcher-web/internal/validation"
)

// RendererHandle wraps api.Renderer with Shutdownable.
type RendererHandle struct {
	*api.Renderer
}

// Shutdown implements do.Shutdownable.
func (h *RendererHandle) Shutdown() error {
	return h.Close()
}

// ProvideRenderer provides the page renderer, hot-reloading from disk when a template dir is set.
func ProvideRenderer(i do.Injector) (*RendererHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	r, err := api.NewRenderer(cfg.Web.TemplateDir, log.Logger)
	if err != nil {
		return nil, err
	}
	if err := r.Watch(context.Background()); err != nil {
		log.Warn("Template hot reload disabled", "dir", cfg.Web.TemplateDir, "error", err)
	}

	return &RendererHandle{Renderer: r}, nil
}

// RateLimiterHandle wraps the inbound limiter with Shutdownable.
type RateLimiterHandle struct {
	*ratelimit.KeyedRateLimiter
}

// Shutdown implements do.Shutdownable.
func (h *RateLimiterHandle) Shutdown() error {
	h.Stop()
	return nil
}

// ProvideRateLimiter provides the per-IP limiter for search routes.
func ProvideRateLimiter(i do.Injector) (*RateLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)

	limiter := ratelimit.New(ratelimit.PerMinute(cfg.RateLimit.PerMinute), cfg.RateLimit.Burst)
	return &RateLimiterHandle{KeyedRateLimiter: limiter}, nil
}

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server and starts it in the background.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	loader := do.MustInvoke[*filters.Loader](i)
	svc := do.MustInvoke[*results.Service](i)
	pages := do.MustInvoke[*RendererHandle](i)
	limiter := do.MustInvoke[*RateLimiterHandle](i)

	handler := api.NewServer(api.Deps{
		Filters:     loader,
		Results:     svc,
		Pages:       pages.Renderer,
		Limiter:     limiter.KeyedRateLimiter,
		Validator:   validation.New(),
		CORSOrigins: cfg.Web.CORSOrigins,
		Logger:      log,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv}, nil
}
