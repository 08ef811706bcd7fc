// Package filters loads the selectable genre and category labels for the search form.
package filters

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/steamsearcher/steamsearcher-web/internal/domain"
)

// Source is the subset of the backend client the loader needs.
type Source interface {
	Genres(ctx context.Context) ([]string, error)
	Categories(ctx context.Context) ([]string, error)
}

// Loader fetches filter options from a Source.
type Loader struct {
	source Source
	logger *slog.Logger
}

// NewLoader creates a Loader.
func NewLoader(source Source, logger *slog.Logger) *Loader {
	return &Loader{source: source, logger: logger}
}

// Load fetches genres and categories concurrently.
//
// A failure of either call is logged and yields empty option lists for both, so the
// search form stays usable without filter choices. Load never returns an error.
func (l *Loader) Load(ctx context.Context) domain.FilterOptions {
	var genres, categories []string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		genres, err = l.source.Genres(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = l.source.Categories(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		l.logger.Warn("failed to load filter options, continuing without filters", "error", err)
		return domain.NewFilterOptions(nil, nil)
	}

	opts := domain.NewFilterOptions(genres, categories)
	l.logger.Debug("filter options loaded",
		"genres", len(opts.Genres),
		"categories", len(opts.Categories),
	)
	return opts
}
