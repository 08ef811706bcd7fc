package results

import (
	"context"
	"errors"
	"log/slog"
	"net/url"

	"github.com/steamsearcher/steamsearcher-web/internal/domain"
	domainerrors "github.com/steamsearcher/steamsearcher-web/internal/errors"
	"github.com/steamsearcher/steamsearcher-web/internal/search"
)

// ErrSuperseded is returned when a newer fetch for the same view replaced this one.
var ErrSuperseded = errors.New("search superseded by a newer request")

// Searcher runs one backend search.
type Searcher interface {
	Search(ctx context.Context, req domain.SearchRequest) ([]domain.GameRecord, error)
}

// Page is the outcome of one results-view search.
type Page struct {
	Request    domain.SearchRequest
	QueryLabel string
	Games      []domain.GameRecord
}

// Count returns the number of games found.
func (p Page) Count() int {
	return len(p.Games)
}

// Empty reports whether the search found nothing.
func (p Page) Empty() bool {
	return len(p.Games) == 0
}

// Service issues results-view searches through the coordinator.
type Service struct {
	searcher Searcher
	coord    *Coordinator
	logger   *slog.Logger
}

// NewService creates a results service.
func NewService(searcher Searcher, coord *Coordinator, logger *slog.Logger) *Service {
	return &Service{searcher: searcher, coord: coord, logger: logger}
}

// Header returns the page for the results shell without searching.
func (s *Service) Header(values url.Values) Page {
	req := search.ParseResultsQuery(values)
	return Page{Request: req, QueryLabel: search.DisplayQuery(req)}
}

// InFlight returns the number of coordinated searches still running.
func (s *Service) InFlight() int {
	return s.coord.InFlight()
}

// Run parses the results-view parameters and issues exactly one backend search.
// When viewKey is non-empty the fetch is coordinated: a newer Run for the same
// view cancels this one and this call returns ErrSuperseded.
func (s *Service) Run(ctx context.Context, viewKey string, values url.Values) (Page, error) {
	page := s.Header(values)

	var (
		games []domain.GameRecord
		err   error
	)
	if viewKey == "" {
		games, err = s.searcher.Search(ctx, page.Request)
	} else {
		fetchCtx, ticket := s.coord.Begin(ctx, viewKey)
		games, err = s.searcher.Search(fetchCtx, page.Request)
		if !ticket.Finish() {
			s.logger.Debug("discarding stale search",
				"view", viewKey,
				"epoch", ticket.Epoch(),
			)
			return page, ErrSuperseded
		}
	}

	if err != nil {
		if ctx.Err() != nil {
			return page, ctx.Err()
		}
		return page, domainerrors.Wrap(err, domainerrors.CodeUpstream, "search unavailable")
	}

	page.Games = games
	return page, nil
}
