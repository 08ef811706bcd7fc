package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/danielgtaylor/huma/v2"

	"github.com/steamsearcher/steamsearcher-web/internal/card"
	"github.com/steamsearcher/steamsearcher-web/internal/domain"
	domainerrors "github.com/steamsearcher/steamsearcher-web/internal/errors"
	"github.com/steamsearcher/steamsearcher-web/internal/results"
	"github.com/steamsearcher/steamsearcher-web/internal/search"
)

func (s *Server) registerFilterRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getFilters",
		Method:      http.MethodGet,
		Path:        "/api/v1/filters",
		Summary:     "Filter options",
		Description: "Selectable genre and category labels. Both lists are empty when the backend is unavailable.",
		Tags:        []string{"Search"},
	}, s.handleGetFilters)
}

func (s *Server) registerResultsRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getResults",
		Method:      http.MethodGet,
		Path:        "/api/v1/results",
		Summary:     "Search games",
		Description: "Runs one backend search for the results-view parameters and returns card views.",
		Tags:        []string{"Search"},
	}, s.handleGetResults)

	huma.Register(s.api, huma.Operation{
		OperationID: "buildResultsURL",
		Method:      http.MethodPost,
		Path:        "/api/v1/results-url",
		Summary:     "Build results URL",
		Description: "Serializes search form state into the results-view URL.",
		Tags:        []string{"Search"},
	}, s.handleBuildResultsURL)
}

// === DTOs ===

// FiltersOutput wraps the filter options for Huma.
type FiltersOutput struct {
	Body domain.FilterOptions
}

// ResultsInput carries the results-view parameters.
type ResultsInput struct {
	Query      string `query:"q" maxLength:"200" doc:"Free-text query"`
	Genre      string `query:"genre" doc:"Comma-separated genre labels"`
	Category   string `query:"category" doc:"Comma-separated category labels"`
	PriceStart string `query:"price_start" doc:"Minimum price"`
	PriceEnd   string `query:"price_end" doc:"Maximum price"`
	Open       string `query:"open" doc:"Game id whose details start open"`
	View       string `query:"view" doc:"Results-view id; a newer search with the same id supersedes this one"`
}

func (in *ResultsInput) values() url.Values {
	v := url.Values{}
	set := func(key, value string) {
		if value != "" {
			v.Set(key, value)
		}
	}
	set(search.KeyQuery, in.Query)
	set(search.KeyGenre, in.Genre)
	set(search.KeyCategory, in.Category)
	set(search.KeyPriceStart, in.PriceStart)
	set(search.KeyPriceEnd, in.PriceEnd)
	return v
}

// ResultsResponse contains one page of search results.
type ResultsResponse struct {
	QueryLabel string      `json:"query_label" doc:"Query, else selected labels, else All Games"`
	Count      int         `json:"count" doc:"Number of games found"`
	Games      []card.View `json:"games" doc:"Card views in backend order"`
}

// ResultsOutput wraps the results response for Huma.
type ResultsOutput struct {
	Body ResultsResponse
}

// ResultsURLInput carries search form state.
type ResultsURLInput struct {
	Body struct {
		Query      string   `json:"q,omitempty" doc:"Free-text query"`
		Genres     []string `json:"genre,omitempty" doc:"Selected genres, in selection order"`
		Categories []string `json:"category,omitempty" doc:"Selected categories, in selection order"`
		PriceStart string   `json:"price_start,omitempty" doc:"Minimum price"`
		PriceEnd   string   `json:"price_end,omitempty" doc:"Maximum price"`
	}
}

// ResultsURLResponse is the serialized results-view location.
type ResultsURLResponse struct {
	URL       string `json:"url" doc:"Results-view URL"`
	CanSubmit bool   `json:"can_submit" doc:"False when the form holds nothing to search for"`
}

// ResultsURLOutput wraps the results URL response for Huma.
type ResultsURLOutput struct {
	Body ResultsURLResponse
}

// === Handlers ===

func (s *Server) handleGetFilters(ctx context.Context, _ *struct{}) (*FiltersOutput, error) {
	return &FiltersOutput{Body: s.filters.Load(ctx)}, nil
}

func (s *Server) handleGetResults(ctx context.Context, input *ResultsInput) (*ResultsOutput, error) {
	page, err := s.results.Run(ctx, viewKey(ctx, input.View), input.values())
	if err != nil {
		if errors.Is(err, results.ErrSuperseded) {
			return nil, domainerrors.Conflict(err.Error())
		}
		return nil, err
	}

	return &ResultsOutput{Body: ResultsResponse{
		QueryLabel: page.QueryLabel,
		Count:      page.Count(),
		Games:      cardViews(page.Games, input.Open),
	}}, nil
}

func (s *Server) handleBuildResultsURL(_ context.Context, input *ResultsURLInput) (*ResultsURLOutput, error) {
	form := search.Form{
		Query:      input.Body.Query,
		Genres:     input.Body.Genres,
		Categories: input.Body.Categories,
		PriceStart: input.Body.PriceStart,
		PriceEnd:   input.Body.PriceEnd,
	}
	if err := s.validator.Validate(form); err != nil {
		return nil, err
	}

	return &ResultsURLOutput{Body: ResultsURLResponse{
		URL:       form.ResultsURL(),
		CanSubmit: form.CanSubmit(),
	}}, nil
}
