package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/steamsearcher/steamsearcher-web/internal/card"
	"github.com/steamsearcher/steamsearcher-web/internal/domain"
	domainerrors "github.com/steamsearcher/steamsearcher-web/internal/errors"
	"github.com/steamsearcher/steamsearcher-web/internal/id"
	"github.com/steamsearcher/steamsearcher-web/internal/results"
	"github.com/steamsearcher/steamsearcher-web/internal/search"
	"github.com/steamsearcher/steamsearcher-web/internal/validation"
)

// Form events posted to /.
const (
	eventToggleGenre    = "toggle_genre"
	eventToggleCategory = "toggle_category"
	eventAction         = "action"
)

// Grid query parameters beyond the results-view keys.
const (
	paramView = "view"
	paramOpen = "open"
)

// searchPageData contains data for the search form template.
type searchPageData struct {
	Title     string
	Form      *search.Form
	Options   domain.FilterOptions
	Errors    map[string]string
	CanSubmit bool
}

// resultsPageData contains data for the results shell template.
type resultsPageData struct {
	Title      string
	QueryLabel string
	RefineURL  string
	GridURL    string
	Loading    bool
}

// gridData contains data for the results grid fragment.
type gridData struct {
	QueryLabel  string
	Count       int
	Cards       []card.View
	Unavailable bool
	RateLimited bool
}

// handleSearchPage renders the search form, prefilled from results-view keys.
// GET /
func (s *Server) handleSearchPage(w http.ResponseWriter, r *http.Request) {
	form := search.FormFromQuery(r.URL.Query())
	s.renderSearch(w, r, http.StatusOK, &form, nil)
}

// handleSearchSubmit applies one form event to the posted state.
// POST /
func (s *Server) handleSearchSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	form := formFromPost(r.PostForm)

	switch {
	case r.PostForm.Has(eventToggleGenre):
		form.ToggleGenre(r.PostForm.Get(eventToggleGenre))
		s.renderSearch(w, r, http.StatusOK, &form, nil)
		return
	case r.PostForm.Has(eventToggleCategory):
		form.ToggleCategory(r.PostForm.Get(eventToggleCategory))
		s.renderSearch(w, r, http.StatusOK, &form, nil)
		return
	}

	// Anything else is a search, including implicit submission with Enter.
	if !form.CanSubmit() {
		s.renderSearch(w, r, http.StatusOK, &form, nil)
		return
	}
	if err := s.validator.Validate(form); err != nil {
		if !errors.Is(err, domainerrors.ErrValidation) {
			s.logger.Error("failed to validate search form", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		s.renderSearch(w, r, http.StatusUnprocessableEntity, &form, validation.FieldErrors(err))
		return
	}

	http.Redirect(w, r, form.ResultsURL(), http.StatusSeeOther)
}

func (s *Server) renderSearch(w http.ResponseWriter, r *http.Request, status int, form *search.Form, fieldErrors map[string]string) {
	s.pages.Render(w, status, ViewSearch, &searchPageData{
		Title:     "Search",
		Form:      form,
		Options:   s.filters.Load(r.Context()),
		Errors:    fieldErrors,
		CanSubmit: form.CanSubmit(),
	})
}

// formFromPost reads the posted form state. Selected labels arrive as repeated fields.
func formFromPost(values url.Values) search.Form {
	return search.Form{
		Query:      values.Get(search.KeyQuery),
		Genres:     domain.CompactLabels(values[search.KeyGenre]),
		Categories: domain.CompactLabels(values[search.KeyCategory]),
		PriceStart: values.Get(search.KeyPriceStart),
		PriceEnd:   values.Get(search.KeyPriceEnd),
	}
}

// handleResultsPage renders the results shell; the grid loads separately.
// Each render mints a view id so searches from other tabs never supersede this one.
// GET /results
func (s *Server) handleResultsPage(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page := s.results.Header(query)
	qs := search.EncodeRequest(page.Request)

	gridQS := qs
	if viewID, err := id.NewViewID(); err != nil {
		s.logger.Warn("failed to issue view id, grid search runs uncoordinated", "error", err)
	} else {
		gridQS = appendParam(gridQS, paramView, viewID)
	}
	gridQS = appendParam(gridQS, paramOpen, query.Get(paramOpen))

	s.pages.Render(w, http.StatusOK, ViewResults, &resultsPageData{
		Title:      page.QueryLabel,
		QueryLabel: page.QueryLabel,
		RefineURL:  withQuery("/", qs),
		GridURL:    withQuery("/results/grid", gridQS),
		Loading:    true,
	})
}

func appendParam(qs, key, value string) string {
	if value == "" {
		return qs
	}
	param := key + "=" + url.QueryEscape(value)
	if qs == "" {
		return param
	}
	return qs + "&" + param
}

func withQuery(path, qs string) string {
	if qs == "" {
		return path
	}
	return path + "?" + qs
}

// handleResultsGrid runs the search and renders the grid fragment.
// GET /results/grid
func (s *Server) handleResultsGrid(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	page, err := s.results.Run(ctx, viewKey(ctx, query.Get(paramView)), query)
	switch {
	case errors.Is(err, results.ErrSuperseded):
		w.WriteHeader(http.StatusNoContent)
		return
	case errors.Is(err, context.Canceled) && ctx.Err() != nil:
		s.logger.Debug("client went away during search", "path", r.URL.Path)
		return
	case errors.Is(err, domainerrors.ErrUpstream):
		s.logger.Error("search failed", "error", err, "query", page.QueryLabel)
		s.renderUnavailable(w, http.StatusBadGateway, page.QueryLabel, false)
		return
	case err != nil:
		s.logger.Error("search ended unexpectedly", "error", err, "query", page.QueryLabel)
		s.renderUnavailable(w, http.StatusInternalServerError, page.QueryLabel, false)
		return
	}

	s.pages.Render(w, http.StatusOK, ViewGrid, &gridData{
		QueryLabel: page.QueryLabel,
		Count:      page.Count(),
		Cards:      cardViews(page.Games, query.Get(paramOpen)),
	})
}

// rejectGrid answers a rate-limited grid fetch with the grid fragment, so the
// page shows a readable state instead of a JSON envelope.
func (s *Server) rejectGrid(w http.ResponseWriter, r *http.Request) {
	label := s.results.Header(r.URL.Query()).QueryLabel
	s.renderUnavailable(w, http.StatusTooManyRequests, label, true)
}

func (s *Server) renderUnavailable(w http.ResponseWriter, status int, queryLabel string, rateLimited bool) {
	s.pages.Render(w, status, ViewGrid, &gridData{
		QueryLabel:  queryLabel,
		Unavailable: true,
		RateLimited: rateLimited,
	})
}

// cardViews builds one card per record. openID names a card whose overlay starts open.
func cardViews(games []domain.GameRecord, openID string) []card.View {
	open, err := strconv.ParseInt(openID, 10, 64)
	hasOpen := err == nil

	views := make([]card.View, 0, len(games))
	for i := range games {
		var state card.State
		if hasOpen && games[i].ID == open {
			state.Toggle(true)
		}
		views = append(views, card.New(&games[i], state))
	}
	return views
}
