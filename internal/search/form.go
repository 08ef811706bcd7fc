// Package search holds the search form state and the results-view URL format shared by both views.
//
// The search form serializes its state into results-view query parameters; the results view
// parses those parameters back into a domain.SearchRequest. ParseResultsQuery(ResultsURL(f))
// equals f.Request() for every form, apart from empty labels which are dropped on both sides.
package search

import (
	"slices"
	"strings"

	"github.com/steamsearcher/steamsearcher-web/internal/domain"
)

// Results-view query parameter keys, in the order they are written.
const (
	KeyQuery      = "q"
	KeyGenre      = "genre"
	KeyCategory   = "category"
	KeyPriceStart = "price_start"
	KeyPriceEnd   = "price_end"
)

// ResultsPath is the path of the results view.
const ResultsPath = "/results"

// Form is the state of the search form.
// Genres and Categories are ordered sets: toggling appends or removes, never reorders.
type Form struct {
	Query      string   `json:"q" validate:"max=200" doc:"Free-text query"`
	Genres     []string `json:"genre" doc:"Selected genre labels, in selection order"`
	Categories []string `json:"category" doc:"Selected category labels, in selection order"`
	PriceStart string   `json:"price_start" validate:"omitempty,price" doc:"Minimum price, as typed"`
	PriceEnd   string   `json:"price_end" validate:"omitempty,price" doc:"Maximum price, as typed"`
}

// ToggleGenre adds the genre if absent, removes it if present.
func (f *Form) ToggleGenre(label string) {
	f.Genres = toggle(f.Genres, label)
}

// ToggleCategory adds the category if absent, removes it if present.
func (f *Form) ToggleCategory(label string) {
	f.Categories = toggle(f.Categories, label)
}

// HasGenre reports whether the genre is selected.
func (f *Form) HasGenre(label string) bool {
	return slices.Contains(f.Genres, label)
}

// HasCategory reports whether the category is selected.
func (f *Form) HasCategory(label string) bool {
	return slices.Contains(f.Categories, label)
}

func toggle(set []string, label string) []string {
	if label == "" {
		return set
	}
	if i := slices.Index(set, label); i >= 0 {
		return slices.Delete(slices.Clone(set), i, i+1)
	}
	return append(slices.Clone(set), label)
}

// CanSubmit reports whether the form has anything to search for: a query, a selected
// genre or category, or a price bound. Submitting an empty form is a no-op.
func (f *Form) CanSubmit() bool {
	return strings.TrimSpace(f.Query) != "" ||
		len(domain.CompactLabels(f.Genres)) > 0 ||
		len(domain.CompactLabels(f.Categories)) > 0 ||
		strings.TrimSpace(f.PriceStart) != "" ||
		strings.TrimSpace(f.PriceEnd) != ""
}

// ResultsURL returns the results-view URL for the current state.
// Keys with empty values are omitted; with nothing set the bare results path is returned.
func (f *Form) ResultsURL() string {
	qs := EncodeQuery(
		strings.TrimSpace(f.Query),
		domain.CompactLabels(f.Genres),
		domain.CompactLabels(f.Categories),
		strings.TrimSpace(f.PriceStart),
		strings.TrimSpace(f.PriceEnd),
	)
	if qs == "" {
		return ResultsPath
	}
	return ResultsPath + "?" + qs
}

// Request returns the search request the results view will build from ResultsURL.
func (f *Form) Request() domain.SearchRequest {
	return domain.SearchRequest{
		Query:      strings.TrimSpace(f.Query),
		Genres:     domain.CompactLabels(f.Genres),
		Categories: domain.CompactLabels(f.Categories),
		PriceStart: parsePrice(f.PriceStart),
		PriceEnd:   parsePrice(f.PriceEnd),
	}
}
