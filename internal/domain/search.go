package domain

import (
	"slices"
	"strings"
)

// SearchRequest is the normalized filter criteria sent to the backend's search endpoint.
type SearchRequest struct {
	Query      string   `json:"query"`
	Genres     []string `json:"genre"`
	Categories []string `json:"category"`
	PriceStart *float64 `json:"price_start,omitempty"`
	PriceEnd   *float64 `json:"price_end,omitempty"`
}

// Normalize drops empty labels and guarantees non-nil label slices, so the
// JSON body always carries arrays.
func (r SearchRequest) Normalize() SearchRequest {
	r.Genres = CompactLabels(r.Genres)
	r.Categories = CompactLabels(r.Categories)
	return r
}

// CompactLabels returns labels without empty strings, keeping order. Never returns nil.
func CompactLabels(labels []string) []string {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}

// FilterOptions is the universe of selectable genre and category labels.
type FilterOptions struct {
	Genres     []string `json:"genres"`
	Categories []string `json:"categories"`
}

// NewFilterOptions dedupes and lexicographically sorts both label sets.
// Blank labels are dropped.
func NewFilterOptions(genres, categories []string) FilterOptions {
	return FilterOptions{
		Genres:     sortedSet(genres),
		Categories: sortedSet(categories),
	}
}

// Empty reports whether there is nothing to choose from.
func (o FilterOptions) Empty() bool {
	return len(o.Genres) == 0 && len(o.Categories) == 0
}

func sortedSet(labels []string) []string {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
