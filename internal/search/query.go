package search

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/steamsearcher/steamsearcher-web/internal/domain"
)

// AllGames is the label shown when a search has neither query nor label filters.
const AllGames = "All Games"

// EncodeQuery writes results-view parameters in the fixed order q, genre, category,
// price_start, price_end. Each value is query-escaped; the commas separating labels
// stay literal so the URL reads genre=Action,RPG.
func EncodeQuery(query string, genres, categories []string, priceStart, priceEnd string) string {
	var b strings.Builder

	add := func(key, value string) {
		if value == "" {
			return
		}
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(value)
	}

	add(KeyQuery, url.QueryEscape(query))
	add(KeyGenre, joinEscaped(genres))
	add(KeyCategory, joinEscaped(categories))
	add(KeyPriceStart, url.QueryEscape(priceStart))
	add(KeyPriceEnd, url.QueryEscape(priceEnd))

	return b.String()
}

func joinEscaped(labels []string) string {
	escaped := make([]string, 0, len(labels))
	for _, l := range labels {
		if l != "" {
			escaped = append(escaped, url.QueryEscape(l))
		}
	}
	return strings.Join(escaped, ",")
}

// ParseResultsQuery builds the search request from results-view query parameters.
// Missing keys default to empty; labels are comma-split with empty entries dropped;
// prices are kept only when they parse as finite numbers.
func ParseResultsQuery(values url.Values) domain.SearchRequest {
	return domain.SearchRequest{
		Query:      values.Get(KeyQuery),
		Genres:     splitLabels(values.Get(KeyGenre)),
		Categories: splitLabels(values.Get(KeyCategory)),
		PriceStart: parsePrice(values.Get(KeyPriceStart)),
		PriceEnd:   parsePrice(values.Get(KeyPriceEnd)),
	}
}

// FormFromQuery prefills a search form from results-view query parameters.
// Used by the "refine search" link on the results view.
func FormFromQuery(values url.Values) Form {
	return Form{
		Query:      values.Get(KeyQuery),
		Genres:     splitLabels(values.Get(KeyGenre)),
		Categories: splitLabels(values.Get(KeyCategory)),
		PriceStart: values.Get(KeyPriceStart),
		PriceEnd:   values.Get(KeyPriceEnd),
	}
}

// EncodeRequest writes a search request back into results-view parameters.
func EncodeRequest(req domain.SearchRequest) string {
	return EncodeQuery(req.Query, req.Genres, req.Categories, formatPrice(req.PriceStart), formatPrice(req.PriceEnd))
}

// DisplayQuery is the label shown above the results: the query, else the selected
// labels joined with ", ", else AllGames.
func DisplayQuery(req domain.SearchRequest) string {
	if req.Query != "" {
		return req.Query
	}
	labels := make([]string, 0, len(req.Genres)+len(req.Categories))
	labels = append(labels, req.Genres...)
	labels = append(labels, req.Categories...)
	if joined := strings.Join(domain.CompactLabels(labels), ", "); joined != "" {
		return joined
	}
	return AllGames
}

func splitLabels(raw string) []string {
	if raw == "" {
		return []string{}
	}
	return domain.CompactLabels(strings.Split(raw, ","))
}

func parsePrice(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func formatPrice(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}
