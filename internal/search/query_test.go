package search

import (
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steamsearcher/steamsearcher-web/internal/domain"
)

func price(v float64) *float64 { return &v }

func TestParseResultsQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  domain.SearchRequest
	}{
		{
			name:  "no parameters",
			query: "",
			want:  domain.SearchRequest{Query: "", Genres: []string{}, Categories: []string{}},
		},
		{
			name:  "text query",
			query: "q=portal",
			want:  domain.SearchRequest{Query: "portal", Genres: []string{}, Categories: []string{}},
		},
		{
			name:  "comma split drops empties",
			query: "genre=Action,,RPG,&category=,Co-op",
			want:  domain.SearchRequest{Genres: []string{"Action", "RPG"}, Categories: []string{"Co-op"}},
		},
		{
			name:  "escaped comma separator also splits",
			query: "genre=Action%2CRPG",
			want:  domain.SearchRequest{Genres: []string{"Action", "RPG"}, Categories: []string{}},
		},
		{
			name:  "prices",
			query: "price_start=10&price_end=59.99",
			want:  domain.SearchRequest{Genres: []string{}, Categories: []string{}, PriceStart: price(10), PriceEnd: price(59.99)},
		},
		{
			name:  "empty price omitted",
			query: "price_start=10&price_end=",
			want:  domain.SearchRequest{Genres: []string{}, Categories: []string{}, PriceStart: price(10)},
		},
		{
			name:  "unparseable and non-finite prices omitted",
			query: "price_start=cheap&price_end=NaN",
			want:  domain.SearchRequest{Genres: []string{}, Categories: []string{}},
		},
		{
			name:  "unknown keys ignored",
			query: "q=doom&open=2280",
			want:  domain.SearchRequest{Query: "doom", Genres: []string{}, Categories: []string{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			got := ParseResultsQuery(values)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseResultsQuery() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEncodeRequestRoundTrip(t *testing.T) {
	req := domain.SearchRequest{
		Query:      "racing",
		Genres:     []string{"Sports", "Racing"},
		Categories: []string{"Controller Support"},
		PriceStart: price(2.5),
		PriceEnd:   price(40),
	}

	values, err := url.ParseQuery(EncodeRequest(req))
	require.NoError(t, err)

	if diff := cmp.Diff(req, ParseResultsQuery(values)); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDisplayQuery(t *testing.T) {
	tests := []struct {
		name string
		req  domain.SearchRequest
		want string
	}{
		{name: "query wins", req: domain.SearchRequest{Query: "portal", Genres: []string{"Puzzle"}}, want: "portal"},
		{name: "labels joined", req: domain.SearchRequest{Genres: []string{"Action", "RPG"}, Categories: []string{"Co-op"}}, want: "Action, RPG, Co-op"},
		{name: "fallback", req: domain.SearchRequest{PriceStart: price(5)}, want: AllGames},
		{name: "empty labels ignored", req: domain.SearchRequest{Genres: []string{""}}, want: AllGames},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayQuery(tt.req))
		})
	}
}
