package backend

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steamsearcher/steamsearcher-web/internal/domain"
	"github.com/steamsearcher/steamsearcher-web/internal/errors"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewClient(Options{BaseURL: srv.URL, Timeout: 5 * time.Second}, logger)
}

func TestClient_Genres(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/get_genres", r.URL.Path)
		_, _ = w.Write([]byte(`["RPG","Action","RPG"]`))
	}))

	genres, err := client.Genres(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"RPG", "Action", "RPG"}, genres, "client returns labels as sent")
}

func TestClient_Categories(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/get_categories", r.URL.Path)
		_, _ = w.Write([]byte(`["Single-player"]`))
	}))

	categories, err := client.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Single-player"}, categories)
}

func TestClient_SearchBody(t *testing.T) {
	tests := []struct {
		name     string
		req      domain.SearchRequest
		wantBody string
	}{
		{
			name:     "text query only",
			req:      domain.SearchRequest{Query: "portal"},
			wantBody: `{"query":"portal","genre":[],"category":[]}`,
		},
		{
			name:     "genres without query",
			req:      domain.SearchRequest{Genres: []string{"Action", "RPG"}},
			wantBody: `{"query":"","genre":["Action","RPG"],"category":[]}`,
		},
		{
			name:     "price start only",
			req:      domain.SearchRequest{PriceStart: ptr(10)},
			wantBody: `{"query":"","genre":[],"category":[],"price_start":10}`,
		},
		{
			name:     "empty labels dropped",
			req:      domain.SearchRequest{Genres: []string{"", "Indie"}, Categories: []string{""}},
			wantBody: `{"query":"","genre":["Indie"],"category":[]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotBody string
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/api/search", r.URL.Path)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
				b, _ := io.ReadAll(r.Body)
				gotBody = string(b)
				_, _ = w.Write([]byte(`[]`))
			}))

			games, err := client.Search(context.Background(), tt.req)
			require.NoError(t, err)
			assert.Empty(t, games)
			assert.JSONEq(t, tt.wantBody, gotBody)
		})
	}
}

func TestClient_SearchDecodesRecords(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		records := []map[string]any{{
			"id":                 620,
			"name":               "Portal 2",
			"price":              0,
			"pc_requirements":    map[string]string{"minimum": "Windows 7"},
			"mac_requirements":   []any{},
			"linux_requirements": nil,
			"genres":             []string{"Puzzle"},
			"categories":         []string{},
		}}
		_ = json.NewEncoder(w).Encode(records)
	}))

	games, err := client.Search(context.Background(), domain.SearchRequest{Query: "portal"})
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, int64(620), games[0].ID)
	assert.Zero(t, games[0].Price)
	assert.Equal(t, domain.Requirements{"minimum": "Windows 7"}, games[0].PCRequirements)
	assert.Empty(t, games[0].MacRequirements)
}

func TestClient_SearchPlainTextRequirements(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[
			{"id": 1, "name": "Doom", "price": 19.99, "pc_requirements": "OS: Windows 10 Processor: Intel Core i5",
			 "mac_requirements": "", "linux_requirements": "", "genres": ["Action"], "categories": []},
			{"id": 2, "name": "Quake", "price": 4.99, "pc_requirements": "OS: Windows XP",
			 "mac_requirements": "", "linux_requirements": "", "genres": [], "categories": []}
		]`))
	}))

	games, err := client.Search(context.Background(), domain.SearchRequest{Query: "shooter"})
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, domain.Requirements{domain.SingleTier: "OS: Windows 10 Processor: Intel Core i5"}, games[0].PCRequirements)
	assert.Empty(t, games[1].MacRequirements)
}

func TestClient_SearchSkipsUndecodableRecord(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"id": "not-a-number", "name": "Broken"}, {"id": 7, "name": "Fine"}]`))
	}))

	games, err := client.Search(context.Background(), domain.SearchRequest{})
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "Fine", games[0].Name)
}

func TestClient_SearchNullResponse(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`null`))
	}))

	games, err := client.Search(context.Background(), domain.SearchRequest{})
	require.NoError(t, err)
	assert.NotNil(t, games)
	assert.Empty(t, games)
}

func TestClient_UpstreamErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "non-200 status",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, `{"error":"Query parameter is required."}`, http.StatusBadRequest)
			},
		},
		{
			name: "malformed json",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`[{"id":`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.handler)

			_, err := client.Search(context.Background(), domain.SearchRequest{Query: "x"})
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrUpstream)
		})
	}
}

func TestClient_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewClient(Options{BaseURL: url, Timeout: time.Second}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := client.Genres(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrUpstream)
}

func TestClient_ForwardsRequestID(t *testing.T) {
	var gotID string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get(middleware.RequestIDHeader)
		_, _ = w.Write([]byte(`[]`))
	}))

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "host/abc-000001")
	_, err := client.Genres(ctx)
	require.NoError(t, err)
	assert.Equal(t, "host/abc-000001", gotID)
}

func TestClient_CanceledContext(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Search(ctx, domain.SearchRequest{Query: "portal"})
	assert.Error(t, err)
}

func ptr(v float64) *float64 { return &v }
