package response

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/steamsearcher/steamsearcher-web/internal/errors"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func decode(t *testing.T, w *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestJSON(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		wantSuccess bool
	}{
		{name: "ok", status: http.StatusOK, wantSuccess: true},
		{name: "client error", status: http.StatusNotFound, wantSuccess: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			JSON(w, tt.status, map[string]string{"status": "ok"}, discard())

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

			env := decode(t, w)
			assert.Equal(t, tt.wantSuccess, env.Success)
			assert.NotNil(t, env.Data)
		})
	}
}

func TestSuccess_NilLogger(t *testing.T) {
	w := httptest.NewRecorder()
	Success(w, "healthy", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decode(t, w).Data)
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{
			name:       "validation",
			err:        domainerrors.ValidationWithDetails("validation failed", map[string]string{"price_start": "must be a non-negative number"}),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "VALIDATION",
			wantMsg:    "validation failed",
		},
		{
			name:       "upstream",
			err:        domainerrors.Wrap(errors.New("connection refused"), domainerrors.CodeUpstream, "search unavailable"),
			wantStatus: http.StatusBadGateway,
			wantCode:   "UPSTREAM",
			wantMsg:    "search unavailable",
		},
		{
			name:       "rate limited",
			err:        domainerrors.RateLimited("Too many requests. Please try again later."),
			wantStatus: http.StatusTooManyRequests,
			wantCode:   "RATE_LIMITED",
			wantMsg:    "Too many requests. Please try again later.",
		},
		{
			name:       "unknown",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL",
			wantMsg:    "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			HandleError(w, tt.err, discard())

			assert.Equal(t, tt.wantStatus, w.Code)
			env := decode(t, w)
			assert.False(t, env.Success)
			assert.Equal(t, tt.wantCode, env.Code)
			assert.Equal(t, tt.wantMsg, env.Error)
		})
	}
}

func TestHandleError_IncludesDetails(t *testing.T) {
	w := httptest.NewRecorder()
	HandleError(w, domainerrors.ValidationWithDetails("validation failed", map[string]string{"q": "too long"}), nil)

	env := decode(t, w)
	assert.Equal(t, map[string]any{"q": "too long"}, env.Details)
}
