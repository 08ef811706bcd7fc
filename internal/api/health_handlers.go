package api

import (
	"net/http"

	"github.com/steamsearcher/steamsearcher-web/internal/http/response"
)

// handleHealthCheck returns server health status and the number of grid searches running.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]any{
		"status":             "healthy",
		"searches_in_flight": s.results.InFlight(),
	}, s.logger.Logger)
}
