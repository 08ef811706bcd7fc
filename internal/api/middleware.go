package api

import (
	"context"
	"net"
	"net/http"
	"time"

	domainerrors "github.com/steamsearcher/steamsearcher-web/internal/errors"
	"github.com/steamsearcher/steamsearcher-web/internal/http/response"
	"github.com/steamsearcher/steamsearcher-web/internal/id"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const contextKeyClientID contextKey = "client_id"

// ClientCookie holds the browser's client id.
const ClientCookie = "ss_client"

const clientCookieMaxAge = 365 * 24 * time.Hour

// clientID attaches the browser's client id to the request context,
// issuing a new one when the cookie is missing or malformed.
func (s *Server) clientID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var clientID string
		if c, err := r.Cookie(ClientCookie); err == nil && id.IsClientID(c.Value) {
			clientID = c.Value
		} else {
			issued, err := id.NewClientID()
			if err != nil {
				s.logger.Error("failed to issue client id", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			clientID = issued
			http.SetCookie(w, &http.Cookie{
				Name:     ClientCookie,
				Value:    clientID,
				Path:     "/",
				MaxAge:   int(clientCookieMaxAge.Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), contextKeyClientID, clientID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// getClientID returns the client id attached by the clientID middleware, or "".
func getClientID(ctx context.Context) string {
	if v, ok := ctx.Value(contextKeyClientID).(string); ok {
		return v
	}
	return ""
}

// viewKey scopes a results-view id to the browser's client id. Searches sharing a
// key supersede each other; a missing or malformed view id leaves the search uncoordinated.
func viewKey(ctx context.Context, viewID string) string {
	if !id.IsViewID(viewID) {
		return ""
	}
	if clientID := getClientID(ctx); clientID != "" {
		return clientID + "/" + viewID
	}
	return viewID
}

const rateLimitMessage = "Too many requests. Please try again later."

// rateLimit rejects requests once the caller's IP exhausts its allowance.
// reject writes the refusal in the format the route normally answers with.
func (s *Server) rateLimit(reject http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if s.limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := getClientIP(r)

			if !s.limiter.Allow(key) {
				s.logger.Warn("rate limit exceeded",
					"ip", key,
					"path", r.URL.Path,
				)
				w.Header().Set("Retry-After", "60")
				reject(w, r)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// rejectJSON answers a rate-limited API call with the JSON error envelope.
func (s *Server) rejectJSON(w http.ResponseWriter, _ *http.Request) {
	response.HandleError(w, domainerrors.RateLimited(rateLimitMessage), s.logger.Logger)
}

// getClientIP extracts the client IP from the request.
// middleware.RealIP has already folded X-Forwarded-For and X-Real-IP into RemoteAddr.
func getClientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
