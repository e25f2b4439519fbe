package api

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/critiqueapp/critique-server/internal/domain"
	"github.com/critiqueapp/critique-server/internal/http/response"
	"github.com/critiqueapp/critique-server/internal/ratelimit"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const contextKeyUser contextKey = "user"

// attachUser resolves an optional bearer token and attaches the account to
// the request context. No header means an anonymous request and the chain
// continues; a header that fails verification is rejected outright rather
// than silently downgraded to anonymous.
func (s *Server) attachUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			next.ServeHTTP(w, r)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(w, "Invalid authorization header format", s.logger)
			return
		}

		claims, err := s.tokens.VerifyBearer(parts[1])
		if err != nil {
			response.Unauthorized(w, "Invalid or expired token", s.logger)
			return
		}

		// Load the account fresh so role changes and deletions take
		// effect before the token expires.
		user, err := s.store.GetUser(r.Context(), claims.UserID)
		if err != nil {
			response.Unauthorized(w, "Account no longer exists", s.logger)
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyUser, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAuth rejects anonymous requests. Must be used under attachUser.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if currentUser(r.Context()) == nil {
			response.Unauthorized(w, "Authentication required", s.logger)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireAdmin rejects non-admin callers. Must be used after requireAuth.
// Superusers pass regardless of their role field.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := currentUser(r.Context())
		if user == nil || !user.IsAdmin() {
			response.Forbidden(w, "Administrator rights required", s.logger)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// rateLimitByIP limits requests per client IP using the given limiter.
// Returns 429 Too Many Requests when the bucket is empty.
func (s *Server) rateLimitByIP(limiter *ratelimit.KeyedRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := getClientIP(r)

			if !limiter.Allow(key) {
				s.logger.Warn("Rate limit exceeded", "ip", key, "path", r.URL.Path)
				response.TooManyRequests(w, "Too many requests. Please try again later.", s.logger)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// currentUser extracts the authenticated account from request context.
// Returns nil for anonymous requests.
func currentUser(ctx context.Context) *domain.User {
	if user, ok := ctx.Value(contextKeyUser).(*domain.User); ok {
		return user
	}
	return nil
}

// getClientIP returns the address the limiter keys on. Header trust is
// centralized in the RealIP middleware, which rewrites RemoteAddr from
// X-Forwarded-For / X-Real-IP; reading those headers again here would let
// an unproxied client rotate them past the limiter.
func getClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// RealIP leaves a bare address with no port.
		return r.RemoteAddr
	}
	return host
}
