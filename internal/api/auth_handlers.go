package api

import (
	"net/http"

	"github.com/critiqueapp/critique-server/internal/http/response"
	"github.com/critiqueapp/critique-server/internal/service"
)

// handleSignup registers an account and emails a confirmation code.
// Repeating the exact same pair re-issues a code instead of failing.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req service.SignupRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	result, err := s.authService.Signup(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, result, s.logger)
}

// handleIssueToken exchanges a confirmation code for a bearer token.
func (s *Server) handleIssueToken(w http.ResponseWriter, r *http.Request) {
	var req service.TokenRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	result, err := s.authService.IssueToken(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, result, s.logger)
}
