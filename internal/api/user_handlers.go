package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/critiqueapp/critique-server/internal/http/response"
	"github.com/critiqueapp/critique-server/internal/service"
)

// handleGetMe returns the caller's own profile.
func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.userService.Me(r.Context(), currentUser(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, user, s.logger)
}

// handleUpdateMe applies a partial update to the caller's own profile.
// The role field is not part of the request shape, so a role key in the
// body is dropped at decode time and never reaches the store.
func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateMeRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	user, err := s.userService.UpdateMe(r.Context(), currentUser(r.Context()), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, user, s.logger)
}

// handleListUsers returns all accounts. Admin only.
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.userService.ListUsers(r.Context(), currentUser(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, users, s.logger)
}

// handleGetUser returns a single account by username. Admin only.
func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.userService.GetUser(r.Context(), currentUser(r.Context()), chi.URLParam(r, "username"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, user, s.logger)
}

// handleCreateUser creates an account, active immediately. Admin only.
func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req service.CreateUserRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	user, err := s.userService.CreateUser(r.Context(), currentUser(r.Context()), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Created(w, user, s.logger)
}

// handleUpdateUser applies a partial update to an account. Admin only.
func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateUserRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	user, err := s.userService.UpdateUser(r.Context(), currentUser(r.Context()), chi.URLParam(r, "username"), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, user, s.logger)
}

// handleDeleteUser deletes an account and its publications. Admin only.
func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := s.userService.DeleteUser(r.Context(), currentUser(r.Context()), chi.URLParam(r, "username")); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.NoContent(w)
}
