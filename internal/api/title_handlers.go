package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/critiqueapp/critique-server/internal/http/response"
	"github.com/critiqueapp/critique-server/internal/service"
)

// handleListTitles returns all titles with category, genres, and rating. Public.
func (s *Server) handleListTitles(w http.ResponseWriter, r *http.Request) {
	titles, err := s.titleService.ListTitles(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, titles, s.logger)
}

// handleGetTitle returns a single title by id. Public.
func (s *Server) handleGetTitle(w http.ResponseWriter, r *http.Request) {
	title, err := s.titleService.GetTitle(r.Context(), chi.URLParam(r, "titleID"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, title, s.logger)
}

// handleCreateTitle creates a title. Admin only.
func (s *Server) handleCreateTitle(w http.ResponseWriter, r *http.Request) {
	var req service.CreateTitleRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	title, err := s.titleService.CreateTitle(r.Context(), currentUser(r.Context()), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Created(w, title, s.logger)
}

// handleUpdateTitle applies a partial update to a title. Admin only.
func (s *Server) handleUpdateTitle(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateTitleRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	title, err := s.titleService.UpdateTitle(r.Context(), currentUser(r.Context()), chi.URLParam(r, "titleID"), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, title, s.logger)
}

// handleDeleteTitle deletes a title and everything under it. Admin only.
func (s *Server) handleDeleteTitle(w http.ResponseWriter, r *http.Request) {
	if err := s.titleService.DeleteTitle(r.Context(), currentUser(r.Context()), chi.URLParam(r, "titleID")); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.NoContent(w)
}
