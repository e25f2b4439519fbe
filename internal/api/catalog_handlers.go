package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/critiqueapp/critique-server/internal/http/response"
	"github.com/critiqueapp/critique-server/internal/service"
)

// === Categories ===

// handleListCategories returns all categories. Public.
func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.categoryService.ListCategories(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, categories, s.logger)
}

// handleGetCategory returns a single category by slug. Public.
func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	category, err := s.categoryService.GetCategory(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, category, s.logger)
}

// handleCreateCategory creates a category. Admin only.
func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req service.CreateCategoryRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	category, err := s.categoryService.CreateCategory(r.Context(), currentUser(r.Context()), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Created(w, category, s.logger)
}

// handleUpdateCategory renames a category. Admin only.
func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateCategoryRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	category, err := s.categoryService.UpdateCategory(r.Context(), currentUser(r.Context()), chi.URLParam(r, "slug"), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, category, s.logger)
}

// handleDeleteCategory deletes a category. Admin only.
func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := s.categoryService.DeleteCategory(r.Context(), currentUser(r.Context()), chi.URLParam(r, "slug")); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.NoContent(w)
}

// === Genres ===

// handleListGenres returns all genres. Public.
func (s *Server) handleListGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := s.genreService.ListGenres(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, genres, s.logger)
}

// handleGetGenre returns a single genre by slug. Public.
func (s *Server) handleGetGenre(w http.ResponseWriter, r *http.Request) {
	genre, err := s.genreService.GetGenre(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, genre, s.logger)
}

// handleCreateGenre creates a genre. Admin only.
func (s *Server) handleCreateGenre(w http.ResponseWriter, r *http.Request) {
	var req service.CreateGenreRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	genre, err := s.genreService.CreateGenre(r.Context(), currentUser(r.Context()), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Created(w, genre, s.logger)
}

// handleUpdateGenre renames a genre. Admin only.
func (s *Server) handleUpdateGenre(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateGenreRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	genre, err := s.genreService.UpdateGenre(r.Context(), currentUser(r.Context()), chi.URLParam(r, "slug"), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, genre, s.logger)
}

// handleDeleteGenre deletes a genre. Admin only.
func (s *Server) handleDeleteGenre(w http.ResponseWriter, r *http.Request) {
	if err := s.genreService.DeleteGenre(r.Context(), currentUser(r.Context()), chi.URLParam(r, "slug")); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.NoContent(w)
}
