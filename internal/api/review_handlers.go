package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/critiqueapp/critique-server/internal/http/response"
	"github.com/critiqueapp/critique-server/internal/service"
)

// handleListReviews returns a title's reviews, newest first. Public.
func (s *Server) handleListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := s.reviewService.ListReviews(r.Context(), chi.URLParam(r, "titleID"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, reviews, s.logger)
}

// handleGetReview returns a single review scoped to its title. Public.
func (s *Server) handleGetReview(w http.ResponseWriter, r *http.Request) {
	review, err := s.reviewService.GetReview(r.Context(), chi.URLParam(r, "titleID"), chi.URLParam(r, "reviewID"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, review, s.logger)
}

// handleCreateReview posts the caller's review of a title.
func (s *Server) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	var req service.CreateReviewRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	review, err := s.reviewService.CreateReview(r.Context(), currentUser(r.Context()), chi.URLParam(r, "titleID"), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Created(w, review, s.logger)
}

// handleUpdateReview edits a review. Author, moderator, or admin.
func (s *Server) handleUpdateReview(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateReviewRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	review, err := s.reviewService.UpdateReview(r.Context(), currentUser(r.Context()),
		chi.URLParam(r, "titleID"), chi.URLParam(r, "reviewID"), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, review, s.logger)
}

// handleDeleteReview deletes a review. Author, moderator, or admin.
func (s *Server) handleDeleteReview(w http.ResponseWriter, r *http.Request) {
	err := s.reviewService.DeleteReview(r.Context(), currentUser(r.Context()),
		chi.URLParam(r, "titleID"), chi.URLParam(r, "reviewID"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.NoContent(w)
}
