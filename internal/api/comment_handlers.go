package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/critiqueapp/critique-server/internal/http/response"
	"github.com/critiqueapp/critique-server/internal/service"
)

// handleListComments returns a review's comments, newest first. Public.
func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := s.commentService.ListComments(r.Context(),
		chi.URLParam(r, "titleID"), chi.URLParam(r, "reviewID"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, comments, s.logger)
}

// handleGetComment returns a single comment scoped to its review and title. Public.
func (s *Server) handleGetComment(w http.ResponseWriter, r *http.Request) {
	comment, err := s.commentService.GetComment(r.Context(),
		chi.URLParam(r, "titleID"), chi.URLParam(r, "reviewID"), chi.URLParam(r, "commentID"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, comment, s.logger)
}

// handleCreateComment posts the caller's comment under a review.
func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	var req service.CreateCommentRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	comment, err := s.commentService.CreateComment(r.Context(), currentUser(r.Context()),
		chi.URLParam(r, "titleID"), chi.URLParam(r, "reviewID"), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Created(w, comment, s.logger)
}

// handleUpdateComment edits a comment. Author, moderator, or admin.
func (s *Server) handleUpdateComment(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateCommentRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	comment, err := s.commentService.UpdateComment(r.Context(), currentUser(r.Context()),
		chi.URLParam(r, "titleID"), chi.URLParam(r, "reviewID"), chi.URLParam(r, "commentID"), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, comment, s.logger)
}

// handleDeleteComment deletes a comment. Author, moderator, or admin.
func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	err := s.commentService.DeleteComment(r.Context(), currentUser(r.Context()),
		chi.URLParam(r, "titleID"), chi.URLParam(r, "reviewID"), chi.URLParam(r, "commentID"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.NoContent(w)
}
