package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/critiqueapp/critique-server/internal/domain"
	"github.com/critiqueapp/critique-server/internal/errors"
	"github.com/critiqueapp/critique-server/internal/id"
	"github.com/critiqueapp/critique-server/internal/policy"
	"github.com/critiqueapp/critique-server/internal/store"
	"github.com/critiqueapp/critique-server/internal/validation"
)

// CommentService orchestrates comment operations. Comments live under a
// review which itself lives under a title; both URL segments scope every
// lookup, so a review reached through the wrong title is simply not found.
type CommentService struct {
	store     store.Store
	logger    *slog.Logger
	validator *validation.Validator
}

// NewCommentService creates a new comment service.
func NewCommentService(store store.Store, logger *slog.Logger) *CommentService {
	return &CommentService{
		store:     store,
		logger:    logger,
		validator: validation.New(),
	}
}

// ListComments returns a review's comments, newest first. Reads are public.
func (s *CommentService) ListComments(ctx context.Context, titleID, reviewID string) ([]*domain.Comment, error) {
	if err := s.ensureReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	return s.store.ListCommentsForReview(ctx, reviewID)
}

// GetComment returns a single comment scoped to its review and title.
func (s *CommentService) GetComment(ctx context.Context, titleID, reviewID, commentID string) (*domain.Comment, error) {
	if err := s.ensureReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	c, err := s.store.GetComment(ctx, reviewID, commentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFoundf("comment %q not found for review %q", commentID, reviewID)
		}
		return nil, err
	}
	return c, nil
}

// CreateCommentRequest contains fields for creating a comment.
type CreateCommentRequest struct {
	Text string `json:"text" validate:"required"`
}

// CreateComment posts the caller's comment under a review.
func (s *CommentService) CreateComment(ctx context.Context, caller *domain.User, titleID, reviewID string, req CreateCommentRequest) (*domain.Comment, error) {
	if err := policy.RequirePublicationCreate(caller); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if err := s.ensureReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	commentID, err := id.Generate("comment")
	if err != nil {
		return nil, err
	}

	c := &domain.Comment{
		ID:       commentID,
		ReviewID: reviewID,
		AuthorID: caller.ID,
		Author:   caller.Username,
		Text:     req.Text,
		PubDate:  time.Now(),
	}

	if err := s.store.CreateComment(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("comment created", "id", commentID, "review", reviewID, "author", caller.Username)
	return c, nil
}

// UpdateCommentRequest contains fields for updating a comment.
type UpdateCommentRequest struct {
	Text string `json:"text" validate:"required"`
}

// UpdateComment edits a comment's text. Allowed for the author, moderators,
// and admins.
func (s *CommentService) UpdateComment(ctx context.Context, caller *domain.User, titleID, reviewID, commentID string, req UpdateCommentRequest) (*domain.Comment, error) {
	if err := policy.RequireAuthenticated(caller); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	c, err := s.GetComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	if err := policy.RequirePublicationModify(caller, c.AuthorID); err != nil {
		return nil, err
	}

	c.Text = req.Text

	if err := s.store.UpdateComment(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteComment removes a comment. Allowed for the author, moderators, and
// admins.
func (s *CommentService) DeleteComment(ctx context.Context, caller *domain.User, titleID, reviewID, commentID string) error {
	if err := policy.RequireAuthenticated(caller); err != nil {
		return err
	}

	c, err := s.GetComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return err
	}
	if err := policy.RequirePublicationModify(caller, c.AuthorID); err != nil {
		return err
	}

	if err := s.store.DeleteComment(ctx, c.ID); err != nil {
		return err
	}

	s.logger.Info("comment deleted", "id", commentID, "review", reviewID, "by", caller.Username)
	return nil
}

func (s *CommentService) ensureReview(ctx context.Context, titleID, reviewID string) error {
	if _, err := s.store.GetReview(ctx, titleID, reviewID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errors.NotFoundf("review %q not found for title %q", reviewID, titleID)
		}
		return err
	}
	return nil
}
