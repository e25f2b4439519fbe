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

// ReviewService orchestrates review operations. Reviews always live under a
// title; every lookup is scoped by the title id from the URL so a review id
// never resolves under the wrong title.
type ReviewService struct {
	store     store.Store
	logger    *slog.Logger
	validator *validation.Validator
}

// NewReviewService creates a new review service.
func NewReviewService(store store.Store, logger *slog.Logger) *ReviewService {
	return &ReviewService{
		store:     store,
		logger:    logger,
		validator: validation.New(),
	}
}

// ListReviews returns a title's reviews, newest first. Reads are public.
func (s *ReviewService) ListReviews(ctx context.Context, titleID string) ([]*domain.Review, error) {
	if err := s.ensureTitle(ctx, titleID); err != nil {
		return nil, err
	}
	return s.store.ListReviewsForTitle(ctx, titleID)
}

// GetReview returns a single review scoped to its title.
func (s *ReviewService) GetReview(ctx context.Context, titleID, reviewID string) (*domain.Review, error) {
	r, err := s.store.GetReview(ctx, titleID, reviewID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFoundf("review %q not found for title %q", reviewID, titleID)
		}
		return nil, err
	}
	return r, nil
}

// CreateReviewRequest contains fields for creating a review.
type CreateReviewRequest struct {
	Text  string `json:"text" validate:"required"`
	Score int    `json:"score" validate:"required,gte=1,lte=10"`
}

// CreateReview posts the caller's review of a title. A second review of the
// same title by the same author surfaces the storage uniqueness violation as
// a conflict; the original review is untouched.
func (s *ReviewService) CreateReview(ctx context.Context, caller *domain.User, titleID string, req CreateReviewRequest) (*domain.Review, error) {
	if err := policy.RequirePublicationCreate(caller); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if err := s.ensureTitle(ctx, titleID); err != nil {
		return nil, err
	}

	reviewID, err := id.Generate("review")
	if err != nil {
		return nil, err
	}

	r := &domain.Review{
		ID:       reviewID,
		TitleID:  titleID,
		AuthorID: caller.ID,
		Author:   caller.Username,
		Text:     req.Text,
		Score:    req.Score,
		PubDate:  time.Now(),
	}

	if err := s.store.CreateReview(ctx, r); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, errors.Conflict("you have already reviewed this title")
		}
		return nil, err
	}

	s.logger.Info("review created", "id", reviewID, "title", titleID, "author", caller.Username)
	return r, nil
}

// UpdateReviewRequest contains fields for updating a review. Nil fields are
// left unchanged; author, title, and pub_date are immutable.
type UpdateReviewRequest struct {
	Text  *string `json:"text"`
	Score *int    `json:"score"`
}

// UpdateReview edits a review's text or score. Allowed for the author,
// moderators, and admins.
func (s *ReviewService) UpdateReview(ctx context.Context, caller *domain.User, titleID, reviewID string, req UpdateReviewRequest) (*domain.Review, error) {
	if err := policy.RequireAuthenticated(caller); err != nil {
		return nil, err
	}

	r, err := s.GetReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if err := policy.RequirePublicationModify(caller, r.AuthorID); err != nil {
		return nil, err
	}

	if req.Text != nil {
		if *req.Text == "" {
			return nil, errors.Validation("text must not be empty")
		}
		r.Text = *req.Text
	}
	if req.Score != nil {
		if !domain.ValidScore(*req.Score) {
			return nil, errors.Validationf("score must be between %d and %d", domain.MinScore, domain.MaxScore)
		}
		r.Score = *req.Score
	}

	if err := s.store.UpdateReview(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// DeleteReview removes a review and its comments. Allowed for the author,
// moderators, and admins.
func (s *ReviewService) DeleteReview(ctx context.Context, caller *domain.User, titleID, reviewID string) error {
	if err := policy.RequireAuthenticated(caller); err != nil {
		return err
	}

	r, err := s.GetReview(ctx, titleID, reviewID)
	if err != nil {
		return err
	}
	if err := policy.RequirePublicationModify(caller, r.AuthorID); err != nil {
		return err
	}

	if err := s.store.DeleteReview(ctx, r.ID); err != nil {
		return err
	}

	s.logger.Info("review deleted", "id", reviewID, "title", titleID, "by", caller.Username)
	return nil
}

func (s *ReviewService) ensureTitle(ctx context.Context, titleID string) error {
	if _, err := s.store.GetTitle(ctx, titleID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errors.NotFoundf("title %q not found", titleID)
		}
		return err
	}
	return nil
}
