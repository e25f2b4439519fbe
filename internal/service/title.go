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

// TitleService orchestrates title operations.
type TitleService struct {
	store     store.Store
	logger    *slog.Logger
	validator *validation.Validator
	now       func() time.Time
}

// NewTitleService creates a new title service.
func NewTitleService(store store.Store, logger *slog.Logger) *TitleService {
	return &TitleService{
		store:     store,
		logger:    logger,
		validator: validation.New(),
		now:       time.Now,
	}
}

// ListTitles returns all titles with category, genres, and rating attached.
// Reads are public.
func (s *TitleService) ListTitles(ctx context.Context) ([]*domain.Title, error) {
	return s.store.ListTitles(ctx)
}

// GetTitle returns a single title by id.
func (s *TitleService) GetTitle(ctx context.Context, titleID string) (*domain.Title, error) {
	t, err := s.store.GetTitle(ctx, titleID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFoundf("title %q not found", titleID)
		}
		return nil, err
	}
	return t, nil
}

// CreateTitleRequest contains fields for creating a title.
type CreateTitleRequest struct {
	Name        string   `json:"name" validate:"required,min=1,max=256"`
	Year        int      `json:"year" validate:"required"`
	Description string   `json:"description"`
	Category    string   `json:"category" validate:"omitempty,slug"`
	Genres      []string `json:"genre" validate:"required,min=1,dive,slug"`
}

// CreateTitle creates a new title. Admin only. Category and genres are
// referenced by slug and must already exist.
func (s *TitleService) CreateTitle(ctx context.Context, caller *domain.User, req CreateTitleRequest) (*domain.Title, error) {
	if err := policy.RequireCatalogWrite(caller); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if !domain.ValidYear(req.Year, s.now()) {
		return nil, errors.Validationf("year must be between 1 and %d", s.now().Year())
	}

	category, err := s.resolveCategory(ctx, req.Category)
	if err != nil {
		return nil, err
	}
	genres, err := s.resolveGenres(ctx, req.Genres)
	if err != nil {
		return nil, err
	}

	titleID, err := id.Generate("title")
	if err != nil {
		return nil, err
	}

	now := s.now()
	t := &domain.Title{
		ID:          titleID,
		Name:        req.Name,
		Year:        req.Year,
		Description: req.Description,
		Category:    category,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.CreateTitle(ctx, t, genreIDs(genres)); err != nil {
		return nil, err
	}

	s.logger.Info("title created", "id", titleID, "name", req.Name, "year", req.Year)

	// Re-read so the response carries the denormalized category, genres,
	// and the (still absent) rating.
	return s.GetTitle(ctx, titleID)
}

// UpdateTitleRequest contains fields for updating a title. Nil fields are
// left unchanged; an explicit empty category clears the reference.
type UpdateTitleRequest struct {
	Name        *string   `json:"name"`
	Year        *int      `json:"year"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Genres      *[]string `json:"genre"`
}

// UpdateTitle applies a partial update to a title. Admin only.
func (s *TitleService) UpdateTitle(ctx context.Context, caller *domain.User, titleID string, req UpdateTitleRequest) (*domain.Title, error) {
	if err := policy.RequireCatalogWrite(caller); err != nil {
		return nil, err
	}

	t, err := s.GetTitle(ctx, titleID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if *req.Name == "" || len(*req.Name) > 256 {
			return nil, errors.Validation("name must be between 1 and 256 characters")
		}
		t.Name = *req.Name
	}
	if req.Year != nil {
		if !domain.ValidYear(*req.Year, s.now()) {
			return nil, errors.Validationf("year must be between 1 and %d", s.now().Year())
		}
		t.Year = *req.Year
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.Category != nil {
		category, err := s.resolveCategory(ctx, *req.Category)
		if err != nil {
			return nil, err
		}
		t.Category = category
	}

	var linkIDs []string
	if req.Genres != nil {
		if len(*req.Genres) == 0 {
			return nil, errors.Validation("genre list must not be empty")
		}
		genres, err := s.resolveGenres(ctx, *req.Genres)
		if err != nil {
			return nil, err
		}
		linkIDs = genreIDs(genres)
	}

	t.UpdatedAt = s.now()

	if err := s.store.UpdateTitle(ctx, t, linkIDs); err != nil {
		return nil, err
	}

	return s.GetTitle(ctx, titleID)
}

// DeleteTitle removes a title; its reviews and their comments go with it.
// Admin only.
func (s *TitleService) DeleteTitle(ctx context.Context, caller *domain.User, titleID string) error {
	if err := policy.RequireCatalogWrite(caller); err != nil {
		return err
	}

	if err := s.store.DeleteTitle(ctx, titleID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errors.NotFoundf("title %q not found", titleID)
		}
		return err
	}

	s.logger.Info("title deleted", "id", titleID)
	return nil
}

// resolveCategory looks up a category by slug. An empty slug means no
// category.
func (s *TitleService) resolveCategory(ctx context.Context, categorySlug string) (*domain.Category, error) {
	if categorySlug == "" {
		return nil, nil
	}
	c, err := s.store.GetCategoryBySlug(ctx, categorySlug)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFoundf("category %q not found", categorySlug)
		}
		return nil, err
	}
	return c, nil
}

// resolveGenres maps genre slugs to existing rows. Any unknown slug fails
// the whole request.
func (s *TitleService) resolveGenres(ctx context.Context, slugs []string) ([]*domain.Genre, error) {
	genres, err := s.store.GetGenresBySlugs(ctx, slugs)
	if err != nil {
		var storeErr *store.Error
		if errors.As(err, &storeErr) && errors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFound(storeErr.Message)
		}
		return nil, err
	}
	return genres, nil
}

func genreIDs(genres []*domain.Genre) []string {
	ids := make([]string, len(genres))
	for i, g := range genres {
		ids[i] = g.ID
	}
	return ids
}
