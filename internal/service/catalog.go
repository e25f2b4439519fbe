// Package service orchestrates domain operations over the store, enforcing
// access policy and input validation before anything touches persistence.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/critiqueapp/critique-server/internal/domain"
	"github.com/critiqueapp/critique-server/internal/errors"
	"github.com/critiqueapp/critique-server/internal/id"
	"github.com/critiqueapp/critique-server/internal/policy"
	"github.com/critiqueapp/critique-server/internal/slug"
	"github.com/critiqueapp/critique-server/internal/store"
	"github.com/critiqueapp/critique-server/internal/validation"
)

// CategoryService orchestrates category operations.
type CategoryService struct {
	store     store.Store
	logger    *slog.Logger
	validator *validation.Validator
}

// NewCategoryService creates a new category service.
func NewCategoryService(store store.Store, logger *slog.Logger) *CategoryService {
	return &CategoryService{
		store:     store,
		logger:    logger,
		validator: validation.New(),
	}
}

// ListCategories returns all categories ordered by name. Reads are public.
func (s *CategoryService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.store.ListCategories(ctx)
}

// GetCategory returns a single category by slug.
func (s *CategoryService) GetCategory(ctx context.Context, categorySlug string) (*domain.Category, error) {
	c, err := s.store.GetCategoryBySlug(ctx, categorySlug)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFoundf("category %q not found", categorySlug)
		}
		return nil, err
	}
	return c, nil
}

// CreateCategoryRequest contains fields for creating a category.
type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,min=1,max=128"`
	Slug string `json:"slug" validate:"omitempty,slug,max=50"`
}

// CreateCategory creates a new category. Admin only. When no slug is given
// one is derived from the name.
func (s *CategoryService) CreateCategory(ctx context.Context, caller *domain.User, req CreateCategoryRequest) (*domain.Category, error) {
	if err := policy.RequireCatalogWrite(caller); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	catSlug := req.Slug
	if catSlug == "" {
		catSlug = slug.Make(req.Name)
	}
	if catSlug == "" {
		return nil, errors.Validation("name does not reduce to a usable slug; provide one explicitly")
	}

	categoryID, err := id.Generate("category")
	if err != nil {
		return nil, err
	}

	now := time.Now()
	c := &domain.Category{
		ID:        categoryID,
		Name:      req.Name,
		Slug:      catSlug,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateCategory(ctx, c); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, errors.Conflictf("category with slug %q already exists", catSlug)
		}
		return nil, err
	}

	s.logger.Info("category created", "slug", catSlug, "name", req.Name)
	return c, nil
}

// UpdateCategoryRequest contains fields for updating a category.
// The slug is the lookup key and never changes.
type UpdateCategoryRequest struct {
	Name string `json:"name" validate:"required,min=1,max=128"`
}

// UpdateCategory renames a category. Admin only.
func (s *CategoryService) UpdateCategory(ctx context.Context, caller *domain.User, categorySlug string, req UpdateCategoryRequest) (*domain.Category, error) {
	if err := policy.RequireCatalogWrite(caller); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	c, err := s.GetCategory(ctx, categorySlug)
	if err != nil {
		return nil, err
	}

	c.Name = req.Name
	c.UpdatedAt = time.Now()

	if err := s.store.UpdateCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteCategory removes a category. Titles referencing it keep existing
// with a null category. Admin only.
func (s *CategoryService) DeleteCategory(ctx context.Context, caller *domain.User, categorySlug string) error {
	if err := policy.RequireCatalogWrite(caller); err != nil {
		return err
	}

	if err := s.store.DeleteCategoryBySlug(ctx, categorySlug); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errors.NotFoundf("category %q not found", categorySlug)
		}
		return err
	}

	s.logger.Info("category deleted", "slug", categorySlug)
	return nil
}

// GenreService orchestrates genre operations.
type GenreService struct {
	store     store.Store
	logger    *slog.Logger
	validator *validation.Validator
}

// NewGenreService creates a new genre service.
func NewGenreService(store store.Store, logger *slog.Logger) *GenreService {
	return &GenreService{
		store:     store,
		logger:    logger,
		validator: validation.New(),
	}
}

// ListGenres returns all genres ordered by name. Reads are public.
func (s *GenreService) ListGenres(ctx context.Context) ([]*domain.Genre, error) {
	return s.store.ListGenres(ctx)
}

// GetGenre returns a single genre by slug.
func (s *GenreService) GetGenre(ctx context.Context, genreSlug string) (*domain.Genre, error) {
	g, err := s.store.GetGenreBySlug(ctx, genreSlug)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFoundf("genre %q not found", genreSlug)
		}
		return nil, err
	}
	return g, nil
}

// CreateGenreRequest contains fields for creating a genre.
type CreateGenreRequest struct {
	Name string `json:"name" validate:"required,min=1,max=128"`
	Slug string `json:"slug" validate:"omitempty,slug,max=50"`
}

// CreateGenre creates a new genre. Admin only.
func (s *GenreService) CreateGenre(ctx context.Context, caller *domain.User, req CreateGenreRequest) (*domain.Genre, error) {
	if err := policy.RequireCatalogWrite(caller); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	genreSlug := req.Slug
	if genreSlug == "" {
		genreSlug = slug.Make(req.Name)
	}
	if genreSlug == "" {
		return nil, errors.Validation("name does not reduce to a usable slug; provide one explicitly")
	}

	genreID, err := id.Generate("genre")
	if err != nil {
		return nil, err
	}

	now := time.Now()
	g := &domain.Genre{
		ID:        genreID,
		Name:      req.Name,
		Slug:      genreSlug,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateGenre(ctx, g); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, errors.Conflictf("genre with slug %q already exists", genreSlug)
		}
		return nil, err
	}

	s.logger.Info("genre created", "slug", genreSlug, "name", req.Name)
	return g, nil
}

// UpdateGenreRequest contains fields for updating a genre.
type UpdateGenreRequest struct {
	Name string `json:"name" validate:"required,min=1,max=128"`
}

// UpdateGenre renames a genre. Admin only. The slug never changes.
func (s *GenreService) UpdateGenre(ctx context.Context, caller *domain.User, genreSlug string, req UpdateGenreRequest) (*domain.Genre, error) {
	if err := policy.RequireCatalogWrite(caller); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	g, err := s.GetGenre(ctx, genreSlug)
	if err != nil {
		return nil, err
	}

	g.Name = req.Name
	g.UpdatedAt = time.Now()

	if err := s.store.UpdateGenre(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// DeleteGenre removes a genre and its title associations. Admin only.
func (s *GenreService) DeleteGenre(ctx context.Context, caller *domain.User, genreSlug string) error {
	if err := policy.RequireCatalogWrite(caller); err != nil {
		return err
	}

	if err := s.store.DeleteGenreBySlug(ctx, genreSlug); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errors.NotFoundf("genre %q not found", genreSlug)
		}
		return err
	}

	s.logger.Info("genre deleted", "slug", genreSlug)
	return nil
}
