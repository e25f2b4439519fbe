package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/critiqueapp/critique-server/internal/domain"
	"github.com/critiqueapp/critique-server/internal/errors"
)

func TestCreateCategory(t *testing.T) {
	st := newTestStore(t)
	svc := NewCategoryService(st, testLogger)
	ctx := context.Background()

	admin := seedUser(t, st, "admin", domain.RoleAdmin)

	c, err := svc.CreateCategory(ctx, admin, CreateCategoryRequest{Name: "Graphic Novels"})
	require.NoError(t, err)
	assert.Equal(t, "graphic-novels", c.Slug, "slug derived from name")

	explicit, err := svc.CreateCategory(ctx, admin, CreateCategoryRequest{Name: "Movies", Slug: "films"})
	require.NoError(t, err)
	assert.Equal(t, "films", explicit.Slug)

	_, err = svc.CreateCategory(ctx, admin, CreateCategoryRequest{Name: "Other Novels", Slug: "graphic-novels"})
	assert.ErrorIs(t, err, errors.ErrConflict)

	// A name with no latin letters cannot derive a slug.
	_, err = svc.CreateCategory(ctx, admin, CreateCategoryRequest{Name: "日本語"})
	assert.ErrorIs(t, err, errors.ErrValidation)
}

func TestCatalogWritesAreAdminOnly(t *testing.T) {
	st := newTestStore(t)
	categories := NewCategoryService(st, testLogger)
	genres := NewGenreService(st, testLogger)
	ctx := context.Background()

	plain := seedUser(t, st, "plain", domain.RoleUser)
	moderator := seedUser(t, st, "mod", domain.RoleModerator)

	_, err := categories.CreateCategory(ctx, nil, CreateCategoryRequest{Name: "Books"})
	assert.ErrorIs(t, err, errors.ErrUnauthorized)

	_, err = categories.CreateCategory(ctx, plain, CreateCategoryRequest{Name: "Books"})
	assert.ErrorIs(t, err, errors.ErrForbidden)

	// Moderators moderate publications, not the catalogue.
	_, err = genres.CreateGenre(ctx, moderator, CreateGenreRequest{Name: "Jazz"})
	assert.ErrorIs(t, err, errors.ErrForbidden)

	err = genres.DeleteGenre(ctx, moderator, "jazz")
	assert.ErrorIs(t, err, errors.ErrForbidden)
}

func TestCatalogReadsArePublic(t *testing.T) {
	st := newTestStore(t)
	categories := NewCategoryService(st, testLogger)
	genres := NewGenreService(st, testLogger)
	ctx := context.Background()

	seedCategory(t, st, "Books", "books")
	seedGenre(t, st, "Jazz", "jazz")

	cats, err := categories.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, 1)

	g, err := genres.GetGenre(ctx, "jazz")
	require.NoError(t, err)
	assert.Equal(t, "Jazz", g.Name)

	_, err = genres.GetGenre(ctx, "polka")
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestUpdateCategoryRenamesOnly(t *testing.T) {
	st := newTestStore(t)
	svc := NewCategoryService(st, testLogger)
	ctx := context.Background()

	admin := seedUser(t, st, "admin", domain.RoleAdmin)
	seedCategory(t, st, "Books", "books")

	c, err := svc.UpdateCategory(ctx, admin, "books", UpdateCategoryRequest{Name: "Printed Books"})
	require.NoError(t, err)
	assert.Equal(t, "Printed Books", c.Name)
	assert.Equal(t, "books", c.Slug)

	_, err = svc.UpdateCategory(ctx, admin, "ghost", UpdateCategoryRequest{Name: "X"})
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestDeleteGenre(t *testing.T) {
	st := newTestStore(t)
	svc := NewGenreService(st, testLogger)
	ctx := context.Background()

	admin := seedUser(t, st, "admin", domain.RoleAdmin)
	seedGenre(t, st, "Jazz", "jazz")

	require.NoError(t, svc.DeleteGenre(ctx, admin, "jazz"))
	assert.ErrorIs(t, svc.DeleteGenre(ctx, admin, "jazz"), errors.ErrNotFound)
}
