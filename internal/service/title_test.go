package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/critiqueapp/critique-server/internal/domain"
	"github.com/critiqueapp/critique-server/internal/errors"
	"github.com/critiqueapp/critique-server/internal/store/sqlite"
)

func newTitleService(t *testing.T, st *sqlite.Store) *TitleService {
	t.Helper()

	svc := NewTitleService(st, testLogger)
	svc.now = func() time.Time { return time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC) }
	return svc
}

func TestCreateTitle(t *testing.T) {
	st := newTestStore(t)
	svc := newTitleService(t, st)
	ctx := context.Background()

	admin := seedUser(t, st, "admin", domain.RoleAdmin)
	seedCategory(t, st, "Books", "books")
	seedGenre(t, st, "Science Fiction", "sci-fi")
	seedGenre(t, st, "Drama", "drama")

	created, err := svc.CreateTitle(ctx, admin, CreateTitleRequest{
		Name:     "Dune",
		Year:     1965,
		Category: "books",
		Genres:   []string{"sci-fi", "drama"},
	})
	require.NoError(t, err)
	require.NotNil(t, created.Category)
	assert.Equal(t, "books", created.Category.Slug)
	assert.Len(t, created.Genres, 2)
	assert.Nil(t, created.Rating, "no reviews yet")
}

func TestCreateTitleValidation(t *testing.T) {
	st := newTestStore(t)
	svc := newTitleService(t, st)
	ctx := context.Background()

	admin := seedUser(t, st, "admin", domain.RoleAdmin)
	seedGenre(t, st, "Drama", "drama")

	_, err := svc.CreateTitle(ctx, admin, CreateTitleRequest{Name: "Dune", Year: 1965})
	assert.ErrorIs(t, err, errors.ErrValidation, "at least one genre required")

	_, err = svc.CreateTitle(ctx, admin, CreateTitleRequest{Name: "From the Future", Year: 2041, Genres: []string{"drama"}})
	assert.ErrorIs(t, err, errors.ErrValidation, "year beyond the current one")

	_, err = svc.CreateTitle(ctx, admin, CreateTitleRequest{Name: "Dune", Year: 1965, Genres: []string{"ghost"}})
	assert.ErrorIs(t, err, errors.ErrNotFound, "unknown genre slug")

	_, err = svc.CreateTitle(ctx, admin, CreateTitleRequest{Name: "Dune", Year: 1965, Category: "ghost", Genres: []string{"drama"}})
	assert.ErrorIs(t, err, errors.ErrNotFound, "unknown category slug")
}

func TestUpdateTitle(t *testing.T) {
	st := newTestStore(t)
	svc := newTitleService(t, st)
	ctx := context.Background()

	admin := seedUser(t, st, "admin", domain.RoleAdmin)
	seedCategory(t, st, "Books", "books")
	drama := seedGenre(t, st, "Drama", "drama")
	seedGenre(t, st, "Science Fiction", "sci-fi")
	title := seedTitle(t, st, "Dune", drama)

	name := "Dune Messiah"
	year := 1969
	category := "books"
	updated, err := svc.UpdateTitle(ctx, admin, title.ID, UpdateTitleRequest{
		Name:     &name,
		Year:     &year,
		Category: &category,
	})
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", updated.Name)
	assert.Equal(t, 1969, updated.Year)
	require.NotNil(t, updated.Category)
	assert.Equal(t, "books", updated.Category.Slug)
	// Genre links untouched when the field is absent.
	require.Len(t, updated.Genres, 1)
	assert.Equal(t, "drama", updated.Genres[0].Slug)

	genres := []string{"sci-fi", "drama"}
	updated, err = svc.UpdateTitle(ctx, admin, title.ID, UpdateTitleRequest{Genres: &genres})
	require.NoError(t, err)
	assert.Len(t, updated.Genres, 2)

	// An explicit empty category clears the reference.
	noCategory := ""
	updated, err = svc.UpdateTitle(ctx, admin, title.ID, UpdateTitleRequest{Category: &noCategory})
	require.NoError(t, err)
	assert.Nil(t, updated.Category)

	empty := []string{}
	_, err = svc.UpdateTitle(ctx, admin, title.ID, UpdateTitleRequest{Genres: &empty})
	assert.ErrorIs(t, err, errors.ErrValidation)
}

func TestTitleRatingFollowsReviews(t *testing.T) {
	st := newTestStore(t)
	svc := newTitleService(t, st)
	ctx := context.Background()

	alice := seedUser(t, st, "alice", domain.RoleUser)
	bob := seedUser(t, st, "bob", domain.RoleUser)
	title := seedTitle(t, st, "Dune")

	got, err := svc.GetTitle(ctx, title.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Rating)

	seedReview(t, st, title, alice, 4)
	seedReview(t, st, title, bob, 9)

	got, err = svc.GetTitle(ctx, title.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Rating)
	assert.InDelta(t, 6.5, *got.Rating, 0.001)
}

func TestDeleteTitle(t *testing.T) {
	st := newTestStore(t)
	svc := newTitleService(t, st)
	ctx := context.Background()

	admin := seedUser(t, st, "admin", domain.RoleAdmin)
	plain := seedUser(t, st, "plain", domain.RoleUser)
	title := seedTitle(t, st, "Dune")

	assert.ErrorIs(t, svc.DeleteTitle(ctx, plain, title.ID), errors.ErrForbidden)

	require.NoError(t, svc.DeleteTitle(ctx, admin, title.ID))
	assert.ErrorIs(t, svc.DeleteTitle(ctx, admin, title.ID), errors.ErrNotFound)
}
