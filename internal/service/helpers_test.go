package service

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/critiqueapp/critique-server/internal/domain"
	"github.com/critiqueapp/critique-server/internal/id"
	"github.com/critiqueapp/critique-server/internal/store/sqlite"
)

var testLogger = slog.New(slog.DiscardHandler)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	st, err := sqlite.Open(filepath.Join(t.TempDir(), "critique.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func seedUser(t *testing.T, st *sqlite.Store, username string, role domain.Role) *domain.User {
	t.Helper()

	u := &domain.User{
		ID:       id.MustGenerate("user"),
		Username: username,
		Email:    username + "@example.com",
		Role:     role,
	}
	u.InitTimestamps()
	require.NoError(t, st.CreateUser(context.Background(), u))
	return u
}

func seedGenre(t *testing.T, st *sqlite.Store, name, genreSlug string) *domain.Genre {
	t.Helper()

	now := time.Now()
	g := &domain.Genre{
		ID:        id.MustGenerate("genre"),
		Name:      name,
		Slug:      genreSlug,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, st.CreateGenre(context.Background(), g))
	return g
}

func seedCategory(t *testing.T, st *sqlite.Store, name, categorySlug string) *domain.Category {
	t.Helper()

	now := time.Now()
	c := &domain.Category{
		ID:        id.MustGenerate("category"),
		Name:      name,
		Slug:      categorySlug,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, st.CreateCategory(context.Background(), c))
	return c
}

func seedTitle(t *testing.T, st *sqlite.Store, name string, genres ...*domain.Genre) *domain.Title {
	t.Helper()

	now := time.Now()
	title := &domain.Title{
		ID:        id.MustGenerate("title"),
		Name:      name,
		Year:      2020,
		CreatedAt: now,
		UpdatedAt: now,
	}
	ids := make([]string, len(genres))
	for i, g := range genres {
		ids[i] = g.ID
	}
	require.NoError(t, st.CreateTitle(context.Background(), title, ids))
	return title
}

func seedReview(t *testing.T, st *sqlite.Store, title *domain.Title, author *domain.User, score int) *domain.Review {
	t.Helper()

	r := &domain.Review{
		ID:       id.MustGenerate("review"),
		TitleID:  title.ID,
		AuthorID: author.ID,
		Author:   author.Username,
		Text:     "worth your time",
		Score:    score,
		PubDate:  time.Now(),
	}
	require.NoError(t, st.CreateReview(context.Background(), r))
	return r
}
