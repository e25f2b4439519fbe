package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/critiqueapp/critique-server/internal/domain"
	"github.com/critiqueapp/critique-server/internal/id"
	"github.com/critiqueapp/critique-server/internal/store"
)

// newTestStore creates a store backed by a temp-file database.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(dbPath, nil)
	require.NoError(t, err)

	t.Cleanup(func() { _ = s.Close() })
	return s
}

func mkUser(t *testing.T, s *Store, username string) *domain.User {
	t.Helper()

	u := &domain.User{
		ID:       id.MustGenerate("user"),
		Username: username,
		Email:    username + "@example.com",
		Role:     domain.RoleUser,
	}
	u.InitTimestamps()
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func mkCategory(t *testing.T, s *Store, slug string) *domain.Category {
	t.Helper()

	now := time.Now()
	c := &domain.Category{
		ID:        id.MustGenerate("category"),
		Name:      "Category " + slug,
		Slug:      slug,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, s.CreateCategory(context.Background(), c))
	return c
}

func mkGenre(t *testing.T, s *Store, slug string) *domain.Genre {
	t.Helper()

	now := time.Now()
	g := &domain.Genre{
		ID:        id.MustGenerate("genre"),
		Name:      "Genre " + slug,
		Slug:      slug,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, s.CreateGenre(context.Background(), g))
	return g
}

func mkTitle(t *testing.T, s *Store, name string, category *domain.Category, genres ...*domain.Genre) *domain.Title {
	t.Helper()

	now := time.Now()
	title := &domain.Title{
		ID:        id.MustGenerate("title"),
		Name:      name,
		Year:      2020,
		Category:  category,
		CreatedAt: now,
		UpdatedAt: now,
	}
	genreIDs := make([]string, len(genres))
	for i, g := range genres {
		genreIDs[i] = g.ID
	}
	require.NoError(t, s.CreateTitle(context.Background(), title, genreIDs))
	return title
}

func mkReview(t *testing.T, s *Store, title *domain.Title, author *domain.User, score int) *domain.Review {
	t.Helper()

	r := &domain.Review{
		ID:       id.MustGenerate("review"),
		TitleID:  title.ID,
		AuthorID: author.ID,
		Text:     "review text",
		Score:    score,
		PubDate:  time.Now(),
	}
	require.NoError(t, s.CreateReview(context.Background(), r))
	return r
}

func mkComment(t *testing.T, s *Store, review *domain.Review, author *domain.User) *domain.Comment {
	t.Helper()

	c := &domain.Comment{
		ID:       id.MustGenerate("comment"),
		ReviewID: review.ID,
		AuthorID: author.ID,
		Text:     "comment text",
		PubDate:  time.Now(),
	}
	require.NoError(t, s.CreateComment(context.Background(), c))
	return c
}

func TestUserUniqueness(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mkUser(t, s, "alice")

	dupUsername := &domain.User{
		ID:       id.MustGenerate("user"),
		Username: "alice",
		Email:    "other@example.com",
		Role:     domain.RoleUser,
	}
	dupUsername.InitTimestamps()
	err := s.CreateUser(ctx, dupUsername)
	assert.ErrorIs(t, err, store.ErrAlreadyExists)

	dupEmail := &domain.User{
		ID:       id.MustGenerate("user"),
		Username: "bob",
		Email:    "alice@example.com",
		Role:     domain.RoleUser,
	}
	dupEmail.InitTimestamps()
	err = s.CreateUser(ctx, dupEmail)
	assert.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestReviewUniquePerAuthorAndTitle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alice := mkUser(t, s, "alice")
	title := mkTitle(t, s, "Dune", nil)
	original := mkReview(t, s, title, alice, 7)

	dup := &domain.Review{
		ID:       id.MustGenerate("review"),
		TitleID:  title.ID,
		AuthorID: alice.ID,
		Text:     "changed my mind",
		Score:    2,
		PubDate:  time.Now(),
	}
	err := s.CreateReview(ctx, dup)
	assert.ErrorIs(t, err, store.ErrAlreadyExists)

	// The original review is untouched.
	got, err := s.GetReview(ctx, title.ID, original.ID)
	require.NoError(t, err)
	assert.Equal(t, "review text", got.Text)
	assert.Equal(t, 7, got.Score)

	// Same author may still review a different title.
	other := mkTitle(t, s, "Hyperion", nil)
	mkReview(t, s, other, alice, 9)
}

func TestTitleRating(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	title := mkTitle(t, s, "Solaris", nil)

	// No reviews: rating is absent, not zero.
	got, err := s.GetTitle(ctx, title.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Rating)

	mkReview(t, s, title, mkUser(t, s, "alice"), 4)
	mkReview(t, s, title, mkUser(t, s, "bob"), 8)

	got, err = s.GetTitle(ctx, title.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Rating)
	assert.InDelta(t, 6.0, *got.Rating, 0.0001)
}

func TestTitleDeleteCascades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alice := mkUser(t, s, "alice")
	category := mkCategory(t, s, "books")
	genre := mkGenre(t, s, "scifi")
	title := mkTitle(t, s, "Dune", category, genre)
	review := mkReview(t, s, title, alice, 8)
	comment := mkComment(t, s, review, alice)

	require.NoError(t, s.DeleteTitle(ctx, title.ID))

	_, err := s.GetTitle(ctx, title.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.GetReview(ctx, title.ID, review.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.GetComment(ctx, review.ID, comment.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	// Category and genre survive the cascade.
	_, err = s.GetCategoryBySlug(ctx, "books")
	assert.NoError(t, err)
	_, err = s.GetGenreBySlug(ctx, "scifi")
	assert.NoError(t, err)
}

func TestCategoryDeleteNullsTitleCategory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	category := mkCategory(t, s, "films")
	title := mkTitle(t, s, "Stalker", category)

	require.NoError(t, s.DeleteCategoryBySlug(ctx, "films"))

	got, err := s.GetTitle(ctx, title.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Category)
}

func TestGenreDeleteRemovesLinksOnly(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	genre := mkGenre(t, s, "noir")
	other := mkGenre(t, s, "thriller")
	title := mkTitle(t, s, "Chinatown", nil, genre, other)

	require.NoError(t, s.DeleteGenreBySlug(ctx, "noir"))

	got, err := s.GetTitle(ctx, title.ID)
	require.NoError(t, err)
	require.Len(t, got.Genres, 1)
	assert.Equal(t, "thriller", got.Genres[0].Slug)
}

func TestUserDeleteCascadesPublications(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alice := mkUser(t, s, "alice")
	bob := mkUser(t, s, "bob")
	title := mkTitle(t, s, "Dune", nil)
	aliceReview := mkReview(t, s, title, alice, 8)
	bobReview := mkReview(t, s, title, bob, 5)
	bobComment := mkComment(t, s, aliceReview, bob)

	require.NoError(t, s.DeleteUser(ctx, bob.ID))

	// Bob's review and comment are gone; Alice's review survives.
	_, err := s.GetReview(ctx, title.ID, bobReview.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.GetComment(ctx, aliceReview.ID, bobComment.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.GetReview(ctx, title.ID, aliceReview.ID)
	assert.NoError(t, err)
}

func TestReviewScopedByTitle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alice := mkUser(t, s, "alice")
	dune := mkTitle(t, s, "Dune", nil)
	solaris := mkTitle(t, s, "Solaris", nil)
	review := mkReview(t, s, dune, alice, 8)

	_, err := s.GetReview(ctx, dune.ID, review.ID)
	assert.NoError(t, err)

	// The same review id under the wrong title does not resolve.
	_, err = s.GetReview(ctx, solaris.ID, review.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCommentScopedByReview(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alice := mkUser(t, s, "alice")
	bob := mkUser(t, s, "bob")
	title := mkTitle(t, s, "Dune", nil)
	aliceReview := mkReview(t, s, title, alice, 8)
	bobReview := mkReview(t, s, title, bob, 5)
	comment := mkComment(t, s, aliceReview, bob)

	_, err := s.GetComment(ctx, aliceReview.ID, comment.ID)
	assert.NoError(t, err)

	_, err = s.GetComment(ctx, bobReview.ID, comment.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGetGenresBySlugs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mkGenre(t, s, "drama")
	mkGenre(t, s, "comedy")

	// Input order is preserved regardless of storage order.
	genres, err := s.GetGenresBySlugs(ctx, []string{"comedy", "drama"})
	require.NoError(t, err)
	require.Len(t, genres, 2)
	assert.Equal(t, "comedy", genres[0].Slug)
	assert.Equal(t, "drama", genres[1].Slug)

	_, err = s.GetGenresBySlugs(ctx, []string{"comedy", "western"})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestReviewListNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	title := mkTitle(t, s, "Dune", nil)

	base := time.Now()
	for i := range 3 {
		author := mkUser(t, s, fmt.Sprintf("user%d", i))
		r := &domain.Review{
			ID:       id.MustGenerate("review"),
			TitleID:  title.ID,
			AuthorID: author.ID,
			Text:     fmt.Sprintf("review %d", i),
			Score:    5,
			PubDate:  base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, s.CreateReview(ctx, r))
	}

	reviews, err := s.ListReviewsForTitle(ctx, title.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 3)
	assert.Equal(t, "review 2", reviews[0].Text)
	assert.Equal(t, "review 0", reviews[2].Text)
}

func TestCategoryListOrdering(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	now := time.Now()
	for _, pair := range [][2]string{{"Books", "books"}, {"Albums", "albums"}, {"Films", "films"}} {
		c := &domain.Category{
			ID:        id.MustGenerate("category"),
			Name:      pair[0],
			Slug:      pair[1],
			CreatedAt: now,
			UpdatedAt: now,
		}
		require.NoError(t, s.CreateCategory(ctx, c))
	}

	categories, err := s.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 3)
	assert.Equal(t, "albums", categories[0].Slug)
	assert.Equal(t, "books", categories[1].Slug)
	assert.Equal(t, "films", categories[2].Slug)
}

func TestUpdateUserConflict(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mkUser(t, s, "alice")
	bob := mkUser(t, s, "bob")

	bob.Username = "alice"
	err := s.UpdateUser(ctx, bob)
	assert.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestForeignKeysOnEveryPooledConnection(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alice := mkUser(t, s, "alice")
	title := mkTitle(t, s, "Dune", nil)
	review := mkReview(t, s, title, alice, 8)
	mkComment(t, s, review, alice)

	// Hold one connection so the next request is forced onto a second one.
	first, err := s.db.Conn(ctx)
	require.NoError(t, err)
	defer first.Close()

	second, err := s.db.Conn(ctx)
	require.NoError(t, err)
	defer second.Close()

	var enabled int
	require.NoError(t, second.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&enabled))
	require.Equal(t, 1, enabled)

	// A delete on the second connection must still cascade.
	_, err = second.ExecContext(ctx, "DELETE FROM titles WHERE id = ?", title.ID)
	require.NoError(t, err)

	var reviews, comments int
	require.NoError(t, second.QueryRowContext(ctx, "SELECT COUNT(*) FROM reviews WHERE title_id = ?", title.ID).Scan(&reviews))
	require.NoError(t, second.QueryRowContext(ctx, "SELECT COUNT(*) FROM comments WHERE review_id = ?", review.ID).Scan(&comments))
	assert.Zero(t, reviews)
	assert.Zero(t, comments)
}
