package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/critiqueapp/critique-server/internal/domain"
	"github.com/critiqueapp/critique-server/internal/store"
)

const genreColumns = `id, name, slug, created_at, updated_at`

func scanGenre(scanner interface{ Scan(dest ...any) error }) (*domain.Genre, error) {
	var g domain.Genre
	var createdAt, updatedAt string

	err := scanner.Scan(&g.ID, &g.Name, &g.Slug, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	g.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	g.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// CreateGenre inserts a new genre.
// Returns store.ErrAlreadyExists if the slug is taken.
func (s *Store) CreateGenre(ctx context.Context, g *domain.Genre) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO genres (id, name, slug, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		g.ID, g.Name, g.Slug, formatTime(g.CreatedAt), formatTime(g.UpdatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetGenreBySlug retrieves a genre by slug.
func (s *Store) GetGenreBySlug(ctx context.Context, slug string) (*domain.Genre, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+genreColumns+` FROM genres WHERE slug = ?`, slug)

	g, err := scanGenre(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}

// GetGenresBySlugs resolves a set of slugs to genres, preserving input order.
// Returns store.ErrNotFound if any slug is unknown.
func (s *Store) GetGenresBySlugs(ctx context.Context, slugs []string) ([]*domain.Genre, error) {
	if len(slugs) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(slugs)), ",")
	args := make([]any, len(slugs))
	for i, slug := range slugs {
		args[i] = slug
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+genreColumns+` FROM genres WHERE slug IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bySlug := make(map[string]*domain.Genre, len(slugs))
	for rows.Next() {
		g, err := scanGenre(rows)
		if err != nil {
			return nil, err
		}
		bySlug[g.Slug] = g
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	genres := make([]*domain.Genre, 0, len(slugs))
	for _, slug := range slugs {
		g, ok := bySlug[slug]
		if !ok {
			return nil, store.ErrNotFound.WithMessage("genre " + slug + " not found")
		}
		genres = append(genres, g)
	}
	return genres, nil
}

// ListGenres returns all genres ordered by name, then slug.
func (s *Store) ListGenres(ctx context.Context) ([]*domain.Genre, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+genreColumns+` FROM genres ORDER BY name ASC, slug ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var genres []*domain.Genre
	for rows.Next() {
		g, err := scanGenre(rows)
		if err != nil {
			return nil, err
		}
		genres = append(genres, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return genres, nil
}

// UpdateGenre updates a genre's name. The slug is immutable.
func (s *Store) UpdateGenre(ctx context.Context, g *domain.Genre) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE genres SET name = ?, updated_at = ? WHERE slug = ?`,
		g.Name, formatTime(g.UpdatedAt), g.Slug)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteGenreBySlug removes a genre. Association rows are removed by the
// cascade rule; titles themselves are untouched.
func (s *Store) DeleteGenreBySlug(ctx context.Context, slug string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM genres WHERE slug = ?`, slug)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
