package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/critiqueapp/critique-server/internal/domain"
	"github.com/critiqueapp/critique-server/internal/store"
)

// titleColumns selects the title row joined with its optional category.
// Must match the scan order in scanTitle.
const titleColumns = `t.id, t.name, t.year, t.description, t.created_at, t.updated_at,
	c.id, c.name, c.slug, c.created_at, c.updated_at`

const titleFrom = ` FROM titles t LEFT JOIN categories c ON c.id = t.category_id`

// scanTitle scans a joined title+category row. Genres and rating are
// attached separately.
func scanTitle(scanner interface{ Scan(dest ...any) error }) (*domain.Title, error) {
	var t domain.Title

	var (
		createdAt    string
		updatedAt    string
		catID        sql.NullString
		catName      sql.NullString
		catSlug      sql.NullString
		catCreatedAt sql.NullString
		catUpdatedAt sql.NullString
	)

	err := scanner.Scan(
		&t.ID,
		&t.Name,
		&t.Year,
		&t.Description,
		&createdAt,
		&updatedAt,
		&catID,
		&catName,
		&catSlug,
		&catCreatedAt,
		&catUpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	t.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	if catID.Valid {
		c := &domain.Category{
			ID:   catID.String,
			Name: catName.String,
			Slug: catSlug.String,
		}
		c.CreatedAt, err = parseTime(catCreatedAt.String)
		if err != nil {
			return nil, err
		}
		c.UpdatedAt, err = parseTime(catUpdatedAt.String)
		if err != nil {
			return nil, err
		}
		t.Category = c
	}

	return &t, nil
}

// CreateTitle inserts a title and its genre links in one transaction.
func (s *Store) CreateTitle(ctx context.Context, t *domain.Title, genreIDs []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var categoryID sql.NullString
	if t.Category != nil {
		categoryID = nullString(t.Category.ID)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO titles (id, name, year, description, category_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Name, t.Year, t.Description, categoryID,
		formatTime(t.CreatedAt), formatTime(t.UpdatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return err
	}

	for _, genreID := range genreIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO title_genres (title_id, genre_id) VALUES (?, ?)`,
			t.ID, genreID); err != nil {
			return fmt.Errorf("link genre %s: %w", genreID, err)
		}
	}

	return tx.Commit()
}

// GetTitle retrieves a title with its category, genres, and computed rating.
// Returns store.ErrNotFound if the title does not exist.
func (s *Store) GetTitle(ctx context.Context, id string) (*domain.Title, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+titleColumns+titleFrom+` WHERE t.id = ?`, id)

	t, err := scanTitle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := s.attachGenres(ctx, []*domain.Title{t}); err != nil {
		return nil, err
	}
	if err := s.attachRatings(ctx, []*domain.Title{t}); err != nil {
		return nil, err
	}
	return t, nil
}

// ListTitles returns all titles ordered by name, with categories, genres,
// and ratings attached.
func (s *Store) ListTitles(ctx context.Context) ([]*domain.Title, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+titleColumns+titleFrom+` ORDER BY t.name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var titles []*domain.Title
	for rows.Next() {
		t, err := scanTitle(rows)
		if err != nil {
			return nil, err
		}
		titles = append(titles, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.attachGenres(ctx, titles); err != nil {
		return nil, err
	}
	if err := s.attachRatings(ctx, titles); err != nil {
		return nil, err
	}
	return titles, nil
}

// UpdateTitle performs a full update of a title and replaces its genre links.
// Passing nil genreIDs leaves the links untouched.
func (s *Store) UpdateTitle(ctx context.Context, t *domain.Title, genreIDs []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var categoryID sql.NullString
	if t.Category != nil {
		categoryID = nullString(t.Category.ID)
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE titles SET name = ?, year = ?, description = ?, category_id = ?, updated_at = ?
		WHERE id = ?`,
		t.Name, t.Year, t.Description, categoryID, formatTime(t.UpdatedAt), t.ID)
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

	if genreIDs != nil {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM title_genres WHERE title_id = ?`, t.ID); err != nil {
			return err
		}
		for _, genreID := range genreIDs {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO title_genres (title_id, genre_id) VALUES (?, ?)`,
				t.ID, genreID); err != nil {
				return fmt.Errorf("link genre %s: %w", genreID, err)
			}
		}
	}

	return tx.Commit()
}

// DeleteTitle removes a title. Its reviews, their comments, and the genre
// links are removed by the schema's cascade rules.
func (s *Store) DeleteTitle(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM titles WHERE id = ?`, id)
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

// attachGenres loads the genre sets for the given titles.
func (s *Store) attachGenres(ctx context.Context, titles []*domain.Title) error {
	for _, t := range titles {
		rows, err := s.db.QueryContext(ctx, `
			SELECT g.id, g.name, g.slug, g.created_at, g.updated_at
			FROM genres g
			JOIN title_genres tg ON tg.genre_id = g.id
			WHERE tg.title_id = ?
			ORDER BY g.name ASC, g.slug ASC`, t.ID)
		if err != nil {
			return err
		}

		genres := []*domain.Genre{}
		for rows.Next() {
			g, err := scanGenre(rows)
			if err != nil {
				rows.Close()
				return err
			}
			genres = append(genres, g)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return err
		}
		rows.Close()

		t.Genres = genres
	}
	return nil
}

// attachRatings computes mean review scores for the given titles.
// A title with no reviews keeps a nil rating; zero is never substituted.
func (s *Store) attachRatings(ctx context.Context, titles []*domain.Title) error {
	for _, t := range titles {
		var rating sql.NullFloat64
		err := s.db.QueryRowContext(ctx,
			`SELECT AVG(score) FROM reviews WHERE title_id = ?`, t.ID).Scan(&rating)
		if err != nil {
			return err
		}
		if rating.Valid {
			v := rating.Float64
			t.Rating = &v
		} else {
			t.Rating = nil
		}
	}
	return nil
}
