package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/critiqueapp/critique-server/internal/domain"
	"github.com/critiqueapp/critique-server/internal/store"
)

// reviewColumns joins the author's username for display.
// Must match the scan order in scanReview.
const reviewColumns = `r.id, r.title_id, r.author_id, u.username, r.text, r.score, r.pub_date`

const reviewFrom = ` FROM reviews r JOIN users u ON u.id = r.author_id`

func scanReview(scanner interface{ Scan(dest ...any) error }) (*domain.Review, error) {
	var r domain.Review
	var pubDate string

	err := scanner.Scan(
		&r.ID,
		&r.TitleID,
		&r.AuthorID,
		&r.Author,
		&r.Text,
		&r.Score,
		&pubDate,
	)
	if err != nil {
		return nil, err
	}

	r.PubDate, err = parseTime(pubDate)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// CreateReview inserts a review.
//
// The (author, title) uniqueness invariant is enforced here by the schema's
// unique constraint. A duplicate attempt returns store.ErrAlreadyExists and
// leaves the original row untouched; there is no check-then-insert window.
func (s *Store) CreateReview(ctx context.Context, r *domain.Review) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reviews (id, title_id, author_id, text, score, pub_date)
		VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.TitleID, r.AuthorID, r.Text, r.Score, formatTime(r.PubDate))
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetReview retrieves a review by id scoped to a title. A review that
// exists under a different title is reported as not found; the nesting is
// part of the identity, not a convenience.
func (s *Store) GetReview(ctx context.Context, titleID, reviewID string) (*domain.Review, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+reviewColumns+reviewFrom+` WHERE r.id = ? AND r.title_id = ?`,
		reviewID, titleID)

	r, err := scanReview(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// ListReviewsForTitle returns a title's reviews, newest first.
func (s *Store) ListReviewsForTitle(ctx context.Context, titleID string) ([]*domain.Review, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+reviewColumns+reviewFrom+` WHERE r.title_id = ? ORDER BY r.pub_date DESC`,
		titleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []*domain.Review
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reviews, nil
}

// UpdateReview updates a review's text and score. Author, title, and
// pub_date are immutable after creation.
func (s *Store) UpdateReview(ctx context.Context, r *domain.Review) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE reviews SET text = ?, score = ? WHERE id = ?`,
		r.Text, r.Score, r.ID)
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

// DeleteReview removes a review. Its comments are removed by the cascade rule.
func (s *Store) DeleteReview(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = ?`, id)
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
