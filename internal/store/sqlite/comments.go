package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/critiqueapp/critique-server/internal/domain"
	"github.com/critiqueapp/critique-server/internal/store"
)

const commentColumns = `c.id, c.review_id, c.author_id, u.username, c.text, c.pub_date`

const commentFrom = ` FROM comments c JOIN users u ON u.id = c.author_id`

func scanComment(scanner interface{ Scan(dest ...any) error }) (*domain.Comment, error) {
	var c domain.Comment
	var pubDate string

	err := scanner.Scan(
		&c.ID,
		&c.ReviewID,
		&c.AuthorID,
		&c.Author,
		&c.Text,
		&pubDate,
	)
	if err != nil {
		return nil, err
	}

	c.PubDate, err = parseTime(pubDate)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateComment inserts a comment under a review.
func (s *Store) CreateComment(ctx context.Context, c *domain.Comment) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO comments (id, review_id, author_id, text, pub_date)
		VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.ReviewID, c.AuthorID, c.Text, formatTime(c.PubDate))
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetComment retrieves a comment by id scoped to a review.
func (s *Store) GetComment(ctx context.Context, reviewID, commentID string) (*domain.Comment, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+commentColumns+commentFrom+` WHERE c.id = ? AND c.review_id = ?`,
		commentID, reviewID)

	c, err := scanComment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListCommentsForReview returns a review's comments, newest first.
func (s *Store) ListCommentsForReview(ctx context.Context, reviewID string) ([]*domain.Comment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+commentColumns+commentFrom+` WHERE c.review_id = ? ORDER BY c.pub_date DESC`,
		reviewID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*domain.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return comments, nil
}

// UpdateComment updates a comment's text. Author, review, and pub_date are
// immutable after creation.
func (s *Store) UpdateComment(ctx context.Context, c *domain.Comment) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE comments SET text = ? WHERE id = ?`,
		c.Text, c.ID)
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

// DeleteComment removes a comment.
func (s *Store) DeleteComment(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
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
