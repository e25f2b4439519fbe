package store

import (
	"context"

	"github.com/critiqueapp/critique-server/internal/domain"
)

// Store is the persistence contract consumed by the service layer.
//
// Implementations must enforce uniqueness at the constraint level (user
// ids/usernames/emails, category and genre slugs, one review per author
// and title) and cascade deletes transactionally on parent deletion.
type Store interface {
	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
	DeleteUser(ctx context.Context, id string) error

	// Categories
	CreateCategory(ctx context.Context, c *domain.Category) error
	GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	UpdateCategory(ctx context.Context, c *domain.Category) error
	DeleteCategoryBySlug(ctx context.Context, slug string) error

	// Genres
	CreateGenre(ctx context.Context, g *domain.Genre) error
	GetGenreBySlug(ctx context.Context, slug string) (*domain.Genre, error)
	GetGenresBySlugs(ctx context.Context, slugs []string) ([]*domain.Genre, error)
	ListGenres(ctx context.Context) ([]*domain.Genre, error)
	UpdateGenre(ctx context.Context, g *domain.Genre) error
	DeleteGenreBySlug(ctx context.Context, slug string) error

	// Titles
	CreateTitle(ctx context.Context, t *domain.Title, genreIDs []string) error
	GetTitle(ctx context.Context, id string) (*domain.Title, error)
	ListTitles(ctx context.Context) ([]*domain.Title, error)
	UpdateTitle(ctx context.Context, t *domain.Title, genreIDs []string) error
	DeleteTitle(ctx context.Context, id string) error

	// Reviews
	CreateReview(ctx context.Context, r *domain.Review) error
	GetReview(ctx context.Context, titleID, reviewID string) (*domain.Review, error)
	ListReviewsForTitle(ctx context.Context, titleID string) ([]*domain.Review, error)
	UpdateReview(ctx context.Context, r *domain.Review) error
	DeleteReview(ctx context.Context, id string) error

	// Comments
	CreateComment(ctx context.Context, c *domain.Comment) error
	GetComment(ctx context.Context, reviewID, commentID string) (*domain.Comment, error)
	ListCommentsForReview(ctx context.Context, reviewID string) ([]*domain.Comment, error)
	UpdateComment(ctx context.Context, c *domain.Comment) error
	DeleteComment(ctx context.Context, id string) error
}
