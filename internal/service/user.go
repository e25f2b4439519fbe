package service

import (
	"context"
	"log/slog"

	"github.com/critiqueapp/critique-server/internal/domain"
	"github.com/critiqueapp/critique-server/internal/errors"
	"github.com/critiqueapp/critique-server/internal/id"
	"github.com/critiqueapp/critique-server/internal/policy"
	"github.com/critiqueapp/critique-server/internal/store"
	"github.com/critiqueapp/critique-server/internal/validation"
)

// UserService orchestrates account administration and self-profile access.
// The admin surface is keyed by username; /me operates on the caller.
type UserService struct {
	store     store.Store
	logger    *slog.Logger
	validator *validation.Validator
}

// NewUserService creates a new user service.
func NewUserService(store store.Store, logger *slog.Logger) *UserService {
	return &UserService{
		store:     store,
		logger:    logger,
		validator: validation.New(),
	}
}

// ListUsers returns all accounts ordered by username. Admin only.
func (s *UserService) ListUsers(ctx context.Context, caller *domain.User) ([]*domain.User, error) {
	if err := policy.RequireUserAdmin(caller); err != nil {
		return nil, err
	}
	return s.store.ListUsers(ctx)
}

// GetUser returns a single account by username. Admin only.
func (s *UserService) GetUser(ctx context.Context, caller *domain.User, username string) (*domain.User, error) {
	if err := policy.RequireUserAdmin(caller); err != nil {
		return nil, err
	}
	return s.getByUsername(ctx, username)
}

// CreateUserRequest contains fields for the admin account-creation endpoint.
// Admin-created accounts are active immediately, no confirmation round-trip.
type CreateUserRequest struct {
	Username  string `json:"username" validate:"required,max=150,username"`
	Email     string `json:"email" validate:"required,email,max=254"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
	Bio       string `json:"bio"`
	Role      string `json:"role" validate:"omitempty,oneof=user moderator admin"`
}

// CreateUser creates an account. Admin only.
func (s *UserService) CreateUser(ctx context.Context, caller *domain.User, req CreateUserRequest) (*domain.User, error) {
	if err := policy.RequireUserAdmin(caller); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	role := domain.Role(req.Role)
	if req.Role == "" {
		role = domain.RoleUser
	}

	userID, err := id.Generate("user")
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		ID:        userID,
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Role:      role,
	}
	u.InitTimestamps()

	if err := s.store.CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, errors.Conflict("username or email already in use")
		}
		return nil, err
	}

	s.logger.Info("user created by admin", "username", req.Username, "role", role, "by", caller.Username)
	return u, nil
}

// UpdateUserRequest contains fields for the admin account-update endpoint.
// Nil fields are left unchanged.
type UpdateUserRequest struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
	Role      *string `json:"role"`
}

// UpdateUser applies a partial update to an account. Admin only; this is
// the only path that can change a role.
func (s *UserService) UpdateUser(ctx context.Context, caller *domain.User, username string, req UpdateUserRequest) (*domain.User, error) {
	if err := policy.RequireUserAdmin(caller); err != nil {
		return nil, err
	}

	u, err := s.getByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if err := s.applyProfile(u, req.Username, req.Email, req.FirstName, req.LastName, req.Bio); err != nil {
		return nil, err
	}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		if !role.IsValid() {
			return nil, errors.Validationf("role must be one of: user, moderator, admin")
		}
		u.Role = role
	}

	u.Touch()

	if err := s.store.UpdateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, errors.Conflict("username or email already in use")
		}
		return nil, err
	}
	return u, nil
}

// DeleteUser removes an account; the account's reviews and comments go with
// it. Admin only.
func (s *UserService) DeleteUser(ctx context.Context, caller *domain.User, username string) error {
	if err := policy.RequireUserAdmin(caller); err != nil {
		return err
	}

	u, err := s.getByUsername(ctx, username)
	if err != nil {
		return err
	}

	if err := s.store.DeleteUser(ctx, u.ID); err != nil {
		return err
	}

	s.logger.Info("user deleted", "username", username, "by", caller.Username)
	return nil
}

// Me returns the caller's own profile, freshly loaded.
func (s *UserService) Me(ctx context.Context, caller *domain.User) (*domain.User, error) {
	if err := policy.RequireAuthenticated(caller); err != nil {
		return nil, err
	}
	u, err := s.store.GetUser(ctx, caller.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.Unauthorized("account no longer exists")
		}
		return nil, err
	}
	return u, nil
}

// UpdateMeRequest contains the self-editable profile fields. There is no
// role field here: a role key in the request body is silently dropped at
// decode time and the stored role survives unchanged.
type UpdateMeRequest struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
}

// UpdateMe applies a partial update to the caller's own profile.
func (s *UserService) UpdateMe(ctx context.Context, caller *domain.User, req UpdateMeRequest) (*domain.User, error) {
	u, err := s.Me(ctx, caller)
	if err != nil {
		return nil, err
	}

	if err := s.applyProfile(u, req.Username, req.Email, req.FirstName, req.LastName, req.Bio); err != nil {
		return nil, err
	}

	u.Touch()

	if err := s.store.UpdateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, errors.Conflict("username or email already in use")
		}
		return nil, err
	}
	return u, nil
}

// profileFields mirrors the validation rules of CreateUserRequest for the
// partial-update paths.
type profileFields struct {
	Username  string `json:"username" validate:"omitempty,max=150,username"`
	Email     string `json:"email" validate:"omitempty,email,max=254"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
}

// applyProfile validates and applies the shared profile fields in place.
func (s *UserService) applyProfile(u *domain.User, username, email, firstName, lastName, bio *string) error {
	check := profileFields{}
	if username != nil {
		if *username == "" {
			return errors.Validation("username must not be empty")
		}
		check.Username = *username
	}
	if email != nil {
		if *email == "" {
			return errors.Validation("email must not be empty")
		}
		check.Email = *email
	}
	if firstName != nil {
		check.FirstName = *firstName
	}
	if lastName != nil {
		check.LastName = *lastName
	}
	if err := s.validator.Validate(check); err != nil {
		return err
	}

	if username != nil {
		u.Username = *username
	}
	if email != nil {
		u.Email = *email
	}
	if firstName != nil {
		u.FirstName = *firstName
	}
	if lastName != nil {
		u.LastName = *lastName
	}
	if bio != nil {
		u.Bio = *bio
	}
	return nil
}

func (s *UserService) getByUsername(ctx context.Context, username string) (*domain.User, error) {
	u, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFoundf("user %q not found", username)
		}
		return nil, err
	}
	return u, nil
}
