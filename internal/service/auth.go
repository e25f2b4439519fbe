package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/critiqueapp/critique-server/internal/auth"
	"github.com/critiqueapp/critique-server/internal/domain"
	"github.com/critiqueapp/critique-server/internal/errors"
	"github.com/critiqueapp/critique-server/internal/id"
	"github.com/critiqueapp/critique-server/internal/mail"
	"github.com/critiqueapp/critique-server/internal/store"
	"github.com/critiqueapp/critique-server/internal/validation"
)

const mailTimeout = 30 * time.Second

// AuthService handles registration and bearer-token issuance.
type AuthService struct {
	store     store.Store
	logger    *slog.Logger
	validator *validation.Validator
	tokens    *auth.TokenService
	confirm   *auth.ConfirmationService
	mailer    mail.Mailer
}

// NewAuthService creates a new auth service.
func NewAuthService(store store.Store, tokens *auth.TokenService, confirm *auth.ConfirmationService, mailer mail.Mailer, logger *slog.Logger) *AuthService {
	return &AuthService{
		store:     store,
		logger:    logger,
		validator: validation.New(),
		tokens:    tokens,
		confirm:   confirm,
		mailer:    mailer,
	}
}

// SignupRequest contains the registration fields.
type SignupRequest struct {
	Username string `json:"username" validate:"required,max=150,username"`
	Email    string `json:"email" validate:"required,email,max=254"`
}

// SignupResponse echoes the registered pair.
type SignupResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Signup registers an account and emails a confirmation code.
//
// Repeating a signup with the exact same (username, email) pair is
// idempotent: no new account, a fresh code is mailed. A request matching an
// existing account on only one of the two fields is a conflict.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*SignupResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.resolveSignupUser(ctx, req)
	if err != nil {
		return nil, err
	}

	if user == nil {
		userID, err := id.Generate("user")
		if err != nil {
			return nil, err
		}
		user = &domain.User{
			ID:       userID,
			Username: req.Username,
			Email:    req.Email,
			Role:     domain.RoleUser,
		}
		user.InitTimestamps()

		if err := s.store.CreateUser(ctx, user); err != nil {
			// The pre-checks above do not close the race against a
			// concurrent signup; the unique constraints do.
			if errors.Is(err, store.ErrAlreadyExists) {
				return nil, errors.Conflict("username or email already in use")
			}
			return nil, err
		}
		s.logger.Info("user registered", "username", user.Username)
	} else {
		s.logger.Info("confirmation code re-issued", "username", user.Username)
	}

	s.sendConfirmation(user)

	return &SignupResponse{Username: user.Username, Email: user.Email}, nil
}

// resolveSignupUser decides whether the signup pair maps to an existing
// account (idempotent re-issue), a fresh one (nil), or a collision.
func (s *AuthService) resolveSignupUser(ctx context.Context, req SignupRequest) (*domain.User, error) {
	byUsername, err := s.store.GetUserByUsername(ctx, req.Username)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	byEmail, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	switch {
	case byUsername == nil && byEmail == nil:
		return nil, nil
	case byUsername != nil && byEmail != nil && byUsername.ID == byEmail.ID:
		return byUsername, nil
	case byUsername != nil && byEmail == nil:
		return nil, errors.Conflict("username already in use")
	case byUsername == nil && byEmail != nil:
		return nil, errors.Conflict("email already in use")
	default:
		// Both taken, by two different accounts.
		return nil, errors.Conflict("username and email belong to different accounts")
	}
}

// sendConfirmation mails a confirmation code. Fire and forget: failures are
// logged, never surfaced to the caller, never retried.
func (s *AuthService) sendConfirmation(user *domain.User) {
	code := s.confirm.Issue(user)
	recipient := user.Email
	username := user.Username

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), mailTimeout)
		defer cancel()

		body := fmt.Sprintf("Hello %s,\n\nYour confirmation code is:\n\n%s\n\nExchange it at /api/v1/auth/token to receive an access token.\n", username, code)
		if err := s.mailer.Send(ctx, recipient, "Your Critique confirmation code", body); err != nil {
			s.logger.Error("failed to send confirmation email", "username", username, "error", err)
		}
	}()
}

// TokenRequest contains the code-exchange fields.
type TokenRequest struct {
	Username         string `json:"username" validate:"required,max=150"`
	ConfirmationCode string `json:"confirmation_code" validate:"required"`
}

// TokenResponse carries the minted bearer token.
type TokenResponse struct {
	Token string `json:"token"`
}

// IssueToken exchanges a confirmation code for a bearer token.
//
// An unknown username is NotFound; a bad code is a validation failure that
// deliberately does not say which part of the code was wrong.
func (s *AuthService) IssueToken(ctx context.Context, req TokenRequest) (*TokenResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFoundf("user %q not found", req.Username)
		}
		return nil, err
	}

	if !s.confirm.Verify(user, req.ConfirmationCode) {
		return nil, errors.Validation("invalid confirmation code")
	}

	token, err := s.tokens.MintBearer(user)
	if err != nil {
		return nil, errors.Internal("failed to issue token").WithCause(err)
	}

	s.logger.Info("token issued", "username", user.Username)
	return &TokenResponse{Token: token}, nil
}
