package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"storefront/internal/auth"
	"storefront/internal/metrics"
	"storefront/internal/models"
	"storefront/internal/repositories"
)

// AuthService handles registration, login and token resolution.
type AuthService struct {
	userRepo repositories.UserRepository
	hasher   auth.PasswordHasher
	tokens   auth.TokenCodec
	log      zerolog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, hasher auth.PasswordHasher, tokens auth.TokenCodec, log zerolog.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		log:      log.With().Str("service", "auth").Logger(),
	}
}

// Register creates a user and returns a token for it. A taken username yields
// ErrUsernameTaken whether it is caught by the lookup or by the unique index.
func (s *AuthService) Register(ctx context.Context, username, password string) (string, error) {
	_, err := s.userRepo.GetByUsername(ctx, username)
	if err == nil {
		return "", ErrUsernameTaken
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return "", err
	}

	hashed, err := s.hasher.Hash(password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return "", fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	if err != nil {
		return "", err
	}

	user := &models.User{Username: username, Password: hashed}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return "", ErrUsernameTaken
		}
		return "", err
	}
	metrics.UsersRegisteredTotal.Inc()
	s.log.Info().Int("user_id", user.ID).Str("username", username).Msg("user registered")

	return s.tokens.Issue(user.ID)
}

// Login checks credentials and returns a token. Unknown users and wrong
// passwords both produce ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if errors.Is(err, repositories.ErrNotFound) {
		s.loginFailed(username, "unknown_user")
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}

	if err := s.hasher.Compare(user.Password, password); err != nil {
		if !errors.Is(err, auth.ErrPasswordMismatch) {
			s.log.Warn().Err(err).Int("user_id", user.ID).Msg("stored password hash rejected")
		}
		s.loginFailed(username, "wrong_password")
		return "", ErrInvalidCredentials
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return s.tokens.Issue(user.ID)
}

func (s *AuthService) loginFailed(username, reason string) {
	metrics.LoginsTotal.WithLabelValues(reason).Inc()
	s.log.Debug().Str("username", username).Str("reason", reason).Msg("login failed")
}

// Authenticate resolves a bearer token to its user. Any failure, including a
// token for a user that no longer exists, is ErrInvalidToken.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	id, err := s.tokens.Verify(token)
	if err != nil {
		s.log.Debug().Err(err).Msg("token rejected")
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		s.log.Debug().Err(err).Int("user_id", id).Msg("token user lookup failed")
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return user, nil
}
