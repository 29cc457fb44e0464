package service

import (
	"context"
	"strconv"

	"github.com/obatqu/obatqu-backend/internal/auth/jwt"
	"github.com/obatqu/obatqu-backend/internal/auth/repository"
	"github.com/obatqu/obatqu-backend/pkg/errors"
	"github.com/obatqu/obatqu-backend/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

// LoginRequest is the credentials payload.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResult carries the issued token and the authenticated user.
type LoginResult struct {
	Token string           `json:"token"`
	User  *repository.User `json:"user"`
}

// AuthService implements login and account lookups.
type AuthService struct {
	users  *repository.UserRepository
	tokens *jwt.Manager
	logger *logger.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(users *repository.UserRepository, tokens *jwt.Manager, log *logger.Logger) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		logger: log.WithComponent("auth-service"),
	}
}

// Login verifies credentials and issues an access token. Unknown user
// and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, errors.InvalidCredentials()
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		s.logger.Warn().Str("username", req.Username).Msg("failed login attempt")
		return nil, errors.InvalidCredentials()
	}

	token, err := s.tokens.Generate(strconv.Itoa(user.ID), user.Username, user.Role)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("username", user.Username).Str("role", user.Role).Msg("user logged in")
	return &LoginResult{Token: token, User: user}, nil
}

// Me returns the account for the authenticated username.
func (s *AuthService) Me(ctx context.Context, username string) (*repository.User, error) {
	return s.users.GetByUsername(ctx, username)
}

// ListUsers returns all accounts. Callers must enforce the APJ role.
func (s *AuthService) ListUsers(ctx context.Context) ([]*repository.User, error) {
	return s.users.List(ctx)
}

// HashPassword hashes a plaintext password for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
