package service

import (
	"context"
	"errors"
	"fmt"

	"cloudrental-backend/internal/domain"
	"cloudrental-backend/internal/identity"
	"cloudrental-backend/internal/logger"
	"cloudrental-backend/internal/repository"
	"cloudrental-backend/internal/security"
)

type authService struct {
	userRepo repository.UserRepository
	tokens   security.TokenManager
	ids      identity.Generator
}

func NewAuthService(userRepo repository.UserRepository, tokens security.TokenManager, ids identity.Generator) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		ids:      ids,
	}
}

func (s *authService) Register(ctx context.Context, username, password string, role domain.UserRole, name string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password must not be empty", domain.ErrInvalidArgument)
	}
	if !validUserRole(role) {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidArgument, role)
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		ID:           s.ids.NewID(identity.PrefixUser),
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		Status:       domain.UserStatusActive,
		Name:         name,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Info("User registered", "user_id", user.ID, "username", username, "role", role)
	return user, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, fmt.Errorf("%w: unknown username or wrong password", domain.ErrInvalidCredentials)
		}
		return "", nil, err
	}
	if !security.VerifyPassword(user.PasswordHash, password) {
		return "", nil, fmt.Errorf("%w: unknown username or wrong password", domain.ErrInvalidCredentials)
	}
	if user.Status != domain.UserStatusActive {
		return "", nil, fmt.Errorf("%w: account %s", domain.ErrAccountSuspended, username)
	}

	token, err := s.tokens.GenerateSessionToken(user.ID, user.Role)
	if err != nil {
		return "", nil, err
	}

	logger.Info("User logged in", "user_id", user.ID, "username", username)
	return token, user, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (domain.Principal, error) {
	principal, err := s.tokens.ValidateToken(token)
	if err != nil {
		return domain.Principal{}, fmt.Errorf("%w: %v", domain.ErrNotAuthenticated, err)
	}
	return principal, nil
}
