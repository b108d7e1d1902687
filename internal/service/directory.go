package service

import (
	"context"
	"fmt"

	"cloudrental-backend/internal/domain"
	"cloudrental-backend/internal/identity"
	"cloudrental-backend/internal/logger"
	"cloudrental-backend/internal/repository"
	"cloudrental-backend/internal/security"
)

type directoryService struct {
	userRepo repository.UserRepository
	ids      identity.Generator
}

func NewDirectoryService(userRepo repository.UserRepository, ids identity.Generator) DirectoryService {
	return &directoryService{
		userRepo: userRepo,
		ids:      ids,
	}
}

func validUserRole(role domain.UserRole) bool {
	switch role {
	case domain.UserRoleStudent, domain.UserRoleTeacher, domain.UserRoleAdmin:
		return true
	}
	return false
}

func validUserStatus(status domain.UserStatus) bool {
	return status == domain.UserStatusActive || status == domain.UserStatusSuspended
}

func (s *directoryService) AddUser(ctx context.Context, actor domain.Principal, username, password string, role domain.UserRole, name string) (*domain.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
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

	logger.Info("User added", "user_id", user.ID, "username", username, "role", role, "admin_id", actor.UserID)
	return user, nil
}

// ModifyUser is the admin override: name, role, account status and
// balance are replaced wholesale.
func (s *directoryService) ModifyUser(ctx context.Context, actor domain.Principal, username, name string, role domain.UserRole, status domain.UserStatus, balanceCents int64) (*domain.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if !validUserRole(role) {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidArgument, role)
	}
	if !validUserStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidArgument, status)
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	user.Name = name
	user.Role = role
	user.Status = status
	user.BalanceCents = balanceCents
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	logger.Info("User modified", "user_id", user.ID, "username", username, "admin_id", actor.UserID)
	if status == domain.UserStatusSuspended {
		logger.Warn("User suspended, active rentals may need manual review", "user_id", user.ID, "username", username)
	}
	return user, nil
}

func (s *directoryService) SetUserStatus(ctx context.Context, actor domain.Principal, username string, status domain.UserStatus) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if !validUserStatus(status) {
		return fmt.Errorf("%w: unknown status %q", domain.ErrInvalidArgument, status)
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	user.Status = status
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	logger.Info("User status changed", "user_id", user.ID, "username", username, "status", status, "admin_id", actor.UserID)
	return nil
}

func (s *directoryService) ListUsers(ctx context.Context, actor domain.Principal) ([]domain.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.userRepo.List(ctx)
}

func (s *directoryService) GetProfile(ctx context.Context, actor domain.Principal) (*domain.User, error) {
	if actor.IsZero() {
		return nil, fmt.Errorf("%w: profile access requires a logged-in user", domain.ErrNotAuthenticated)
	}
	return s.userRepo.GetByID(ctx, actor.UserID)
}

func (s *directoryService) UpdateName(ctx context.Context, actor domain.Principal, name string) error {
	if actor.IsZero() {
		return fmt.Errorf("%w: updating the profile requires a logged-in user", domain.ErrNotAuthenticated)
	}
	if name == "" {
		return fmt.Errorf("%w: name must not be empty", domain.ErrInvalidArgument)
	}

	user, err := s.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		return err
	}
	user.Name = name
	return s.userRepo.Update(ctx, user)
}

func (s *directoryService) UpdatePassword(ctx context.Context, actor domain.Principal, password string) error {
	if actor.IsZero() {
		return fmt.Errorf("%w: updating the password requires a logged-in user", domain.ErrNotAuthenticated)
	}
	if password == "" {
		return fmt.Errorf("%w: password must not be empty", domain.ErrInvalidArgument)
	}

	user, err := s.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		return err
	}
	hash, err := security.HashPassword(password)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	return s.userRepo.Update(ctx, user)
}
