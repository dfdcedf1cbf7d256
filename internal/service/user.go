package service

import (
	"context"
	"errors"

	"tontine-core/internal/model"
	"tontine-core/internal/repository"
	"tontine-core/pkg/auth"
	"tontine-core/pkg/errno"
	"tontine-core/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UserService handles registration, login and profile management
type UserService struct {
	store  repository.Store
	tokens *auth.TokenManager
}

func NewUserService(store repository.Store, tokens *auth.TokenManager) *UserService {
	return &UserService{store: store, tokens: tokens}
}

// Register creates a user and returns it with a fresh token
func (s *UserService) Register(ctx context.Context, name, email, password string) (*model.User, string, error) {
	existing, err := s.store.Users().GetByEmail(ctx, email)
	if err != nil {
		return nil, "", errno.ErrDatabase
	}
	if existing != nil {
		return nil, "", errno.ErrEmailTaken
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", errno.InternalServerError
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.store.Users().Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", errno.ErrEmailTaken
		}
		return nil, "", errno.ErrDatabase
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, "", errno.InternalServerError
	}

	logger.Info("user registered", zap.Uint64("user_id", user.ID))
	return user, token, nil
}

// Login verifies credentials and issues a token
func (s *UserService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.store.Users().GetByEmail(ctx, email)
	if err != nil {
		return nil, "", errno.ErrDatabase
	}
	if user == nil || !auth.VerifyPassword(password, user.PasswordHash) {
		// same error for unknown email and bad password
		return nil, "", errno.ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, "", errno.InternalServerError
	}
	return user, token, nil
}

// GetProfile returns the user's own record
func (s *UserService) GetProfile(ctx context.Context, userID uint64) (*model.User, error) {
	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, errno.ErrDatabase
	}
	if user == nil {
		return nil, errno.ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile changes name and/or email. The email must not belong to
// another account.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint64, name, email string) (*model.User, error) {
	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, errno.ErrDatabase
	}
	if user == nil {
		return nil, errno.ErrUserNotFound
	}

	if email != "" && email != user.Email {
		existing, err := s.store.Users().GetByEmail(ctx, email)
		if err != nil {
			return nil, errno.ErrDatabase
		}
		if existing != nil && existing.ID != userID {
			return nil, errno.ErrEmailTaken.WithMessage("Email already in use")
		}
		user.Email = email
	}
	if name != "" {
		user.Name = name
	}

	if err := s.store.Users().Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errno.ErrEmailTaken.WithMessage("Email already in use")
		}
		return nil, errno.ErrDatabase
	}
	return user, nil
}
