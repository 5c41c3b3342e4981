// Package auth
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"mailauth/internal/domain"
)

type service struct {
	repo        domain.UserRepository
	hasher      domain.PasswordHasher
	jwtSecret   []byte
	tokenExpiry time.Duration
}

func NewService(repo domain.UserRepository, hasher domain.PasswordHasher, secret string, expiry time.Duration) domain.AuthService {
	return &service{
		repo:        repo,
		hasher:      hasher,
		jwtSecret:   []byte(secret),
		tokenExpiry: expiry,
	}
}

func (s *service) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	_, err := s.repo.GetByEmail(ctx, req.Email)
	if err == nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hashedPwd, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Name:      req.Name,
		Email:     req.Email,
		Password:  hashedPwd,
		CreatedAt: time.Now(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *service) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error) {
	// A missing user and a wrong password answer with the same error so the
	// login route never discloses which one it was.
	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	valid, err := s.hasher.Verify(req.Password, user.Password)
	if err != nil || !valid {
		return nil, domain.ErrInvalidCredentials
	}

	claims := jwt.MapClaims{
		"sub": user.ID,
		"exp": time.Now().Add(s.tokenExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &domain.AuthResponse{
		User:  user,
		Token: tokenString,
	}, nil
}

func (s *service) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.GetByID(ctx, userID)
}
