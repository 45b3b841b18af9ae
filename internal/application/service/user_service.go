package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/expenseflow/expenseflow/internal/application/port"
	"github.com/expenseflow/expenseflow/internal/domain/entity"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// UserService handles authentication and the user directory
type UserService interface {
	Authenticate(ctx context.Context, email, password string) (*entity.User, string, error)
	VerifyToken(tokenString string) (int64, error)
	GetUser(ctx context.Context, id int64) (*entity.User, error)
	ListUsers(ctx context.Context) ([]*entity.User, error)
}

type userServiceImpl struct {
	userRepo   port.UserRepository
	signingKey []byte
	tokenTTL   time.Duration
	logger     Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo port.UserRepository, signingKey []byte, tokenTTL time.Duration, logger Logger) UserService {
	return &userServiceImpl{
		userRepo:   userRepo,
		signingKey: signingKey,
		tokenTTL:   tokenTTL,
		logger:     logger,
	}
}

// Authenticate verifies the credentials and returns the user together with
// a signed session token.
func (s *userServiceImpl) Authenticate(ctx context.Context, email, password string) (*entity.User, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		s.logger.Error("Failed to look up user by email", "error", err)
		return nil, "", err
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(user.ID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		s.logger.Error("Failed to sign token", "error", err, "user_id", user.ID)
		return nil, "", fmt.Errorf("sign token: %w", err)
	}

	s.logger.Info("User authenticated", "user_id", user.ID, "role", user.Role.String())
	return user, token, nil
}

// VerifyToken validates a session token and returns the user ID it carries.
func (s *userServiceImpl) VerifyToken(tokenString string) (int64, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.signingKey, nil
	})
	if err != nil {
		return 0, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return 0, fmt.Errorf("invalid token claims")
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid token subject: %w", err)
	}
	return userID, nil
}

// GetUser retrieves a user by ID
func (s *userServiceImpl) GetUser(ctx context.Context, id int64) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get user", "error", err, "id", id)
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: id %d", ErrUserNotFound, id)
	}
	return user, nil
}

// ListUsers returns the full user directory
func (s *userServiceImpl) ListUsers(ctx context.Context) ([]*entity.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list users", "error", err)
		return nil, err
	}
	return users, nil
}
