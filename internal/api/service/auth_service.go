package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ratehub/internal/api/middleware/auth"
	"ratehub/internal/api/models"
	"ratehub/internal/api/repository"
	"ratehub/internal/config"
	"ratehub/internal/notifier"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

// reserved by the /users/me route
const reservedUsername = "me"

type AuthService interface {
	Signup(ctx context.Context, username, email string) (*models.User, error)
	ExchangeToken(ctx context.Context, username, code string) (string, error)
	ValidateToken(tokenString string) (*jwt.Token, error)
}

type authService struct {
	userRepo  repository.UserRepository
	notifier  notifier.Notifier
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	sender notifier.Notifier,
	cfg *config.Config,
) AuthService {
	return &authService{
		userRepo:  userRepo,
		notifier:  sender,
		jwtSecret: cfg.JWTSecret,
		tokenTTL:  cfg.TokenTTL,
	}
}

// Signup registers a user (or returns the existing one for the exact same
// username/email pair), assigns a fresh confirmation code and hands the code
// off for out-of-band delivery. Signing up again deliberately rotates the
// code; the previous one stops working.
func (s *authService) Signup(ctx context.Context, username, email string) (*models.User, error) {
	if username == reservedUsername {
		return nil, ErrReservedUsername
	}

	user, err := s.registerOrGet(username, email)
	if err != nil {
		return nil, err
	}

	code := auth.GenerateCode()
	hashed, err := auth.HashCode(code)
	if err != nil {
		return nil, err
	}
	user.ConfirmationCode = &hashed
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	if err := s.notifier.Send(ctx, notifier.Message{
		Recipient: user.Email,
		Subject:   "Registration",
		Body:      fmt.Sprintf("Your confirmation code: %s", code),
	}); err != nil {
		return nil, err
	}

	return user, nil
}

// registerOrGet resolves the (username, email) pair: an exact match is the
// idempotent-signup case, a partial match is a conflict.
func (s *authService) registerOrGet(username, email string) (*models.User, error) {
	existing, err := s.userRepo.FindByUsername(username)
	if err == nil {
		if existing.Email == email {
			return existing, nil
		}
		return nil, ErrNameInUse
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailInUse
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Role:     models.RoleUser,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// ExchangeToken trades a confirmation code for a bearer token. The code is
// not invalidated on success: repeated exchanges keep working until the next
// signup overwrites the stored code. That mirrors the reference behavior and
// must not be "fixed" into single-use silently.
func (s *authService) ExchangeToken(ctx context.Context, username, code string) (string, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// dummy compare to mitigate timing attacks (always take same time)
			auth.VerifyCode("$2a$10$7EqJtq98hPqEX7fNZaFWoOHi6VbU5h6K9v8u5rO0m3j0h6dX5r8e", code)
			return "", ErrUserNotFound
		}
		return "", err
	}

	if user.ConfirmationCode == nil || auth.VerifyCode(*user.ConfirmationCode, code) != nil {
		return "", ErrInvalidCredentials
	}

	return s.generateToken(user)
}

// generateToken issues an HS256 JWT with a snapshot of the user's identity
// and role. Later role changes do not touch already-issued tokens.
func (s *authService) generateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":   user.ID,
		"username":  user.Username,
		"role":      user.Role,
		"superuser": user.Superuser,
		"exp":       time.Now().Add(s.tokenTTL).Unix(),
		"iat":       time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) ValidateToken(tokenString string) (*jwt.Token, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	return token, nil
}
