package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"printstudio/internal/apperrors"
	"printstudio/internal/models"
	"printstudio/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// TokenTTL is how long an issued token stays valid.
const TokenTTL = 24 * time.Hour

// TokenClaims is the payload of an access token. Subject carries the username.
type TokenClaims struct {
	Role   string `json:"role"`
	UserID string `json:"id"`
	jwt.StandardClaims
}

// LoginResult is what a successful login hands back.
type LoginResult struct {
	Token string
	User  *models.User
}

// AuthService handles credential checks, token issuance and token verification.
type AuthService struct {
	userRepo   repositories.UserRepository
	jwtSecret  []byte
	tokenDurat time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: TokenTTL,
	}
}

// Authenticate checks username and password and issues a token for the user.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.WithDetail(apperrors.ErrInvalidCredentials, "Incorrect username or password")
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, apperrors.WithDetail(apperrors.ErrInvalidCredentials, "Incorrect username or password")
	}
	if !user.IsActive {
		return nil, apperrors.WithDetail(apperrors.ErrAccountDisabled, "User account is disabled")
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, User: user}, nil
}

// IssueToken signs an HS256 token for user, valid for TokenTTL.
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		Role:   user.Role,
		UserID: user.ID,
		StandardClaims: jwt.StandardClaims{
			Subject:   user.Username,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(s.tokenDurat).Unix(),
		},
	}
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ParseToken checks the signature and expiry of tokenString and returns its claims.
func (s *AuthService) ParseToken(tokenString string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}

// Verify resolves a token to the current user record. The user is always re-read so
// role changes and deactivation apply to tokens already issued.
func (s *AuthService) Verify(ctx context.Context, tokenString string) (*models.User, error) {
	claims, err := s.ParseToken(tokenString)
	if err != nil {
		return nil, apperrors.WithDetail(err, "Invalid token")
	}

	user, err := s.userRepo.GetByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.WithDetail(fmt.Errorf("%w: user %s no longer exists", apperrors.ErrInvalidToken, claims.Subject), "Invalid token")
		}
		return nil, fmt.Errorf("failed to look up token subject: %w", err)
	}
	if !user.IsActive {
		return nil, apperrors.WithDetail(fmt.Errorf("%w: user %s is disabled", apperrors.ErrInvalidToken, claims.Subject), "Invalid token")
	}
	return user, nil
}

// RequireAdmin passes user through when it holds the admin role.
func (s *AuthService) RequireAdmin(user *models.User) (*models.User, error) {
	if user == nil || !user.IsAdmin() {
		return nil, apperrors.WithDetail(apperrors.ErrForbidden, "Admin access required")
	}
	return user, nil
}

// ProvisionUser creates an account with a bcrypt-hashed password. It is only used by
// operator tooling; the public API never creates users.
func (s *AuthService) ProvisionUser(ctx context.Context, email, username, password, role string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("username and password are required: %w", apperrors.ErrValidation)
	}
	if role != models.RoleAdmin && role != models.RoleUser {
		return nil, fmt.Errorf("unknown role %q: %w", role, apperrors.ErrValidation)
	}
	if existing, err := s.userRepo.GetByUsername(ctx, username); err == nil && existing != nil {
		return nil, fmt.Errorf("username '%s' already taken: %w", username, apperrors.ErrConflict)
	} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user := &models.User{
		ID:             uuid.New().String(),
		Email:          email,
		Username:       username,
		HashedPassword: string(hashedPassword),
		Role:           role,
		IsActive:       true,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to provision user: %w", err)
	}
	return user, nil
}
