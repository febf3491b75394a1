package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"contactbook/internal/models"
	"contactbook/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

// Token scopes. Every issued token carries exactly one, and verification
// rejects a token presented to an endpoint expecting a different scope.
const (
	ScopeAccess  = "access_token"
	ScopeRefresh = "refresh_token"
	ScopeEmail   = "email_token"
)

const userCacheTTL = 15 * time.Minute

// TokenPair is the access/refresh pair returned by login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// AuthService handles password hashing, token issuance/verification and the
// signup/login/refresh flows.
type AuthService struct {
	userRepo   repositories.UserRepository
	avatars    AvatarResolver
	cache      *redis.Client // optional, nil disables the user cache
	jwtSecret  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	emailTTL   time.Duration
}

// NewAuthService creates a new AuthService. cache may be nil, in which case
// every GetCurrentUser call hits the database.
func NewAuthService(userRepo repositories.UserRepository, avatars AvatarResolver, cache *redis.Client, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		avatars:    avatars,
		cache:      cache,
		jwtSecret:  []byte(jwtSecret),
		accessTTL:  15 * time.Minute,
		refreshTTL: 7 * 24 * time.Hour,
		emailTTL:   7 * 24 * time.Hour,
	}
}

// HashPassword hashes a plaintext password with bcrypt.
func (s *AuthService) HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// VerifyPassword reports whether the plaintext password matches the hash.
func (s *AuthService) VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Signup registers a new user with an unconfirmed email. The avatar lookup is
// best-effort: a failure leaves the avatar unset and never fails the signup.
func (s *AuthService) Signup(username, email, password string) (*models.User, error) {
	if existing, err := s.userRepo.GetByEmail(email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, repositories.ErrDuplicate
	}

	hashed, err := s.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: hashed,
		Avatar:   s.avatars.Resolve(email),
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login authenticates a user and issues a fresh token pair. The new refresh
// token replaces whatever was stored before, invalidating older sessions.
func (s *AuthService) Login(email, password string) (*TokenPair, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil || !s.VerifyPassword(password, user.Password) {
		return nil, ErrInvalidCredentials
	}
	if !user.Confirmed {
		return nil, ErrEmailNotConfirmed
	}
	return s.issuePair(user)
}

// Refresh rotates the token pair. A refresh token that does not match the
// currently stored one is treated as a replay: the stored token is cleared
// and the request rejected.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	email, err := s.DecodeRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if user.RefreshToken == nil || *user.RefreshToken != refreshToken {
		if err := s.userRepo.UpdateRefreshToken(user, nil); err != nil {
			log.Printf("Failed to clear refresh token for %s: %v", email, err)
		}
		s.InvalidateUserCache(ctx, email)
		return nil, ErrInvalidToken
	}
	return s.issuePair(user)
}

// Logout clears the stored refresh token and drops the cached user entry.
func (s *AuthService) Logout(ctx context.Context, user *models.User) error {
	if err := s.userRepo.UpdateRefreshToken(user, nil); err != nil {
		return err
	}
	s.InvalidateUserCache(ctx, user.Email)
	return nil
}

// GetCurrentUser resolves an access token to its user. Wrong scope, expiry,
// malformation and a vanished subject all fail with an authentication error.
// With a cache configured, repeated lookups short-circuit the database.
func (s *AuthService) GetCurrentUser(ctx context.Context, accessToken string) (*models.User, error) {
	email, err := s.decodeToken(accessToken, ScopeAccess)
	if err != nil {
		return nil, err
	}

	if user := s.cachedUser(ctx, email); user != nil {
		return user, nil
	}

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	s.cacheUser(ctx, user)
	return user, nil
}

// GetUserByEmail looks up a user by email; nil when absent.
func (s *AuthService) GetUserByEmail(email string) (*models.User, error) {
	return s.userRepo.GetByEmail(email)
}

// ConfirmEmail marks the email as confirmed and drops any stale cache entry.
func (s *AuthService) ConfirmEmail(ctx context.Context, email string) error {
	if err := s.userRepo.ConfirmEmail(email); err != nil {
		return err
	}
	s.InvalidateUserCache(ctx, email)
	return nil
}

// InvalidateUserCache removes the cached entry for an email, if caching is on.
func (s *AuthService) InvalidateUserCache(ctx context.Context, email string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, userCacheKey(email)).Err(); err != nil {
		log.Printf("Failed to invalidate user cache for %s: %v", email, err)
	}
}

// CreateAccessToken issues a short-lived access token for the email.
func (s *AuthService) CreateAccessToken(email string) (string, error) {
	return s.createToken(email, ScopeAccess, s.accessTTL)
}

// CreateRefreshToken issues a long-lived refresh token for the email.
func (s *AuthService) CreateRefreshToken(email string) (string, error) {
	return s.createToken(email, ScopeRefresh, s.refreshTTL)
}

// CreateEmailToken issues a stateless token used in the confirmation link.
func (s *AuthService) CreateEmailToken(email string) (string, error) {
	return s.createToken(email, ScopeEmail, s.emailTTL)
}

// DecodeRefreshToken verifies a refresh token and returns its subject email.
func (s *AuthService) DecodeRefreshToken(refreshToken string) (string, error) {
	return s.decodeToken(refreshToken, ScopeRefresh)
}

// GetEmailFromToken verifies an email-confirmation token and returns its
// subject email.
func (s *AuthService) GetEmailFromToken(token string) (string, error) {
	return s.decodeToken(token, ScopeEmail)
}

func (s *AuthService) issuePair(user *models.User) (*TokenPair, error) {
	access, err := s.CreateAccessToken(user.Email)
	if err != nil {
		return nil, err
	}
	refresh, err := s.CreateRefreshToken(user.Email)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateRefreshToken(user, &refresh); err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	}, nil
}

func (s *AuthService) createToken(email, scope string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   email,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
		"jti":   uuid.New().String(),
		"scope": scope,
	})

	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s: %w", scope, err)
	}
	return signed, nil
}

// decodeToken verifies the signature, expiry and scope of a token and returns
// its subject email.
func (s *AuthService) decodeToken(tokenString, scope string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}
	if claims["scope"] != scope {
		return "", ErrInvalidToken
	}
	email, ok := claims["sub"].(string)
	if !ok || email == "" {
		return "", ErrInvalidToken
	}
	return email, nil
}

func (s *AuthService) cachedUser(ctx context.Context, email string) *models.User {
	if s.cache == nil {
		return nil
	}
	data, err := s.cache.Get(ctx, userCacheKey(email)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("User cache read failed for %s: %v", email, err)
		}
		return nil
	}
	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		log.Printf("User cache entry corrupt for %s: %v", email, err)
		return nil
	}
	return &user
}

func (s *AuthService) cacheUser(ctx context.Context, user *models.User) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(user)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, userCacheKey(user.Email), data, userCacheTTL).Err(); err != nil {
		log.Printf("User cache write failed for %s: %v", user.Email, err)
	}
}

func userCacheKey(email string) string {
	return "user:" + email
}
