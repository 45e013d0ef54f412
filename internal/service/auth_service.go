package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/RahulLalwani5726/Stream-X/internal/cache"
	"github.com/RahulLalwani5726/Stream-X/internal/config"
	"github.com/RahulLalwani5726/Stream-X/internal/middleware"
	"github.com/RahulLalwani5726/Stream-X/internal/models"
	"github.com/RahulLalwani5726/Stream-X/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// TokenPair is what a successful login or refresh hands to the client.
type TokenPair struct {
	AccessToken      string    `json:"accessToken"`
	RefreshToken     string    `json:"refreshToken"`
	AccessExpiresAt  time.Time `json:"-"`
	RefreshExpiresAt time.Time `json:"-"`
}

type LogoutInput struct {
	AccessJTI    string
	AccessExpiry time.Time
	RefreshToken string
}

// AuthService issues and revokes JWTs. Refresh tokens are only valid while
// their jti is present in Redis, so each one can be used exactly once.
type AuthService struct {
	userRepo   repository.UserRepository
	redis      *redis.Client
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewAuthService(userRepo repository.UserRepository, rdb *redis.Client, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		redis:      rdb,
		secret:     []byte(cfg.JWTSecret),
		accessTTL:  cfg.AccessTTL(),
		refreshTTL: cfg.RefreshTTL(),
		now:        time.Now,
	}
}

// Login checks the credentials of an email or username.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*models.User, *TokenPair, error) {
	if identifier == "" || password == "" {
		return nil, nil, models.NewValidationError("Username or email and password are required")
	}
	user, err := s.userRepo.GetByLogin(ctx, identifier)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, models.NewAuthenticationError("Invalid credentials")
	}
	if cmpErr := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); cmpErr != nil {
		return nil, nil, models.NewAuthenticationError("Invalid credentials")
	}

	pair, err := s.IssueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// IssueTokens mints a fresh access and refresh token for user.
func (s *AuthService) IssueTokens(ctx context.Context, user *models.User) (*TokenPair, error) {
	if s.redis == nil {
		return nil, models.NewDependencyError("Redis", errors.New("redis client not configured"))
	}
	now := s.now()
	access, _, err := s.sign(user, tokenTypeAccess, now, s.accessTTL)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	refresh, refreshJTI, err := s.sign(user, tokenTypeRefresh, now, s.refreshTTL)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	key := cache.RefreshTokenKey(refreshJTI)
	if err := s.redis.Set(ctx, key, strconv.FormatUint(uint64(user.ID), 10), s.refreshTTL).Err(); err != nil {
		return nil, models.NewDependencyError("Redis", err)
	}
	return &TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  now.Add(s.accessTTL),
		RefreshExpiresAt: now.Add(s.refreshTTL),
	}, nil
}

// Refresh consumes a refresh token and rotates it.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.User, *TokenPair, error) {
	if refreshToken == "" {
		return nil, nil, models.NewAuthenticationError("Refresh token is required")
	}
	if s.redis == nil {
		return nil, nil, models.NewDependencyError("Redis", errors.New("redis client not configured"))
	}
	claims, err := s.parse(refreshToken, tokenTypeRefresh)
	if err != nil {
		return nil, nil, models.NewAuthenticationError("Invalid or expired refresh token")
	}
	jti, _ := claims["jti"].(string)
	sub, _ := claims["sub"].(string)

	stored, err := s.redis.GetDel(ctx, cache.RefreshTokenKey(jti)).Result()
	if errors.Is(err, redis.Nil) || (err == nil && stored != sub) {
		return nil, nil, models.NewAuthenticationError("Refresh token has been used or revoked")
	}
	if err != nil {
		return nil, nil, models.NewDependencyError("Redis", err)
	}

	id, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return nil, nil, models.NewAuthenticationError("Invalid or expired refresh token")
	}
	user, err := s.userRepo.GetByID(ctx, uint(id))
	if err != nil {
		if models.IsCode(err, models.CodeNotFound) {
			return nil, nil, models.NewAuthenticationError("User no longer exists")
		}
		return nil, nil, err
	}
	pair, err := s.IssueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Logout denylists the access token until it expires and revokes the refresh token.
func (s *AuthService) Logout(ctx context.Context, in LogoutInput) error {
	if s.redis == nil {
		return models.NewDependencyError("Redis", errors.New("redis client not configured"))
	}
	if in.AccessJTI != "" {
		ttl := in.AccessExpiry.Sub(s.now())
		if ttl <= 0 {
			ttl = time.Second
		}
		if err := s.redis.Set(ctx, middleware.DenylistKey(in.AccessJTI), "1", ttl).Err(); err != nil {
			return models.NewDependencyError("Redis", err)
		}
	}
	if in.RefreshToken != "" {
		if claims, err := s.parse(in.RefreshToken, tokenTypeRefresh); err == nil {
			jti, _ := claims["jti"].(string)
			if err := s.redis.Del(ctx, cache.RefreshTokenKey(jti)).Err(); err != nil {
				return models.NewDependencyError("Redis", err)
			}
		}
	}
	return nil
}

func (s *AuthService) sign(user *models.User, typ string, now time.Time, ttl time.Duration) (string, string, error) {
	if len(s.secret) == 0 {
		return "", "", fmt.Errorf("JWT secret not configured")
	}
	jti := fmt.Sprintf("%d-%s", now.Unix(), uuid.NewString())
	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(user.ID), 10),
		"username": user.Username,
		"typ":      typ,
		"iss":      middleware.TokenIssuer,
		"aud":      middleware.TokenAudience,
		"exp":      now.Add(ttl).Unix(),
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"jti":      jti,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	return signed, jti, err
}

func (s *AuthService) parse(tokenString, typ string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	},
		jwt.WithIssuer(middleware.TokenIssuer),
		jwt.WithAudience(middleware.TokenAudience),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}
	if got, _ := claims["typ"].(string); got != typ {
		return nil, errors.New("wrong token type")
	}
	if jti, _ := claims["jti"].(string); jti == "" {
		return nil, errors.New("missing jti")
	}
	return claims, nil
}
