// Package middleware provides authentication, logging, metrics and rate limiting for the HTTP layer.
package middleware

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/RahulLalwani5726/Stream-X/internal/config"
	"github.com/RahulLalwani5726/Stream-X/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

// Token claims shared with the token issuer.
const (
	TokenIssuer   = "streamx-api"
	TokenAudience = "streamx-client"

	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"

	denylistPrefix = "blacklist:"
)

var (
	errNoToken      = errors.New("no token")
	errInvalidToken = errors.New("invalid token")
	errRevokedToken = errors.New("token revoked")
)

// Identity is the verified caller of a request.
type Identity struct {
	UserID uint
	JTI    string
	Claims jwt.MapClaims
}

// Authenticator verifies access tokens and checks them against the Redis denylist.
type Authenticator struct {
	secret []byte
	redis  *redis.Client
}

// NewAuthenticator builds an Authenticator. rdb may be nil, which disables revocation checks.
func NewAuthenticator(cfg *config.Config, rdb *redis.Client) *Authenticator {
	return &Authenticator{secret: []byte(cfg.JWTSecret), redis: rdb}
}

// DenylistKey is the Redis key marking a token id as revoked.
func DenylistKey(jti string) string {
	return denylistPrefix + jti
}

// tokenFromRequest looks at the bearer header, then the access cookie, then ?token=.
func tokenFromRequest(c *fiber.Ctx) string {
	if authHeader := c.Get("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}
	if cookie := c.Cookies(AccessTokenCookie); cookie != "" {
		return cookie
	}
	return c.Query("token")
}

// Verify parses and validates a signed access token.
func (a *Authenticator) Verify(ctx context.Context, tokenString string) (*Identity, error) {
	if tokenString == "" {
		return nil, errNoToken
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errInvalidToken
		}
		return a.secret, nil
	},
		jwt.WithIssuer(TokenIssuer),
		jwt.WithAudience(TokenAudience),
	)
	if err != nil || !token.Valid {
		return nil, errInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errInvalidToken
	}
	if typ, _ := claims["typ"].(string); typ != "" && typ != "access" {
		return nil, errInvalidToken
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, errInvalidToken
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil || userID == 0 {
		return nil, errInvalidToken
	}

	jti, _ := claims["jti"].(string)
	if jti != "" && a.redis != nil {
		revoked, err := a.redis.Exists(ctx, DenylistKey(jti)).Result()
		if err == nil && revoked > 0 {
			return nil, errRevokedToken
		}
	}

	return &Identity{UserID: uint(userID), JTI: jti, Claims: claims}, nil
}

func attachIdentity(c *fiber.Ctx, id *Identity) {
	c.Locals("userID", id.UserID)
	c.Locals("tokenJTI", id.JTI)
	c.Locals("tokenClaims", id.Claims)
	ctx := context.WithValue(c.UserContext(), UserIDKey, id.UserID)
	c.SetUserContext(ctx)
}

// Required rejects requests without a valid identity.
func (a *Authenticator) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewAuthenticationError("User Must be Logged In"))
		}

		id, err := a.Verify(c.UserContext(), tokenString)
		if err != nil {
			msg := "Invalid or expired token"
			if errors.Is(err, errRevokedToken) {
				msg = "Token has been revoked"
			}
			return models.RespondWithError(c, fiber.StatusUnauthorized, models.NewAuthenticationError(msg))
		}

		attachIdentity(c, id)
		return c.Next()
	}
}

// Optional attaches an identity when a valid token is present and never rejects.
func (a *Authenticator) Optional() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if tokenString := tokenFromRequest(c); tokenString != "" {
			if id, err := a.Verify(c.UserContext(), tokenString); err == nil {
				attachIdentity(c, id)
			}
		}
		return c.Next()
	}
}

// UserID returns the authenticated user id, or 0 when the request is anonymous.
func UserID(c *fiber.Ctx) uint {
	if uid, ok := c.Locals("userID").(uint); ok {
		return uid
	}
	return 0
}
