package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/lshigami/askedagain/config"
	"github.com/lshigami/askedagain/internal/apperror"
	"github.com/lshigami/askedagain/internal/dto"
	"github.com/rs/zerolog/log"
)

const (
	userIDKey   = "user_id"
	userRoleKey = "user_role"
)

// Claims is the token payload. The subject is the user id.
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type Auth struct {
	secret []byte
	issuer string
}

func NewAuth(cfg *config.Config) *Auth {
	return &Auth{secret: []byte(cfg.Auth.JWTSecret), issuer: cfg.Auth.Issuer}
}

// OptionalUser resolves the caller when a valid token is present and lets
// anonymous requests through. An invalid token is treated as anonymous.
func (a *Auth) OptionalUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if claims, err := a.Parse(token); err == nil {
				setUser(c, claims)
			} else {
				log.Debug().Err(err).Msg("Ignoring invalid bearer token")
			}
		}
		c.Next()
	}
}

// RequireUser rejects requests without a valid bearer token.
func (a *Auth) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			dto.RespondError(c, apperror.New(apperror.CodeUnauthorized))
			return
		}
		claims, err := a.Parse(token)
		if err != nil {
			log.Debug().Err(err).Msg("Rejecting bearer token")
			dto.RespondError(c, apperror.Newf(apperror.CodeUnauthorized, "Invalid or expired token"))
			return
		}
		setUser(c, claims)
		c.Next()
	}
}

// RequireRole must run after RequireUser.
func (a *Auth) RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(userRoleKey) != role {
			dto.RespondError(c, apperror.New(apperror.CodeForbidden))
			return
		}
		c.Next()
	}
}

func (a *Auth) Parse(raw string) (*Claims, error) {
	if len(a.secret) == 0 {
		return nil, errors.New("jwt secret is not configured")
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}

// UserID returns the authenticated user id, or "" for anonymous callers.
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

func setUser(c *gin.Context, claims *Claims) {
	c.Set(userIDKey, claims.Subject)
	c.Set(userRoleKey, claims.Role)
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) < 7 || !strings.EqualFold(header[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}
