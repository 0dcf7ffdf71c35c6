package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/meurdo/meurdo-api/internal/config"
	"github.com/meurdo/meurdo-api/internal/modules/model"
	"github.com/meurdo/meurdo-api/internal/modules/serializer"
	"github.com/meurdo/meurdo-api/internal/modules/service"
)

// SessionResolver turns verified token claims into the caller's session.
type SessionResolver interface {
	Resolve(ctx context.Context, c service.Claims) (*model.Session, error)
}

// AccessClaims are the claims of a BaaS-issued access token.
type AccessClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// UserAuth returns a middleware that authenticates requests with the user's
// BaaS access token (HS256). The resolved *model.Session is stored under "session".
func UserAuth(cfg *config.Config, sessions SessionResolver) gin.HandlerFunc {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if cfg.Auth.JWTIssuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Auth.JWTIssuer))
	}
	parser := jwt.NewParser(opts...)
	secret := []byte(cfg.Auth.JWTSecret)

	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.AuthErr("Unauthorized"))
			return
		}
		raw := strings.TrimPrefix(auth, "Bearer ")

		var claims AccessClaims
		if _, err := parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (interface{}, error) {
			return secret, nil
		}); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.AuthErr("Unauthorized"))
			return
		}

		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.AuthErr("Unauthorized"))
			return
		}

		sess, err := sessions.Resolve(c.Request.Context(), service.Claims{
			UserID: userID,
			Email:  claims.Email,
			Role:   claims.Role,
			Token:  raw,
		})
		if err != nil {
			if errors.Is(err, service.ErrInvalidInput) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.AuthErr("Unauthorized"))
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, serializer.DBErr("", err))
			return
		}

		c.Set("session", sess)
		c.Set("user_id", userID.String())
		c.Next()
	}
}
