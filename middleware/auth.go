package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

const UserContextKey = "userID"

// SessionValidator validates bearer tokens and resolves the session's
// user id. It doubles as the cart store's authentication collaborator.
type SessionValidator struct {
	secret []byte
}

func NewSessionValidator(secret string) *SessionValidator {
	return &SessionValidator{secret: []byte(strings.TrimSpace(secret))}
}

// ParseToken parses a JWT and returns the user id from its subject claim.
func (v *SessionValidator) ParseToken(tokenStr string) (int64, error) {
	if len(v.secret) == 0 {
		return 0, fmt.Errorf("JWT secret not configured")
	}

	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || token == nil || !token.Valid {
		return 0, fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fmt.Errorf("invalid token claims")
	}

	sub, ok := claims["sub"]
	if !ok {
		return 0, fmt.Errorf("token missing subject")
	}
	switch s := sub.(type) {
	case string:
		return strconv.ParseInt(s, 10, 64)
	case float64:
		return int64(s), nil
	default:
		return 0, fmt.Errorf("invalid subject claim")
	}
}

// IsAuthenticated reports whether the request context carries a validated
// session for ownerID. Satisfies cart.Authenticator.
func (v *SessionValidator) IsAuthenticated(ctx context.Context, ownerID int64) bool {
	id, ok := ctx.Value(userIDContextKey{}).(int64)
	return ok && id == ownerID
}

type userIDContextKey struct{}

// WithUserID stamps a validated user id onto a context.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDContextKey{}, userID)
}

// AuthMiddleware validates the bearer token and stores the user id on the
// gin context. Requests without a valid session are rejected.
func AuthMiddleware(v *SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		userID, err := v.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Set(UserContextKey, userID)
		c.Request = c.Request.WithContext(WithUserID(c.Request.Context(), userID))
		c.Next()
	}
}

// GetUserID returns the authenticated user id from the gin context.
func GetUserID(c *gin.Context) (int64, bool) {
	if val, ok := c.Get(UserContextKey); ok {
		if id, ok := val.(int64); ok {
			return id, true
		}
	}
	return 0, false
}
