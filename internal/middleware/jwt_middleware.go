package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/MboaMarket/mboa_api/internal/utils"
)

// JWTMiddleware authenticates bearer tokens for user and admin routes.
// Invalid attempts are rate limited per IP to slow down token guessing.
type JWTMiddleware struct {
	rateLimiter *InvalidAuthRateLimiter
}

func NewJWTMiddleware() *JWTMiddleware {
	return &JWTMiddleware{rateLimiter: NewInvalidAuthRateLimiter()}
}

func (m *JWTMiddleware) authenticate(c *gin.Context, scope string) bool {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		m.reject(c, "UNAUTHORIZED", "Missing authorization header")
		return false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		m.reject(c, "UNAUTHORIZED", "Invalid authorization header")
		return false
	}

	claims, err := utils.ValidateJWT(parts[1])
	if err != nil {
		m.reject(c, "INVALID_TOKEN", "Invalid or expired token")
		return false
	}
	if claims.Scope != scope {
		m.reject(c, "FORBIDDEN", "Token scope not allowed for this resource")
		return false
	}

	c.Set("user_id", claims.UserID)
	c.Set("email", claims.Email)
	c.Set("scope", claims.Scope)
	return true
}

func (m *JWTMiddleware) reject(c *gin.Context, code, message string) {
	if !m.rateLimiter.Allow(c.ClientIP()) {
		utils.Error(c, 429, "RATE_LIMITED", "Too many invalid auth attempts")
		c.Abort()
		return
	}
	status := 401
	if code == "FORBIDDEN" {
		status = 403
	}
	utils.Error(c, status, code, message)
	c.Abort()
}

// RequireUser authenticates marketplace user tokens.
func (m *JWTMiddleware) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.authenticate(c, utils.ScopeUser) {
			return
		}
		c.Next()
	}
}

// RequireAdmin authenticates back-office admin tokens.
func (m *JWTMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.authenticate(c, utils.ScopeAdmin) {
			return
		}
		c.Next()
	}
}

// OptionalUser extracts the user when a valid token is present but lets
// anonymous requests through. Used on public listing reads so view counting
// can skip owners.
func (m *JWTMiddleware) OptionalUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && parts[0] == "Bearer" {
				if claims, err := utils.ValidateJWT(parts[1]); err == nil && claims.Scope == utils.ScopeUser {
					c.Set("user_id", claims.UserID)
					c.Set("email", claims.Email)
				}
			}
		}
		c.Next()
	}
}
