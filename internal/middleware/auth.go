package middleware

import (
	"net/http"
	"strings"

	"storefront-backend/pkg/auth"

	"github.com/gin-gonic/gin"
)

type AuthMiddleware struct {
	jwtManager *auth.JWTManager
}

func NewAuthMiddleware(jwtManager *auth.JWTManager) *AuthMiddleware {
	return &AuthMiddleware{jwtManager: jwtManager}
}

func (a *AuthMiddleware) bearerClaims(c *gin.Context) (*auth.Claims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
		return nil, false
	}

	tokenParts := strings.Split(authHeader, " ")
	if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
		return nil, false
	}

	claims, err := a.jwtManager.ValidateToken(tokenParts[1])
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return nil, false
	}
	return claims, true
}

// AuthRequired middleware validates an admin access token
func (a *AuthMiddleware) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := a.bearerClaims(c)
		if !ok {
			return
		}
		if claims.TokenType != auth.AccessToken {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Set("email", claims.Email)
		c.Next()
	}
}

// SessionRequired middleware validates a guest cart session token
func (a *AuthMiddleware) SessionRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := a.bearerClaims(c)
		if !ok {
			return
		}
		if claims.TokenType != auth.SessionToken || claims.SessionID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Cart session token required"})
			return
		}

		c.Set("session_id", claims.SessionID)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// RoleRequired middleware checks if user has required role
func (a *AuthMiddleware) RoleRequired(requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := GetUserRole(c)
		if userRole == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Role information missing"})
			return
		}

		for _, requiredRole := range requiredRoles {
			if userRole == requiredRole {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
	}
}

// AdminRequired middleware ensures user is an admin
func (a *AuthMiddleware) AdminRequired() gin.HandlerFunc {
	return a.RoleRequired(auth.RoleAdmin)
}

func getString(c *gin.Context, key string) string {
	if v, exists := c.Get(key); exists {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetUserID helper function to extract user ID from context
func GetUserID(c *gin.Context) string {
	return getString(c, "user_id")
}

// GetSessionID returns the cart session id set by SessionRequired
func GetSessionID(c *gin.Context) string {
	return getString(c, "session_id")
}

// GetUserRole helper function to extract user role from context
func GetUserRole(c *gin.Context) string {
	return getString(c, "role")
}
