package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"gymapp/backend/internal/domain"
	"gymapp/backend/internal/service"
)

// Context key for the resolved user
const ContextUserKey = "currentUser"

// AuthMiddleware creates a Gin middleware for bearer-token authentication.
// The token subject is resolved to a live user record: a valid signature on
// a token for a deleted user is still a 401.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header is missing")
			return
		}

		// Expecting "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
			return
		}

		user, err := authService.AuthenticateToken(c.Request.Context(), parts[1])
		if err != nil {
			if errors.Is(err, service.ErrInvalidCredential) {
				abortWithError(c, http.StatusUnauthorized, "Invalid or expired token")
			} else {
				abortWithError(c, http.StatusInternalServerError, "Failed to authenticate token")
			}
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// ManagerMiddleware allows only users with the manager flag through.
// Must run AFTER AuthMiddleware.
func ManagerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := getUserFromContext(c)
		if err != nil {
			// Should not happen if AuthMiddleware ran correctly
			abortWithError(c, http.StatusInternalServerError, "User not found in context")
			return
		}

		if !user.IsManager {
			abortWithError(c, http.StatusForbidden, "Access denied: manager role required")
			return
		}

		c.Next()
	}
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// Helper function to get the authenticated user from context (used by handlers)
func getUserFromContext(c *gin.Context) (*domain.User, error) {
	userRaw, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, errors.New("user not found in context")
	}
	user, ok := userRaw.(*domain.User)
	if !ok {
		return nil, errors.New("invalid user type in context")
	}
	return user, nil
}
