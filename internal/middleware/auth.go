package middleware

import (
	"strings"

	"tontine-core/internal/handler/response"
	"tontine-core/internal/repository"
	"tontine-core/pkg/auth"
	"tontine-core/pkg/errno"

	"github.com/gin-gonic/gin"
)

const (
	// ContextUserID is the gin context key holding the authenticated user ID
	ContextUserID = "uid"
)

// Auth verifies the Bearer token and attaches the caller's user ID to the
// request context. The user must still exist.
func Auth(tokens *auth.TokenManager, users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.AbortError(c, errno.ErrTokenRequired)
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.AbortError(c, errno.ErrTokenRequired)
			return
		}

		userID, err := tokens.Verify(parts[1])
		if err != nil {
			response.AbortError(c, errno.ErrTokenInvalid)
			return
		}

		user, err := users.GetByID(c.Request.Context(), userID)
		if err != nil {
			response.AbortError(c, errno.ErrDatabase)
			return
		}
		if user == nil {
			response.AbortError(c, errno.ErrUserNotFound)
			return
		}

		c.Set(ContextUserID, user.ID)
		c.Next()
	}
}

// UserID reads the authenticated user ID set by Auth
func UserID(c *gin.Context) uint64 {
	return c.GetUint64(ContextUserID)
}
