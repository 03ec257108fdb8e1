package api

import (
	"net/http"
	"strings"

	"github.com/glucolog/glucolog/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const userContextKey = "user"

// RequestID tags every request for log correlation.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// Auth resolves the account from the bearer token and scopes the
// request to it. Session management is handled upstream; this service
// only ever sees per-user API tokens.
func Auth(users domain.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if strings.HasPrefix(header, "Bearer ") {
			token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			if user, err := users.GetByToken(c.Request.Context(), token); err == nil {
				c.Set(userContextKey, user)
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, APIResponse{
			Error: &ErrorBody{Code: "UNAUTHORIZED", Message: "Unauthorized"},
		})
	}
}

func currentUser(c *gin.Context) *domain.User {
	return c.MustGet(userContextKey).(*domain.User)
}
