package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const actorIDKey = "actor_id"

// authMiddleware resolves the acting user from a Bearer token, falling back
// to the legacy userId query parameter used by the original frontend.
func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if header := c.GetHeader("Authorization"); header != "" {
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				s.abortUnauthorized(c, "malformed authorization header")
				return
			}
			userID, err := s.userService.VerifyToken(token)
			if err != nil {
				s.abortUnauthorized(c, "invalid or expired token")
				return
			}
			c.Set(actorIDKey, userID)
			c.Next()
			return
		}

		if raw := c.Query("userId"); raw != "" {
			userID, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || userID <= 0 {
				s.abortUnauthorized(c, "invalid userId parameter")
				return
			}
			c.Set(actorIDKey, userID)
			c.Next()
			return
		}

		s.abortUnauthorized(c, "authentication required")
	}
}

func (s *Server) abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
		Success: false,
		Error:   message,
	})
}

// actorID returns the authenticated user ID set by authMiddleware
func actorID(c *gin.Context) int64 {
	return c.GetInt64(actorIDKey)
}
