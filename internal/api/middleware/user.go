package middleware

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "promptsmith_server/pkg/errors"
)

const (
	UserIDHeader  = "X-User-ID"
	UserIDKey     = "user_id"
	DefaultUserID = "guest"
)

var userIDPattern = regexp.MustCompile(`^[A-Za-z0-9_.@-]{1,128}$`)

// UserID selects the workspace from X-User-ID. There is no authentication;
// a missing header means the shared guest workspace.
func UserID() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(UserIDHeader))
		if userID == "" {
			userID = DefaultUserID
		}
		if !userIDPattern.MatchString(userID) {
			appErr := apperrors.New(apperrors.CodeInvalidParam, "invalid X-User-ID header")
			c.AbortWithStatusJSON(http.StatusBadRequest, appErr)
			return
		}
		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// GetUserID returns the workspace owner set by UserID.
func GetUserID(c *gin.Context) string {
	if id := c.GetString(UserIDKey); id != "" {
		return id
	}
	return DefaultUserID
}
