package middleware

import (
	"net/http"
	"strings"

	"mindboard/internal/auth"
	"mindboard/internal/models"
	"mindboard/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const CheckUserKey = "user"

// SessionUserKey is the session field holding the signed-in userNum.
const SessionUserKey = "user_num"

// LoadUser resolves the caller from a Bearer token, falling back to the cookie
// session, and stores the *models.User in the context. Unknown or invalid
// credentials leave the request anonymous.
func LoadUser(tokens *auth.Issuer, users *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userNum := ""
		if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
			if sub, err := tokens.Parse(strings.TrimPrefix(header, "Bearer ")); err == nil {
				userNum = sub
			}
		}
		if userNum == "" {
			if v, ok := sessions.Default(c).Get(SessionUserKey).(string); ok {
				userNum = v
			}
		}

		if userNum != "" {
			if user, err := users.FindByNum(c.Request.Context(), userNum); err == nil {
				c.Set(CheckUserKey, user)
			}
		}
		c.Next()
	}
}

// AuthRequired rejects anonymous requests. LoadUser must run first.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "authentication required",
				"data":    nil,
			})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the signed-in user or nil.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(CheckUserKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

// CurrentUserNum returns the signed-in userNum, or "" for anonymous viewers.
func CurrentUserNum(c *gin.Context) string {
	if user := CurrentUser(c); user != nil {
		return user.UserNum
	}
	return ""
}
