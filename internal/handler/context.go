package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"notifyhub/internal/session"
)

// UserIDKey is the gin context key AuthMiddleware stores the user id under.
const UserIDKey = "user_id"

const (
	StatusNotLoggedIn      = "not_logged_in"
	StatusGitHubNotLinked  = "github_not_linked"
	StatusGitHubAuthFailed = "github_auth_error"
)

// Tab names the recommendation service serves besides the feed.
const (
	TabGmail    = "gmail"
	TabCalendar = "calendar"
	TabLinkedIn = "linkedin"
)

// getUserID 统一的 userID 读取工具
func getUserID(c *gin.Context) (int, bool) {
	v, ok := c.Get(UserIDKey)
	if !ok {
		notLoggedIn(c, "User not authenticated. Please log in.")
		return 0, false
	}
	id, ok := v.(int)
	if !ok {
		notLoggedIn(c, "User not authenticated. Please log in.")
		return 0, false
	}
	return id, true
}

// getSession reads the Session SessionMiddleware put on the request context.
func getSession(c *gin.Context) (*session.Session, bool) {
	sess := session.FromContext(c.Request.Context())
	if sess == nil {
		notLoggedIn(c, "User not authenticated. Please log in.")
		return nil, false
	}
	return sess, true
}

// getGoogleSession is getSession that also requires a linked Google account.
func getGoogleSession(c *gin.Context) (*session.Session, bool) {
	sess, ok := getSession(c)
	if !ok {
		return nil, false
	}
	if !sess.GoogleLinked() {
		notLoggedIn(c, "Google authentication client not available. Please log in again.")
		return nil, false
	}
	return sess, true
}

func notLoggedIn(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": StatusNotLoggedIn, "error": msg})
}

func internalError(c *gin.Context, msg string) {
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}
