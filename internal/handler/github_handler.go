package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"notifyhub/internal/source"
	"notifyhub/pkg/logger"
	"notifyhub/pkg/util"
)

type GitHubHandler struct {
	tab    GitHubTab
	logger *zap.Logger
}

func NewGitHubHandler(tab GitHubTab, logger *zap.Logger) *GitHubHandler {
	return &GitHubHandler{tab: tab, logger: logger}
}

// Tab handles GET /api/tabs/github
func (h *GitHubHandler) Tab(c *gin.Context) {
	sess, ok := getSession(c)
	if !ok {
		return
	}
	if !sess.GitHubLinked() {
		githubNotLinked(c, http.StatusOK)
		return
	}
	ctx := c.Request.Context()

	view, err := h.tab.Build(ctx, sess)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, view)
	case errors.Is(err, source.ErrNotLinked):
		githubNotLinked(c, http.StatusOK)
	case util.StatusCode(err) == http.StatusUnauthorized:
		githubAuthFailed(c)
	default:
		logger.WithTrace(ctx, h.logger).Error("GitHub tab failed", zap.Int("user_id", sess.UserID), zap.Error(err))
		internalError(c, "Failed to fetch GitHub notifications. Please try again later.")
	}
}

// PullRequest handles GET /api/tabs/github/pr/:owner/:repo/:number
func (h *GitHubHandler) PullRequest(c *gin.Context) {
	sess, ok := getSession(c)
	if !ok {
		return
	}
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil || number <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Pull request number must be a positive integer."})
		return
	}
	if !sess.GitHubLinked() {
		githubNotLinked(c, http.StatusUnauthorized)
		return
	}
	ctx := c.Request.Context()

	pr, err := h.tab.PullRequest(ctx, sess, c.Param("owner"), c.Param("repo"), number)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"pr": pr})
	case errors.Is(err, source.ErrNotLinked):
		githubNotLinked(c, http.StatusUnauthorized)
	case util.StatusCode(err) == http.StatusUnauthorized:
		githubAuthFailed(c)
	case util.StatusCode(err) == http.StatusNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "Pull request not found."})
	default:
		logger.WithTrace(ctx, h.logger).Error("Failed to fetch pull request",
			zap.Int("user_id", sess.UserID),
			zap.String("repo", c.Param("owner")+"/"+c.Param("repo")),
			zap.Int("number", number),
			zap.Error(err),
		)
		internalError(c, "Failed to fetch PR details.")
	}
}

func githubNotLinked(c *gin.Context, code int) {
	c.JSON(code, gin.H{"status": StatusGitHubNotLinked, "message": "GitHub account is not linked."})
}

func githubAuthFailed(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"status": StatusGitHubAuthFailed,
		"error":  "GitHub access token invalid or expired. Please re-authenticate.",
	})
}
