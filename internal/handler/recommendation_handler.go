package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"notifyhub/internal/model"
	"notifyhub/internal/source"
	"notifyhub/pkg/logger"
	"notifyhub/pkg/util"
)

type RecommendationHandler struct {
	recommender Recommender
	logger      *zap.Logger
}

func NewRecommendationHandler(r Recommender, logger *zap.Logger) *RecommendationHandler {
	return &RecommendationHandler{recommender: r, logger: logger}
}

// GetRecommendations handles GET /api/recommendations
func (h *RecommendationHandler) GetRecommendations(c *gin.Context) {
	sess, ok := getGoogleSession(c)
	if !ok {
		return
	}

	items, err := h.recommender.Recommend(c.Request.Context(), sess)
	if err != nil {
		logger.WithTrace(c.Request.Context(), h.logger).Error("Failed to build recommendations",
			zap.Int("user_id", sess.UserID),
			zap.Error(err),
		)
		internalError(c, "Failed to fetch recommendations.")
		return
	}
	c.JSON(http.StatusOK, items)
}

// GmailTab handles GET /api/tabs/gmail
func (h *RecommendationHandler) GmailTab(c *gin.Context) {
	h.googleTab(c, TabGmail, model.SourceGmail)
}

// CalendarTab handles GET /api/tabs/calendar
func (h *RecommendationHandler) CalendarTab(c *gin.Context) {
	h.googleTab(c, TabCalendar, model.SourceCalendar)
}

// LinkedInTab handles GET /api/tabs/linkedin
func (h *RecommendationHandler) LinkedInTab(c *gin.Context) {
	h.googleTab(c, TabLinkedIn, "LinkedIn")
}

// googleTab serves a tab backed by the user's Google account. label names the
// upstream in the error message.
func (h *RecommendationHandler) googleTab(c *gin.Context, tab string, label model.Source) {
	sess, ok := getGoogleSession(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	items, err := h.recommender.SourceItems(ctx, sess, tab)
	if err == nil {
		c.JSON(http.StatusOK, items)
		return
	}

	_, kind := util.IsRetryableError(err)
	if errors.Is(err, source.ErrNotLinked) || kind == "upstream_auth" {
		notLoggedIn(c, "Google API authentication failed. Please log in again.")
		return
	}
	logger.WithTrace(ctx, h.logger).Error("Tab fetch failed",
		zap.String("tab", tab),
		zap.Int("user_id", sess.UserID),
		zap.String("error_kind", kind),
		zap.Error(err),
	)
	internalError(c, "Failed to fetch "+string(label)+" data.")
}
