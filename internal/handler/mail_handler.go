package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"notifyhub/internal/source"
	"notifyhub/internal/source/gmail"
	"notifyhub/pkg/logger"
	"notifyhub/pkg/util"
)

type MailHandler struct {
	mail   MailActions
	logger *zap.Logger
}

func NewMailHandler(mail MailActions, logger *zap.Logger) *MailHandler {
	return &MailHandler{mail: mail, logger: logger}
}

type markReadRequest struct {
	MessageID string `json:"messageId"`
}

// MarkRead handles POST /api/tabs/gmail/mark-as-read
func (h *MailHandler) MarkRead(c *gin.Context) {
	sess, ok := getGoogleSession(c)
	if !ok {
		return
	}

	var req markReadRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.MessageID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message ID is required to mark an email as read."})
		return
	}

	if err := h.mail.MarkRead(c.Request.Context(), sess, req.MessageID); err != nil {
		h.fail(c, err, "Failed to mark email as read.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Email marked as read successfully."})
}

// FullContent handles GET /api/tabs/gmail/:messageId/full
func (h *MailHandler) FullContent(c *gin.Context) {
	sess, ok := getGoogleSession(c)
	if !ok {
		return
	}

	content, err := h.mail.Content(c.Request.Context(), sess, c.Param("messageId"))
	if err != nil {
		h.fail(c, err, "Failed to fetch full email content.")
		return
	}
	c.JSON(http.StatusOK, content)
}

func (h *MailHandler) fail(c *gin.Context, err error, msg string) {
	code := util.StatusCode(err)
	switch {
	case errors.Is(err, source.ErrNotLinked), code == http.StatusUnauthorized, code == http.StatusForbidden:
		notLoggedIn(c, "Google API authentication failed. Please log in again.")
	case errors.Is(err, gmail.ErrMissingMessageID):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message ID is required."})
	case code == http.StatusNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "Email not found."})
	default:
		logger.WithTrace(c.Request.Context(), h.logger).Error(msg, zap.Error(err))
		internalError(c, msg)
	}
}
