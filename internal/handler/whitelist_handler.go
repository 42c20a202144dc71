package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"notifyhub/internal/model"
	"notifyhub/internal/rules"
	"notifyhub/internal/service/whitelist"
	"notifyhub/pkg/logger"
)

type WhitelistHandler struct {
	manager WhitelistManager
	logger  *zap.Logger
}

func NewWhitelistHandler(m WhitelistManager, logger *zap.Logger) *WhitelistHandler {
	return &WhitelistHandler{manager: m, logger: logger}
}

type ruleRequest struct {
	Source      string `json:"source"`
	Type        string `json:"type"`
	Value       string `json:"value"`
	IsUrgent    bool   `json:"isUrgent"`
	IsImportant bool   `json:"isImportant"`
	Category    string `json:"category"`
}

// ListRules handles GET /api/recommendations/manage-whitelist
func (h *WhitelistHandler) ListRules(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	list, err := h.manager.List(c.Request.Context(), userID)
	if err != nil {
		h.logError(c, "Failed to list whitelist rules", userID, err)
		internalError(c, "Failed to fetch whitelist rules.")
		return
	}
	c.JSON(http.StatusOK, list)
}

// UpsertRule handles POST /api/recommendations/manage-whitelist
func (h *WhitelistHandler) UpsertRule(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	var req ruleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	rule, created, err := h.manager.Upsert(c.Request.Context(), userID, model.WhitelistRule{
		Source:      model.Source(req.Source),
		Type:        model.RuleType(req.Type),
		Value:       req.Value,
		IsUrgent:    req.IsUrgent,
		IsImportant: req.IsImportant,
		Category:    req.Category,
	})
	switch {
	case errors.Is(err, rules.ErrInvalidRule):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case err != nil:
		h.logError(c, "Failed to save whitelist rule", userID, err)
		internalError(c, "Failed to manage whitelist rule.")
	case created:
		c.JSON(http.StatusCreated, gin.H{"message": "Whitelist rule added successfully.", "rule": rule})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Whitelist rule updated successfully.", "rule": rule})
	}
}

// DeleteRule handles DELETE /api/recommendations/manage-whitelist/:ruleId
func (h *WhitelistHandler) DeleteRule(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	err := h.manager.Delete(c.Request.Context(), userID, c.Param("ruleId"))
	switch {
	case errors.Is(err, whitelist.ErrRuleNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Whitelist rule not found."})
	case err != nil:
		h.logError(c, "Failed to delete whitelist rule", userID, err)
		internalError(c, "Failed to delete whitelist rule.")
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Whitelist rule deleted successfully."})
	}
}

func (h *WhitelistHandler) logError(c *gin.Context, msg string, userID int, err error) {
	logger.WithTrace(c.Request.Context(), h.logger).Error(msg, zap.Int("user_id", userID), zap.Error(err))
}
