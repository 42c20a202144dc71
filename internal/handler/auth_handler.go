package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"notifyhub/internal/service/auth"
	"notifyhub/pkg/logger"
)

type AuthHandler struct {
	auth   Authenticator
	logger *zap.Logger
}

func NewAuthHandler(a Authenticator, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: a, logger: logger}
}

// Register handles POST /register
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Name     string `json:"name"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	u, err := h.auth.Register(c.Request.Context(), req.Email, req.Name, req.Password)
	switch {
	case errors.Is(err, auth.ErrUserExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, auth.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case err != nil:
		logger.WithTrace(c.Request.Context(), h.logger).Error("Registration failed", zap.Error(err))
		internalError(c, "registration failed")
	default:
		c.JSON(http.StatusCreated, gin.H{"id": u.ID, "email": u.Email, "name": u.Name})
	}
}

// Login handles POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	token, u, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case err != nil:
		logger.WithTrace(c.Request.Context(), h.logger).Error("Login failed", zap.Error(err))
		internalError(c, "login failed")
	default:
		c.JSON(http.StatusOK, gin.H{"token": token, "user": gin.H{"id": u.ID, "email": u.Email, "name": u.Name}})
	}
}

// LinkGoogle handles PUT /api/accounts/google
func (h *AuthHandler) LinkGoogle(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	var req struct {
		AccessToken  string    `json:"accessToken"`
		RefreshToken string    `json:"refreshToken"`
		TokenType    string    `json:"tokenType"`
		Expiry       time.Time `json:"expiry"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	tok := &oauth2.Token{
		AccessToken:  req.AccessToken,
		RefreshToken: req.RefreshToken,
		TokenType:    req.TokenType,
		Expiry:       req.Expiry,
	}
	h.respondLink(c, userID, "google", h.auth.LinkGoogle(c.Request.Context(), userID, tok))
}

// LinkGitHub handles PUT /api/accounts/github
func (h *AuthHandler) LinkGitHub(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	var req struct {
		AccessToken string `json:"accessToken"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	h.respondLink(c, userID, "github", h.auth.LinkGitHub(c.Request.Context(), userID, req.AccessToken))
}

func (h *AuthHandler) respondLink(c *gin.Context, userID int, account string, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case err != nil:
		logger.WithTrace(c.Request.Context(), h.logger).Error("Failed to link account",
			zap.Int("user_id", userID),
			zap.String("account", account),
			zap.Error(err),
		)
		internalError(c, "failed to link account")
	default:
		c.JSON(http.StatusOK, gin.H{"status": "linked", "account": account})
	}
}
