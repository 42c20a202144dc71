package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"notifyhub/internal/handler"
	"notifyhub/internal/session"
	"notifyhub/pkg/logger"
	"notifyhub/pkg/trace"
	"notifyhub/pkg/util"
)

// SessionBuilder resolves the per-request upstream handles for a user.
type SessionBuilder interface {
	Build(ctx context.Context, userID int) (*session.Session, error)
}

// TraceMiddleware 为每个请求分配 trace_id，沿用调用方传入的值
func TraceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(trace.HeaderName)
		if traceID == "" {
			traceID = trace.GenerateTraceID()
		}
		c.Request = c.Request.WithContext(trace.WithContext(c.Request.Context(), traceID))
		c.Header(trace.HeaderName, traceID)
		c.Next()
	}
}

// AccessLog writes one line per request once the handler chain has finished.
func AccessLog(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.WithTrace(c.Request.Context(), log).Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := util.ExtractToken(c.Request)
		if token == "" {
			abortNotLoggedIn(c, "User not authenticated. Please log in.")
			return
		}

		userID, err := util.ParseJWT(token, jwtSecret)
		if err != nil {
			abortNotLoggedIn(c, "Session expired or invalid. Please log in again.")
			return
		}

		// store user_id in context so handlers can use it
		c.Set(handler.UserIDKey, userID)
		c.Next()
	}
}

// SessionMiddleware builds the request's Session after AuthMiddleware has
// identified the user and stores it on the request context.
func SessionMiddleware(builder SessionBuilder, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetInt(handler.UserIDKey)
		ctx := c.Request.Context()

		sess, err := builder.Build(ctx, userID)
		if err != nil {
			logger.WithTrace(ctx, log).Error("Failed to build session", zap.Int("user_id", userID), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to load linked accounts"})
			return
		}

		c.Request = c.Request.WithContext(session.WithContext(ctx, sess))
		c.Next()
	}
}

func abortNotLoggedIn(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": handler.StatusNotLoggedIn, "error": msg})
}
