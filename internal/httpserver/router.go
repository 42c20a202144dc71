package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"notifyhub/internal/handler"
	"notifyhub/pkg/otel"
)

// Pinger reports whether a backing store is reachable. *pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handlers struct {
	Auth           *handler.AuthHandler
	Recommendation *handler.RecommendationHandler
	Whitelist      *handler.WhitelistHandler
	GitHub         *handler.GitHubHandler
	Mail           *handler.MailHandler
}

type Router struct {
	Engine *gin.Engine
}

func NewRouter(h Handlers, sessions SessionBuilder, jwtSecret string, db Pinger, log *zap.Logger) *Router {
	r := gin.New()
	r.Use(gin.Recovery(), TraceMiddleware(), otel.GinMiddleware(), AccessLog(log))

	// Health endpoints (放在最前面)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.HEAD("/healthz", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 1*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db_not_ready", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public
	r.POST("/register", h.Auth.Register)
	r.POST("/login", h.Auth.Login)

	// Protected
	api := r.Group("/api")
	api.Use(AuthMiddleware(jwtSecret))
	{
		api.PUT("/accounts/google", h.Auth.LinkGoogle)
		api.PUT("/accounts/github", h.Auth.LinkGitHub)

		api.GET("/recommendations/manage-whitelist", h.Whitelist.ListRules)
		api.POST("/recommendations/manage-whitelist", h.Whitelist.UpsertRule)
		api.DELETE("/recommendations/manage-whitelist/:ruleId", h.Whitelist.DeleteRule)

		feeds := api.Group("")
		feeds.Use(SessionMiddleware(sessions, log))
		feeds.GET("/recommendations", h.Recommendation.GetRecommendations)
		feeds.GET("/tabs/gmail", h.Recommendation.GmailTab)
		feeds.GET("/tabs/calendar", h.Recommendation.CalendarTab)
		feeds.GET("/tabs/linkedin", h.Recommendation.LinkedInTab)
		feeds.POST("/tabs/gmail/mark-as-read", h.Mail.MarkRead)
		feeds.GET("/tabs/gmail/:messageId/full", h.Mail.FullContent)
		feeds.GET("/tabs/github", h.GitHub.Tab)
		feeds.GET("/tabs/github/pr/:owner/:repo/:number", h.GitHub.PullRequest)
	}

	return &Router{Engine: r}
}

func (r *Router) Run(port string) error {
	return r.Engine.Run(port)
}
