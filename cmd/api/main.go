package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"notifyhub/internal/cache"
	"notifyhub/internal/classifier"
	"notifyhub/internal/config"
	"notifyhub/internal/feed"
	"notifyhub/internal/handler"
	"notifyhub/internal/httpserver"
	"notifyhub/internal/repository"
	"notifyhub/internal/service/auth"
	"notifyhub/internal/service/recommendation"
	"notifyhub/internal/service/whitelist"
	"notifyhub/internal/session"
	"notifyhub/internal/source"
	"notifyhub/internal/source/calendar"
	"notifyhub/internal/source/github"
	"notifyhub/internal/source/gmail"
	"notifyhub/migrations"
	"notifyhub/pkg/db"
	"notifyhub/pkg/logger"
	"notifyhub/pkg/mq"
	"notifyhub/pkg/otel"
	"notifyhub/pkg/redis"
)

func main() {
	cfg, err := config.Load("config")
	if err != nil {
		panic(err)
	}

	log := logger.NewLogger(cfg.LogLevel)
	defer log.Sync()

	log.Info("Starting notifyhub api...",
		zap.String("env", cfg.Env),
		zap.String("db_host", cfg.DB.Host),
		zap.Int("window_days", cfg.Sources.WindowDays),
	)

	shutdownTracing, err := otel.Init("notifyhub-api", cfg.Tracing, log)
	if err != nil {
		log.Fatal("Failed to init tracing", zap.Error(err))
	}
	defer shutdownTracing()

	// DB
	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("Failed to init DB", zap.Error(err))
	}
	defer dbConn.Close()

	migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = db.Migrate(migrateCtx, dbConn, migrations.FS, log)
	cancel()
	if err != nil {
		log.Fatal("Failed to apply migrations", zap.Error(err))
	}

	userRepo := repository.NewUserRepository(dbConn)
	accountRepo := repository.NewAccountRepository(dbConn)
	ruleRepo := repository.NewRuleRepository(dbConn)

	// MQ 可选：没有 MQ 时规则变更无法通知 worker，feed 缓存随之关闭
	var publisher whitelist.Publisher
	mqPublisher, err := mq.NewPublisher(cfg.MQ)
	if err != nil {
		log.Warn("RabbitMQ unavailable, whitelist change events disabled", zap.Error(err))
	} else {
		defer mqPublisher.Close()
		publisher = mqPublisher
	}

	// Redis 可选：不可用时不缓存分类结果和 feed
	var (
		classifierCache classifier.Cache
		feedCache       recommendation.FeedCache
	)
	rdb, err := redis.NewRedisClient(cfg.Redis)
	if err != nil {
		log.Warn("Redis unavailable, caching disabled", zap.Error(err))
	} else {
		store := cache.NewStore(rdb, "notifyhub", log)
		classifierCache = store
		if publisher != nil && cfg.Cache.FeedTTL > 0 {
			feedCache = cache.NewFeedCache(store, cfg.Cache.FeedTTL)
		}
	}
	if rdb != nil {
		defer rdb.Close()
	}

	// Classifier
	gemini, err := classifier.NewGeminiModel(context.Background(), cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		log.Fatal("Failed to init Gemini model", zap.Error(err))
	}
	cls := classifier.New(gemini, classifierCache, cfg.Classifier, log)

	// Sources
	gmailFeed := gmail.New(gmail.NewAPIMailbox, cls, gmail.Options{
		MaxResults:     int64(cfg.Sources.GmailFeedMax),
		MaxConcurrency: int64(cfg.Classifier.MaxConcurrency),
	}, log)
	gmailTab := gmail.New(gmail.NewAPIMailbox, cls, gmail.Options{
		MaxResults:     int64(cfg.Sources.GmailTabMax),
		MaxConcurrency: int64(cfg.Classifier.MaxConcurrency),
		UnreadOnly:     true,
		AnyTime:        true,
		Filter:         gmail.TabFilter,
	}, log)
	linkedInTab := gmail.New(gmail.NewAPIMailbox, cls, gmail.Options{
		MaxResults:     int64(cfg.Sources.GmailTabMax),
		MaxConcurrency: int64(cfg.Classifier.MaxConcurrency),
		AnyTime:        true,
		Filter:         gmail.LinkedInFilter,
	}, log)
	// 上游调用的超时由各自的 http.Client 控制
	githubClient := github.NewClient(cfg.Sources.GitHubURL, cfg.Sources.Timeout)
	githubFetcher := github.New(githubClient, log)
	calendarFetcher := calendar.New(calendar.NewAPICalendar, log)

	// Services
	authService := auth.NewService(userRepo, accountRepo, cfg.JWT.Secret)
	whitelistService := whitelist.NewService(ruleRepo, publisher, log)
	recommendationService := recommendation.NewService(recommendation.Options{
		Sources: []source.Source{gmailFeed, githubFetcher, calendarFetcher},
		Tabs: map[string]recommendation.Tab{
			handler.TabGmail:    {Source: gmailTab},
			handler.TabCalendar: {Source: calendar.NewUpcoming(calendar.NewAPICalendar, log)},
			handler.TabLinkedIn: {Source: linkedInTab, KeepAll: true},
		},
		Rules: ruleRepo,
		Cache: feedCache,
	}, recommendation.Config{
		Window:  feed.Window{Days: cfg.Sources.WindowDays},
		Breaker: cfg.Breaker,
	}, log)

	sessions := session.NewBuilder(accountRepo, cfg.Google.ClientID, cfg.Google.ClientSecret, cfg.Sources.Timeout)

	router := httpserver.NewRouter(httpserver.Handlers{
		Auth:           handler.NewAuthHandler(authService, log),
		Recommendation: handler.NewRecommendationHandler(recommendationService, log),
		Whitelist:      handler.NewWhitelistHandler(whitelistService, log),
		GitHub:         handler.NewGitHubHandler(github.NewTab(githubClient, log), log),
		Mail:           handler.NewMailHandler(gmail.NewMessages(gmail.NewAPIMailbox), log),
	}, sessions, cfg.JWT.Secret, dbConn, log)

	srv := &http.Server{
		Addr:              cfg.Server.Port,
		Handler:           router.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// 优雅退出处理
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down notifyhub api gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	}

	log.Info("notifyhub api shutdown complete")
}
