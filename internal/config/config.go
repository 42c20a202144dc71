package config

import (
	"os"
	"strconv"
	"time"

	"notifyhub/internal/classifier"
	"notifyhub/internal/feed"
	"notifyhub/pkg/circuitbreaker"
	"notifyhub/pkg/config"
)

type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

type SourcesConfig struct {
	// Timeout is the per-request timeout of the Google and GitHub HTTP clients.
	Timeout    time.Duration `yaml:"timeout"`
	WindowDays int           `yaml:"window_days"`
	GitHubURL  string        `yaml:"github_url"`
	// Gmail tab lists unread mail only, capped at GmailTabMax.
	GmailFeedMax int `yaml:"gmail_feed_max"`
	GmailTabMax  int `yaml:"gmail_tab_max"`
}

type CacheConfig struct {
	// FeedTTL of zero disables feed caching.
	FeedTTL time.Duration `yaml:"feed_ttl"`
}

type WorkerConfig struct {
	Queue string `yaml:"queue"`
}

type Config struct {
	Env        string                `yaml:"-"`
	LogLevel   string                `yaml:"log_level"`
	DB         config.DBConfig       `yaml:"db"`
	MQ         config.MQConfig       `yaml:"mq"`
	Redis      config.RedisConfig    `yaml:"redis"`
	JWT        config.JWTConfig      `yaml:"jwt"`
	Server     config.ServerConfig   `yaml:"server"`
	Google     config.GoogleConfig   `yaml:"google"`
	Tracing    config.TracingConfig  `yaml:"tracing"`
	Gemini     GeminiConfig          `yaml:"gemini"`
	Classifier classifier.Config     `yaml:"classifier"`
	Sources    SourcesConfig         `yaml:"sources"`
	Cache      CacheConfig           `yaml:"cache"`
	Breaker    circuitbreaker.Config `yaml:"breaker"`
	Worker     WorkerConfig          `yaml:"worker"`
}

// Load 读取 configDir 下的配置文件，环境由 CONFIG_ENV 决定
func Load(configDir string) (*Config, error) {
	env := config.GetConfigEnv()

	var cfg Config
	if err := config.Load(env, configDir, &cfg); err != nil {
		return nil, err
	}
	cfg.Env = env

	// 环境变量覆盖
	config.OverrideDBFromEnv(&cfg.DB)
	config.OverrideMQFromEnv(&cfg.MQ)
	config.OverrideRedisFromEnv(&cfg.Redis)
	config.OverrideJWTFromEnv(&cfg.JWT)
	config.OverrideServerFromEnv(&cfg.Server)
	config.OverrideGoogleFromEnv(&cfg.Google)
	config.OverrideTracingFromEnv(&cfg.Tracing)
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		cfg.Gemini.APIKey = key
	}
	if model := os.Getenv("GEMINI_MODEL"); model != "" {
		cfg.Gemini.Model = model
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}
	if days := os.Getenv("FEED_WINDOW_DAYS"); days != "" {
		if n, err := strconv.Atoi(days); err == nil {
			cfg.Sources.WindowDays = n
		}
	}

	setDefaults(&cfg)
	return &cfg, nil
}

func setDefaults(cfg *Config) {
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Server.Port == "" {
		cfg.Server.Port = ":8080"
	}
	if cfg.Gemini.Model == "" {
		cfg.Gemini.Model = classifier.DefaultModel
	}

	c := &cfg.Classifier
	if c.MaxRetries <= 0 {
		c.MaxRetries = classifier.DefaultMaxRetries
	}
	if c.InitialBackoff <= 0 {
		c.InitialBackoff = classifier.DefaultInitialBackoff
	}
	if c.MaxConcurrency <= 0 {
		c.MaxConcurrency = 4
	}

	s := &cfg.Sources
	if s.Timeout <= 0 {
		s.Timeout = 15 * time.Second
	}
	if s.WindowDays <= 0 {
		s.WindowDays = 2
	}
	if s.GitHubURL == "" {
		s.GitHubURL = "https://api.github.com"
	}
	if s.GmailFeedMax <= 0 {
		s.GmailFeedMax = 50
	}
	if s.GmailTabMax <= 0 {
		s.GmailTabMax = 20
	}

	// 分类结果在窗口期内复用
	if c.CacheTTL <= 0 {
		c.CacheTTL = feed.Window{Days: s.WindowDays}.Duration()
	}

	if cfg.Breaker == (circuitbreaker.Config{}) {
		cfg.Breaker = circuitbreaker.DefaultConfig()
	}
	if cfg.Worker.Queue == "" {
		cfg.Worker.Queue = "whitelist.changed.cache.q"
	}
}
