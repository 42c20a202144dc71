// Package classifier asks a generative model to label an email with urgency,
// importance, category and a one-line summary.
package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"notifyhub/pkg/logger"
	"notifyhub/pkg/metrics"
	"notifyhub/pkg/otel"
)

// FailedCategory is assigned when the model could not classify an email.
const FailedCategory = "AI Analysis Failed"

const failedSummary = "Could not analyze this item due to an AI service error. Defaulted to non-important/non-urgent."

const (
	DefaultMaxRetries     = 3
	DefaultInitialBackoff = time.Second
)

// Email is the part of a message the model sees.
type Email struct {
	UserID  int
	ID      string
	Subject string
	From    string
	Snippet string
}

type Classification struct {
	// Source is the channel label the model picked: Gmail, JobPortal,
	// SocialMedia or Newsletter.
	Source      string `json:"source"`
	Category    string `json:"category"`
	IsUrgent    bool   `json:"isUrgent"`
	IsImportant bool   `json:"isImportant"`
	Summary     string `json:"summary"`
	Snippet     string `json:"snippet"`
	// Failed marks a fallback result. Fallbacks are never cached.
	Failed bool `json:"failed,omitempty"`
}

// Model generates a JSON document for prompt. Implementations return a
// *RateLimitError when the provider throttles the call.
type Model interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Cache stores successful classifications. Misses report false with a nil error.
type Cache interface {
	Get(ctx context.Context, key string, out any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// RateLimitError signals HTTP 429 from the provider. RetryAfter is the
// server's hint, zero when absent.
type RateLimitError struct {
	RetryAfter time.Duration
	Err        error
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("rate limited: %v", e.Err)
}

func (e *RateLimitError) Unwrap() error { return e.Err }

type Config struct {
	MaxRetries     int           `yaml:"max_retries"`
	InitialBackoff time.Duration `yaml:"initial_backoff"`
	// MaxConcurrency is the number of emails a fetcher classifies at once.
	MaxConcurrency int `yaml:"max_concurrency"`
	// CacheTTL bounds how long a classification is reused.
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

type Classifier struct {
	model  Model
	cache  Cache
	cfg    Config
	logger *zap.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

// New builds a Classifier. cache may be nil.
func New(model Model, cache Cache, cfg Config, logger *zap.Logger) *Classifier {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = DefaultInitialBackoff
	}
	return &Classifier{
		model:  model,
		cache:  cache,
		cfg:    cfg,
		logger: logger,
		sleep:  sleepCtx,
	}
}

// Analyze classifies email. It never fails: any error, including exhausted
// rate-limit retries, yields the fallback classification.
func (c *Classifier) Analyze(ctx context.Context, email Email) Classification {
	log := logger.WithTrace(ctx, c.logger).With(zap.String("email_id", email.ID))

	key := cacheKey(email)
	if c.cache != nil && key != "" {
		var cached Classification
		hit, err := c.cache.Get(ctx, key, &cached)
		switch {
		case err != nil:
			metrics.RecordCacheLookup("classification", "error")
			log.Warn("Classification cache lookup failed", zap.Error(err))
		case hit:
			metrics.RecordCacheLookup("classification", "hit")
			cached.Snippet = email.Snippet
			return cached
		default:
			metrics.RecordCacheLookup("classification", "miss")
		}
	}

	ctx, span := otel.StartSpan(ctx, "classifier.Analyze")
	result, err := c.analyze(ctx, log, email)
	otel.EndSpan(span, err)
	if err != nil {
		log.Warn("Email classification failed, using fallback", zap.Error(err))
		metrics.IncrementClassifierFallback()
		return Fallback(email)
	}

	if c.cache != nil && key != "" && c.cfg.CacheTTL > 0 {
		if err := c.cache.Set(ctx, key, result, c.cfg.CacheTTL); err != nil {
			log.Warn("Failed to cache classification", zap.Error(err))
		}
	}
	return result
}

func (c *Classifier) analyze(ctx context.Context, log *zap.Logger, email Email) (Classification, error) {
	prompt := BuildPrompt(email)
	backoff := c.cfg.InitialBackoff

	for attempt := 0; ; attempt++ {
		start := time.Now()
		text, err := c.model.Generate(ctx, prompt)
		if err == nil {
			metrics.RecordClassifierCall("success", time.Since(start))
			return Parse(text, email)
		}

		var rl *RateLimitError
		if !errors.As(err, &rl) {
			metrics.RecordClassifierCall("failed", time.Since(start))
			return Classification{}, err
		}
		metrics.RecordClassifierCall("rate_limited", time.Since(start))
		if attempt >= c.cfg.MaxRetries {
			return Classification{}, fmt.Errorf("giving up after %d retries: %w", attempt, err)
		}

		wait := backoff
		if rl.RetryAfter > 0 {
			wait = rl.RetryAfter
		}
		log.Warn("Model rate limit hit, retrying",
			zap.Duration("wait", wait),
			zap.Int("retries_left", c.cfg.MaxRetries-attempt-1),
		)
		if err := c.sleep(ctx, wait); err != nil {
			return Classification{}, err
		}
		backoff *= 2
	}
}

// Parse decodes the model's JSON answer. Non-boolean flags become false and a
// missing source becomes "Gmail". The original snippet is always kept.
func Parse(text string, email Email) (Classification, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &raw); err != nil {
		return Classification{}, fmt.Errorf("failed to decode model response: %w", err)
	}

	str := func(k string) string {
		s, _ := raw[k].(string)
		return s
	}
	flag := func(k string) bool {
		b, _ := raw[k].(bool)
		return b
	}

	out := Classification{
		Source:      str("source"),
		Category:    str("category"),
		IsUrgent:    flag("isUrgent"),
		IsImportant: flag("isImportant"),
		Summary:     str("summary"),
		Snippet:     email.Snippet,
	}
	if out.Source == "" {
		out.Source = "Gmail"
	}
	return out, nil
}

// Fallback is the safe default used when classification fails.
func Fallback(email Email) Classification {
	return Classification{
		Source:   "Gmail",
		Category: FailedCategory,
		Summary:  failedSummary,
		Snippet:  email.Snippet,
		Failed:   true,
	}
}

func cacheKey(email Email) string {
	if email.ID == "" {
		return ""
	}
	return fmt.Sprintf("classification:%d:%s", email.UserID, email.ID)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
