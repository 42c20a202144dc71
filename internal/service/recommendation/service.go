// Package recommendation assembles the ranked cross-source feed.
package recommendation

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"notifyhub/internal/feed"
	"notifyhub/internal/model"
	"notifyhub/internal/rules"
	"notifyhub/internal/session"
	"notifyhub/internal/source"
	"notifyhub/pkg/circuitbreaker"
	"notifyhub/pkg/logger"
	"notifyhub/pkg/metrics"
	"notifyhub/pkg/otel"
	"notifyhub/pkg/util"
)

var ErrUnknownTab = errors.New("unknown tab")

// Config carries no fetch deadline; each upstream call is bounded by its HTTP
// client.
type Config struct {
	Window  feed.Window
	Breaker circuitbreaker.Config
}

// Tab is a single-source view served next to the ranked feed. Its source
// decides the time range; SourceItems applies no window.
type Tab struct {
	Source source.Source
	// KeepAll returns every listed item instead of only urgent or important ones.
	KeepAll bool
}

type Options struct {
	// Sources feed the recommendation list, fetched concurrently. Each one is
	// also served as a tab named after it in lower case unless Tabs overrides it.
	Sources []source.Source
	Tabs    map[string]Tab
	Rules   RuleStore
	// Cache may be nil.
	Cache FeedCache
}

type Service struct {
	sources  []source.Source
	tabs     map[string]Tab
	breakers map[model.Source]*circuitbreaker.CircuitBreaker
	rules    RuleStore
	cache    FeedCache
	cfg      Config
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(opts Options, cfg Config, logger *zap.Logger) *Service {
	if cfg.Window.Days <= 0 {
		cfg.Window.Days = feed.DefaultWindowDays
	}
	if cfg.Breaker.FailureThreshold <= 0 {
		cfg.Breaker = circuitbreaker.DefaultConfig()
	}

	s := &Service{
		sources:  opts.Sources,
		tabs:     make(map[string]Tab),
		breakers: make(map[model.Source]*circuitbreaker.CircuitBreaker),
		rules:    opts.Rules,
		cache:    opts.Cache,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
	for _, src := range opts.Sources {
		s.tabs[strings.ToLower(string(src.Name()))] = Tab{Source: src}
	}
	maps.Copy(s.tabs, opts.Tabs)
	// 每个上游一个熔断器，feed 和所有 tab 共用
	for _, tab := range s.tabs {
		if _, ok := s.breakers[tab.Source.Name()]; !ok {
			s.breakers[tab.Source.Name()] = circuitbreaker.NewCircuitBreaker(cfg.Breaker)
		}
	}
	for _, src := range opts.Sources {
		if _, ok := s.breakers[src.Name()]; !ok {
			s.breakers[src.Name()] = circuitbreaker.NewCircuitBreaker(cfg.Breaker)
		}
	}
	return s
}

// Recommend returns the user's ranked feed. Unavailable sources contribute
// nothing; only a failure to load the user's rules is returned.
func (s *Service) Recommend(ctx context.Context, sess *session.Session) ([]model.Item, error) {
	log := logger.WithTrace(ctx, s.logger).With(zap.Int("user_id", sess.UserID))

	ruleSet, err := s.rules.ListByUser(ctx, sess.UserID)
	if err != nil {
		return nil, fmt.Errorf("load whitelist rules: %w", err)
	}

	fingerprint := rules.Fingerprint(ruleSet)
	if s.cache != nil {
		snap, ok, err := s.cache.Get(ctx, sess.UserID)
		switch {
		case err != nil:
			metrics.RecordCacheLookup("feed", "error")
			log.Warn("Feed cache lookup failed", zap.Error(err))
		case ok && snap.Rules == fingerprint:
			metrics.RecordCacheLookup("feed", "hit")
			// 缓存可能跨过窗口边界，重新裁剪
			return feed.Merge(s.now(), s.cfg.Window, snap.Items), nil
		case ok:
			// 规则在缓存写入后变了
			metrics.RecordCacheLookup("feed", "stale")
		default:
			metrics.RecordCacheLookup("feed", "miss")
		}
	}

	lists := make([][]model.Item, len(s.sources))
	var g errgroup.Group
	for i, src := range s.sources {
		g.Go(func() error {
			lists[i] = s.fetch(ctx, log, sess, src)
			return nil
		})
	}
	_ = g.Wait()

	for i, list := range lists {
		lists[i] = applyRules(list, ruleSet)
	}
	items := feed.Merge(s.now(), s.cfg.Window, lists...)

	if s.cache != nil {
		snap := model.FeedSnapshot{Rules: fingerprint, Items: items}
		if err := s.cache.Set(ctx, sess.UserID, snap); err != nil {
			log.Warn("Failed to cache feed", zap.Error(err))
		}
	}
	metrics.ObserveFeedSize(len(items))
	log.Info("Recommendations assembled", zap.Int("items", len(items)))
	return items, nil
}

// SourceItems returns one tab's items in the order its source listed them:
// no whitelist rules and no cache, and unless the tab keeps everything only
// urgent or important items. Unlike Recommend it reports the fetch error.
func (s *Service) SourceItems(ctx context.Context, sess *session.Session, tab string) ([]model.Item, error) {
	t, ok := s.tabs[tab]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTab, tab)
	}

	items, err := s.fetchWithBreaker(ctx, sess, t.Source)
	if err != nil {
		return nil, err
	}
	if t.KeepAll {
		return items, nil
	}
	return applyRules(items, nil), nil
}

// fetch absorbs every error into an empty contribution.
func (s *Service) fetch(ctx context.Context, log *zap.Logger, sess *session.Session, src source.Source) []model.Item {
	items, err := s.fetchWithBreaker(ctx, sess, src)
	if err == nil {
		return items
	}
	if errors.Is(err, source.ErrNotLinked) {
		log.Debug("Source not linked, skipping", zap.String("source", string(src.Name())))
		return nil
	}
	_, kind := util.IsRetryableError(err)
	log.Warn("Source fetch failed, continuing without it",
		zap.String("source", string(src.Name())),
		zap.String("error_kind", kind),
		zap.Error(err),
	)
	return nil
}

func (s *Service) fetchWithBreaker(ctx context.Context, sess *session.Session, src source.Source) ([]model.Item, error) {
	name := src.Name()
	start := time.Now()

	ctx, span := otel.StartSpan(ctx, "source.Fetch", trace.WithAttributes(attribute.String("source", string(name))))

	var (
		items    []model.Item
		fetchErr error
	)
	err := s.breakers[name].Execute(func() error {
		items, fetchErr = src.Fetch(ctx, sess, s.cfg.Window)
		// 只有上游本身的故障才计入熔断，凭证或请求错误不算
		if retryable, _ := util.IsRetryableError(fetchErr); retryable {
			return fetchErr
		}
		return nil
	})
	if err == nil {
		err = fetchErr
	}
	otel.EndSpan(span, err)

	status := "success"
	switch {
	case err == nil:
	case errors.Is(err, source.ErrNotLinked):
		status = "not_linked"
	default:
		_, status = util.IsRetryableError(err)
	}
	metrics.RecordSourceFetch(string(name), status, time.Since(start))

	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return items, nil
}

// applyRules returns the items the rule set keeps. Items are copied, so the
// caller's slice is left untouched.
func applyRules(items []model.Item, ruleSet []model.WhitelistRule) []model.Item {
	kept := make([]model.Item, 0, len(items))
	for _, item := range items {
		if rules.Apply(&item, ruleSet).Keep() {
			kept = append(kept, item)
		}
	}
	return kept
}
