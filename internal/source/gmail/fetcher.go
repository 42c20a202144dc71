// Package gmail lists recent Gmail messages and classifies each one.
package gmail

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"notifyhub/internal/classifier"
	"notifyhub/internal/feed"
	"notifyhub/internal/model"
	"notifyhub/internal/session"
	"notifyhub/internal/source"
	"notifyhub/pkg/logger"
)

const (
	// DefaultFilter drops the bulk mail the feed never wants.
	DefaultFilter = `-in:spam -in:promotions -category:social -category:forums -from:newsletter -from:marketing -label:read -subject:"unsubscribe"`
	// TabFilter is DefaultFilter minus LinkedIn, which has its own tab.
	TabFilter      = DefaultFilter + " -from:linkedin.com"
	LinkedInFilter = "from:linkedin.com"

	DefaultMaxResults     = 50
	DefaultMaxConcurrency = 4
)

// Classifier labels one email. It must not fail.
type Classifier interface {
	Analyze(ctx context.Context, email classifier.Email) classifier.Classification
}

type Options struct {
	MaxResults     int64
	MaxConcurrency int64
	// UnreadOnly adds is:unread to the query (the Gmail tab).
	UnreadOnly bool
	// Filter is the search expression; empty means DefaultFilter.
	Filter string
	// AnyTime lists regardless of the window: no after: bound and no date check.
	AnyTime bool
}

type Fetcher struct {
	open       MailboxFactory
	classifier Classifier
	opts       Options
	logger     *zap.Logger
	now        func() time.Time
}

func New(open MailboxFactory, c Classifier, opts Options, logger *zap.Logger) *Fetcher {
	if opts.MaxResults <= 0 {
		opts.MaxResults = DefaultMaxResults
	}
	if opts.MaxConcurrency <= 0 {
		opts.MaxConcurrency = DefaultMaxConcurrency
	}
	if opts.Filter == "" {
		opts.Filter = DefaultFilter
	}
	return &Fetcher{
		open:       open,
		classifier: c,
		opts:       opts,
		logger:     logger,
		now:        time.Now,
	}
}

func (f *Fetcher) Name() model.Source { return model.SourceGmail }

// Query builds the Gmail search expression for messages after since.
func (f *Fetcher) Query(since time.Time) string {
	q := f.opts.Filter
	if !f.opts.AnyTime {
		q = fmt.Sprintf("after:%d %s", since.Unix(), q)
	}
	if f.opts.UnreadOnly {
		q = "is:unread " + q
	}
	return q
}

func (f *Fetcher) Fetch(ctx context.Context, sess *session.Session, window feed.Window) ([]model.Item, error) {
	if !sess.GoogleLinked() {
		return nil, source.ErrNotLinked
	}
	log := logger.WithTrace(ctx, f.logger).With(zap.Int("user_id", sess.UserID))

	mb, err := f.open(ctx, sess.Google)
	if err != nil {
		return nil, err
	}

	now := f.now()
	ids, err := mb.List(ctx, f.Query(window.Start(now)), f.opts.MaxResults)
	if err != nil {
		return nil, fmt.Errorf("list gmail messages: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	sem := semaphore.NewWeighted(f.opts.MaxConcurrency)
	slots := make([]*model.Item, len(ids))
	var wg sync.WaitGroup

	for i, id := range ids {
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			defer sem.Release(1)

			msg, err := mb.Get(ctx, id)
			if err != nil {
				log.Warn("Failed to fetch gmail message", zap.String("message_id", id), zap.Error(err))
				return
			}
			if !f.opts.AnyTime && !window.Contains(now, msg.InternalDate) {
				return
			}
			slots[i] = f.toItem(ctx, sess.UserID, msg)
		}(i, id)
	}
	wg.Wait()

	items := make([]model.Item, 0, len(ids))
	for _, it := range slots {
		if it != nil {
			items = append(items, *it)
		}
	}
	if err := ctx.Err(); err != nil && len(items) == 0 {
		return nil, err
	}
	return items, nil
}

func (f *Fetcher) toItem(ctx context.Context, userID int, msg *Message) *model.Item {
	c := f.classifier.Analyze(ctx, classifier.Email{
		UserID:  userID,
		ID:      msg.ID,
		Subject: msg.Subject,
		From:    msg.From,
		Snippet: msg.Snippet,
	})

	title := c.Summary
	if c.Failed || title == "" {
		title = msg.Subject
	}
	if title == "" {
		title = "(No Subject)"
	}

	return &model.Item{
		ID:          msg.ID,
		Source:      model.SourceGmail,
		Title:       title,
		Summary:     c.Summary,
		From:        msg.From,
		Timestamp:   msg.InternalDate,
		IsUrgent:    c.IsUrgent,
		IsImportant: c.IsImportant,
		Category:    c.Category,
		Link:        messageLink(msg.ID),
		Gmail: &model.GmailDetails{
			Subject: msg.Subject,
			Snippet: msg.Snippet,
			Date:    msg.Date,
			Origin:  c.Source,
		},
	}
}
