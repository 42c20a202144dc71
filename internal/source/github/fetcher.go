package github

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"notifyhub/internal/feed"
	"notifyhub/internal/model"
	"notifyhub/internal/session"
	"notifyhub/internal/source"
)

type Fetcher struct {
	client *Client
	logger *zap.Logger
	now    func() time.Time
}

func New(client *Client, logger *zap.Logger) *Fetcher {
	return &Fetcher{client: client, logger: logger, now: time.Now}
}

func (f *Fetcher) Name() model.Source { return model.SourceGitHub }

func (f *Fetcher) Fetch(ctx context.Context, sess *session.Session, window feed.Window) ([]model.Item, error) {
	if !sess.GitHubLinked() {
		return nil, source.ErrNotLinked
	}

	now := f.now()
	notes, err := f.client.Notifications(ctx, sess.GitHubToken, window.Start(now))
	if err != nil {
		return nil, fmt.Errorf("list github notifications: %w", err)
	}

	items := make([]model.Item, 0, len(notes))
	for _, n := range notes {
		items = append(items, toItem(n))
	}
	return items, nil
}

// toItem maps a notification onto the important, non-urgent baseline.
func toItem(n Notification) model.Item {
	title := n.Subject.Title
	if title == "" {
		title = "(No Title)"
	}

	// 解析失败时保留零值，排序时放在最后
	ts, _ := time.Parse(time.RFC3339, n.UpdatedAt)

	return model.Item{
		ID:          n.ID,
		Source:      model.SourceGitHub,
		Title:       title,
		Summary:     fmt.Sprintf("Repo: %s (%s). Reason: %s", n.Repository.FullName, n.Subject.Type, n.Reason),
		Timestamp:   ts,
		IsUrgent:    false,
		IsImportant: true,
		Category:    Category(n.Reason),
		Link:        htmlLink(n),
		GitHub: &model.GitHubDetails{
			Repository:  n.Repository.FullName,
			SubjectType: n.Subject.Type,
			Reason:      n.Reason,
		},
	}
}

var reasonCategories = map[string]string{
	"assign":      "Assigned",
	"ci_activity": "CI Activity",
}

// Category turns a notification reason code into a display label, e.g.
// review_requested becomes "Review Requested".
func Category(reason string) string {
	if c, ok := reasonCategories[reason]; ok {
		return c
	}
	if reason == "" {
		return "Notification"
	}
	words := strings.Split(reason, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// htmlLink rewrites the subject's API URL to its web page, falling back to
// the repository page.
func htmlLink(n Notification) string {
	const apiPrefix = "https://api.github.com/repos/"
	if strings.HasPrefix(n.Subject.URL, apiPrefix) {
		path := strings.TrimPrefix(n.Subject.URL, apiPrefix)
		path = strings.Replace(path, "/pulls/", "/pull/", 1)
		path = strings.Replace(path, "/commits/", "/commit/", 1)
		return "https://github.com/" + path
	}
	return n.Repository.HTMLURL
}
