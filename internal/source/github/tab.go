package github

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"notifyhub/internal/model"
	"notifyhub/internal/session"
	"notifyhub/internal/source"
	"notifyhub/pkg/logger"
	"notifyhub/pkg/otel"
	"notifyhub/pkg/util"
)

const (
	// MaxTabPulls caps the user's own pull requests on the tab.
	MaxTabPulls = 20
	// 并发请求上游的数量上限
	tabConcurrency = 4

	reasonPRActivity = "pr_activity"
)

var (
	urgentReasons    = []string{"security_alert", "mention", "review_requested"}
	importantReasons = []string{"assign", "review_requested", "state_change"}
)

// PRDetails summarizes a pull request on a tab entry.
type PRDetails struct {
	Number         int        `json:"number"`
	State          string     `json:"state"`
	Merged         bool       `json:"merged"`
	Draft          bool       `json:"draft"`
	Author         string     `json:"author"`
	Assignees      []string   `json:"assignees"`
	Reviewers      []string   `json:"reviewers"`
	Labels         []string   `json:"labels"`
	Mergeable      *bool      `json:"mergeable"`
	MergeableState string     `json:"mergeable_state"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	ClosedAt       *time.Time `json:"closed_at"`
	MergedAt       *time.Time `json:"merged_at"`
	Body           string     `json:"body"`
	Additions      int        `json:"additions"`
	Deletions      int        `json:"deletions"`
	ChangedFiles   int        `json:"changed_files"`
	Commits        int        `json:"commits"`
	ReviewComments int        `json:"review_comments"`
	Comments       int        `json:"comments"`
}

type CommentView struct {
	ID        int64     `json:"id"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Path      string    `json:"path,omitempty"`
	Line      *int      `json:"line,omitempty"`
	DiffHunk  string    `json:"diff_hunk,omitempty"`
}

// TabItem is a notification or one of the user's pull requests, with the
// pull request's details and discussion when there is one.
type TabItem struct {
	model.Item
	Type          string        `json:"type"`
	Repo          string        `json:"repo"`
	Reason        string        `json:"reason"`
	PR            *PRDetails    `json:"prDetails"`
	PRComments    []CommentView `json:"prComments"`
	IssueComments []CommentView `json:"issueComments"`
}

type TabSummary struct {
	Total         int `json:"total"`
	Notifications int `json:"notifications"`
	PullRequests  int `json:"pullRequests"`
	Urgent        int `json:"urgent"`
	Important     int `json:"important"`
}

type TabView struct {
	Notifications []TabItem  `json:"notifications"`
	Summary       TabSummary `json:"summary"`
}

// PullRequestView is one pull request with both comment threads.
type PullRequestView struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	HTMLURL string `json:"html_url"`
	PRDetails
	ReviewCommentsData []CommentView `json:"review_comments_data"`
	IssueCommentsData  []CommentView `json:"issue_comments_data"`
}

// Tab builds the GitHub tab: every unread notification plus the user's
// recent pull requests, newest first.
type Tab struct {
	client *Client
	logger *zap.Logger
}

func NewTab(client *Client, logger *zap.Logger) *Tab {
	return &Tab{client: client, logger: logger}
}

// Build fails only when the notifications cannot be listed. Pull request
// details, comments and the user's own pull requests are best effort.
func (t *Tab) Build(ctx context.Context, sess *session.Session) (view *TabView, err error) {
	if !sess.GitHubLinked() {
		return nil, source.ErrNotLinked
	}
	ctx, span := otel.StartSpan(ctx, "github.Tab")
	defer func() { otel.EndSpan(span, err) }()

	log := logger.WithTrace(ctx, t.logger).With(zap.Int("user_id", sess.UserID))
	token := sess.GitHubToken

	notes, err := t.client.Notifications(ctx, token, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("list github notifications: %w", err)
	}
	pulls := t.userPulls(ctx, log, token)

	items := make([]TabItem, len(notes)+len(pulls))
	g := new(errgroup.Group)
	g.SetLimit(tabConcurrency)
	for i, n := range notes {
		g.Go(func() error {
			items[i] = t.notificationItem(ctx, log, token, n)
			return nil
		})
	}
	for i, pr := range pulls {
		g.Go(func() error {
			items[len(notes)+i] = t.pullItem(ctx, log, token, pr)
			return nil
		})
	}
	_ = g.Wait()

	slices.SortStableFunc(items, func(a, b TabItem) int {
		return newestFirst(a.Timestamp, b.Timestamp)
	})

	sum := TabSummary{Total: len(items), Notifications: len(notes), PullRequests: len(pulls)}
	for _, it := range items {
		if it.IsUrgent {
			sum.Urgent++
		}
		if it.IsImportant {
			sum.Important++
		}
	}
	return &TabView{Notifications: items, Summary: sum}, nil
}

// PullRequest fetches owner/repo#number with both comment threads.
func (t *Tab) PullRequest(ctx context.Context, sess *session.Session, owner, repo string, number int) (*PullRequestView, error) {
	if !sess.GitHubLinked() {
		return nil, source.ErrNotLinked
	}
	log := logger.WithTrace(ctx, t.logger).With(zap.Int("user_id", sess.UserID))

	pr, err := t.client.PullRequest(ctx, sess.GitHubToken, owner, repo, number)
	if err != nil {
		return nil, err
	}

	var review, issue []CommentView
	g := new(errgroup.Group)
	g.Go(func() error {
		review = t.thread(ctx, log, sess.GitHubToken, pr.ReviewCommentsURL)
		return nil
	})
	g.Go(func() error {
		issue = t.thread(ctx, log, sess.GitHubToken, pr.CommentsURL)
		return nil
	})
	_ = g.Wait()

	return &PullRequestView{
		ID:                 pr.ID,
		Title:              pr.Title,
		HTMLURL:            pr.HTMLURL,
		PRDetails:          details(pr),
		ReviewCommentsData: review,
		IssueCommentsData:  issue,
	}, nil
}

func (t *Tab) notificationItem(ctx context.Context, log *zap.Logger, token string, n Notification) TabItem {
	item := toItem(n)
	item.Summary = fmt.Sprintf("Notification from %s: %s", n.Repository.FullName, n.Subject.Title)
	item.IsUrgent = slices.Contains(urgentReasons, n.Reason)
	item.IsImportant = slices.Contains(importantReasons, n.Reason)

	ti := TabItem{
		Item:          item,
		Type:          n.Subject.Type,
		Repo:          n.Repository.FullName,
		Reason:        n.Reason,
		PRComments:    []CommentView{},
		IssueComments: []CommentView{},
	}
	if n.Subject.Type != "PullRequest" || n.Subject.URL == "" {
		return ti
	}

	pr, err := t.client.PullRequestAt(ctx, token, n.Subject.URL)
	if err != nil {
		_, kind := util.IsRetryableError(err)
		log.Warn("Failed to fetch pull request details",
			zap.String("notification_id", n.ID),
			zap.String("error_kind", kind),
			zap.Error(err),
		)
		return ti
	}
	d := details(pr)
	ti.PR = &d
	ti.PRComments = t.comments(ctx, log, token, pr.ReviewCommentsURL, pr.ReviewComments)
	ti.IssueComments = t.comments(ctx, log, token, pr.CommentsURL, pr.Comments)
	return ti
}

func (t *Tab) pullItem(ctx context.Context, log *zap.Logger, token string, pr repoPull) TabItem {
	open := pr.State == "open"
	d := details(&pr.PullRequest)
	return TabItem{
		Item: model.Item{
			ID:          "pr_" + strconv.FormatInt(pr.ID, 10),
			Source:      model.SourceGitHub,
			Title:       pr.Title,
			Summary:     fmt.Sprintf("PR #%d: %s", pr.Number, pr.Title),
			Timestamp:   pr.UpdatedAt,
			IsUrgent:    open && len(pr.RequestedReviewers) > 0,
			IsImportant: open || pr.MergedAt != nil,
			Category:    Category(reasonPRActivity),
			Link:        pr.HTMLURL,
			GitHub: &model.GitHubDetails{
				Repository:  pr.repo,
				SubjectType: "PullRequest",
				Reason:      reasonPRActivity,
			},
		},
		Type:          "PullRequest",
		Repo:          pr.repo,
		Reason:        reasonPRActivity,
		PR:            &d,
		PRComments:    t.comments(ctx, log, token, pr.ReviewCommentsURL, pr.ReviewComments),
		IssueComments: t.comments(ctx, log, token, pr.CommentsURL, pr.Comments),
	}
}

type repoPull struct {
	PullRequest
	repo string
}

// userPulls returns the MaxTabPulls most recently updated pull requests across
// the user's repositories. Repositories that fail to list are skipped.
func (t *Tab) userPulls(ctx context.Context, log *zap.Logger, token string) []repoPull {
	repos, err := t.client.UserRepos(ctx, token)
	if err != nil {
		log.Warn("Failed to list github repositories", zap.Error(err))
		return nil
	}

	perRepo := make([][]PullRequest, len(repos))
	g := new(errgroup.Group)
	g.SetLimit(tabConcurrency)
	for i, r := range repos {
		g.Go(func() error {
			pulls, err := t.client.RepoPulls(ctx, token, r.FullName)
			if err != nil {
				log.Debug("Skipping repository", zap.String("repo", r.FullName), zap.Error(err))
				return nil
			}
			perRepo[i] = pulls
			return nil
		})
	}
	_ = g.Wait()

	var out []repoPull
	for i, pulls := range perRepo {
		for _, pr := range pulls {
			out = append(out, repoPull{PullRequest: pr, repo: repos[i].FullName})
		}
	}
	slices.SortStableFunc(out, func(a, b repoPull) int {
		return newestFirst(a.UpdatedAt, b.UpdatedAt)
	})
	if len(out) > MaxTabPulls {
		out = out[:MaxTabPulls]
	}
	return out
}

// comments skips the request when count says the thread is empty.
func (t *Tab) comments(ctx context.Context, log *zap.Logger, token, apiURL string, count int) []CommentView {
	if count <= 0 {
		return []CommentView{}
	}
	return t.thread(ctx, log, token, apiURL)
}

// thread lists one comment thread. Failures yield an empty thread.
func (t *Tab) thread(ctx context.Context, log *zap.Logger, token, apiURL string) []CommentView {
	out := []CommentView{}
	if apiURL == "" {
		return out
	}
	list, err := t.client.Comments(ctx, token, apiURL)
	if err != nil {
		log.Warn("Failed to fetch comments", zap.String("url", apiURL), zap.Error(err))
		return out
	}
	for _, c := range list {
		out = append(out, CommentView{
			ID:        c.ID,
			Author:    c.User.Login,
			Body:      c.Body,
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
			Path:      c.Path,
			Line:      c.Line,
			DiffHunk:  c.DiffHunk,
		})
	}
	return out
}

func details(pr *PullRequest) PRDetails {
	return PRDetails{
		Number:         pr.Number,
		State:          pr.State,
		Merged:         pr.Merged,
		Draft:          pr.Draft,
		Author:         pr.User.Login,
		Assignees:      logins(pr.Assignees),
		Reviewers:      logins(pr.RequestedReviewers),
		Labels:         labelNames(pr.Labels),
		Mergeable:      pr.Mergeable,
		MergeableState: pr.MergeableState,
		CreatedAt:      pr.CreatedAt,
		UpdatedAt:      pr.UpdatedAt,
		ClosedAt:       pr.ClosedAt,
		MergedAt:       pr.MergedAt,
		Body:           pr.Body,
		Additions:      pr.Additions,
		Deletions:      pr.Deletions,
		ChangedFiles:   pr.ChangedFiles,
		Commits:        pr.Commits,
		ReviewComments: pr.ReviewComments,
		Comments:       pr.Comments,
	}
}

func logins(users []User) []string {
	out := make([]string, 0, len(users))
	for _, u := range users {
		out = append(out, u.Login)
	}
	return out
}

func labelNames(labels []Label) []string {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		out = append(out, l.Name)
	}
	return out
}

// newestFirst orders times descending with zero times last.
func newestFirst(a, b time.Time) int {
	switch {
	case a.IsZero() && b.IsZero():
		return 0
	case a.IsZero():
		return 1
	case b.IsZero():
		return -1
	}
	return b.Compare(a)
}
