// Package github lists a user's GitHub notifications and pull requests.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://api.github.com"
	apiVersion     = "2022-11-28"
)

// ErrForeignURL rejects an API URL outside the client's base URL.
var ErrForeignURL = errors.New("url outside github api")

// StatusError is a non-2xx response from the GitHub API.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("github api returned %d: %s", e.Code, e.Body)
}

func (e *StatusError) StatusCode() int { return e.Code }

type Notification struct {
	ID         string     `json:"id"`
	Reason     string     `json:"reason"`
	Unread     bool       `json:"unread"`
	UpdatedAt  string     `json:"updated_at"`
	Subject    Subject    `json:"subject"`
	Repository Repository `json:"repository"`
}

type Subject struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Type  string `json:"type"`
}

type Repository struct {
	FullName string `json:"full_name"`
	HTMLURL  string `json:"html_url"`
}

type User struct {
	Login string `json:"login"`
}

type Label struct {
	Name string `json:"name"`
}

// PullRequest is the REST pull request object. The list endpoint leaves the
// merge and diff statistics at zero.
type PullRequest struct {
	ID                 int64      `json:"id"`
	Number             int        `json:"number"`
	Title              string     `json:"title"`
	State              string     `json:"state"`
	Merged             bool       `json:"merged"`
	Draft              bool       `json:"draft"`
	User               User       `json:"user"`
	Assignees          []User     `json:"assignees"`
	RequestedReviewers []User     `json:"requested_reviewers"`
	Labels             []Label    `json:"labels"`
	Mergeable          *bool      `json:"mergeable"`
	MergeableState     string     `json:"mergeable_state"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	ClosedAt           *time.Time `json:"closed_at"`
	MergedAt           *time.Time `json:"merged_at"`
	Body               string     `json:"body"`
	Additions          int        `json:"additions"`
	Deletions          int        `json:"deletions"`
	ChangedFiles       int        `json:"changed_files"`
	Commits            int        `json:"commits"`
	ReviewComments     int        `json:"review_comments"`
	Comments           int        `json:"comments"`
	HTMLURL            string     `json:"html_url"`
	ReviewCommentsURL  string     `json:"review_comments_url"`
	CommentsURL        string     `json:"comments_url"`
}

// Comment is a review comment or an issue comment; Path, Line and DiffHunk
// are only set on review comments.
type Comment struct {
	ID        int64     `json:"id"`
	User      User      `json:"user"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Path      string    `json:"path"`
	Line      *int      `json:"line"`
	DiffHunk  string    `json:"diff_hunk"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Notifications lists unread notifications, only those updated since the
// given time unless it is zero.
func (c *Client) Notifications(ctx context.Context, token string, since time.Time) ([]Notification, error) {
	q := url.Values{}
	if !since.IsZero() {
		q.Set("since", since.UTC().Format(time.RFC3339))
	}
	q.Set("all", "false")

	var out []Notification
	if err := c.get(ctx, token, c.baseURL+"/notifications?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PullRequest fetches owner/repo#number.
func (c *Client) PullRequest(ctx context.Context, token, owner, repo string, number int) (*PullRequest, error) {
	u := fmt.Sprintf("%s/repos/%s/%s/pulls/%d", c.baseURL, url.PathEscape(owner), url.PathEscape(repo), number)
	return c.PullRequestAt(ctx, token, u)
}

// PullRequestAt fetches the pull request behind an API URL, such as a
// notification subject's.
func (c *Client) PullRequestAt(ctx context.Context, token, apiURL string) (*PullRequest, error) {
	var pr PullRequest
	if err := c.get(ctx, token, apiURL, &pr); err != nil {
		return nil, fmt.Errorf("pull request: %w", err)
	}
	return &pr, nil
}

// Comments lists the comments at a review_comments_url or comments_url.
func (c *Client) Comments(ctx context.Context, token, apiURL string) ([]Comment, error) {
	var out []Comment
	if err := c.get(ctx, token, apiURL, &out); err != nil {
		return nil, fmt.Errorf("comments: %w", err)
	}
	return out, nil
}

// UserRepos lists the repositories the user can access, most recently
// updated first.
func (c *Client) UserRepos(ctx context.Context, token string) ([]Repository, error) {
	var out []Repository
	if err := c.get(ctx, token, c.baseURL+"/user/repos?per_page=100&sort=updated", &out); err != nil {
		return nil, fmt.Errorf("user repos: %w", err)
	}
	return out, nil
}

// RepoPulls lists a repository's ten most recently updated pull requests in
// any state.
func (c *Client) RepoPulls(ctx context.Context, token, fullName string) ([]PullRequest, error) {
	var out []PullRequest
	u := c.baseURL + "/repos/" + fullName + "/pulls?state=all&per_page=10&sort=updated"
	if err := c.get(ctx, token, u, &out); err != nil {
		return nil, fmt.Errorf("pulls of %s: %w", fullName, err)
	}
	return out, nil
}

// get decodes the JSON at apiURL. The token is only ever sent to baseURL.
func (c *Client) get(ctx context.Context, token, apiURL string, out any) error {
	if !strings.HasPrefix(apiURL, c.baseURL+"/") {
		return fmt.Errorf("%w: %s", ErrForeignURL, apiURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Code: resp.StatusCode, Body: string(body)}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
