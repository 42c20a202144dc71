package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"notifyhub/internal/handler/mocks"
	"notifyhub/internal/model"
	"notifyhub/internal/rules"
	"notifyhub/internal/service/auth"
	"notifyhub/internal/service/whitelist"
	"notifyhub/internal/session"
	"notifyhub/internal/source"
	"notifyhub/internal/source/github"
	"notifyhub/internal/source/gmail"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type statusErr struct{ code int }

func (e statusErr) Error() string   { return fmt.Sprintf("upstream returned %d", e.code) }
func (e statusErr) StatusCode() int { return e.code }

// newEngine injects sess (and its user id) the way the session middleware would.
func newEngine(sess *session.Session) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if sess != nil {
			c.Set(UserIDKey, sess.UserID)
			c.Request = c.Request.WithContext(session.WithContext(c.Request.Context(), sess))
		}
		c.Next()
	})
	return r
}

func do(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func googleSession() *session.Session {
	return &session.Session{UserID: 7, Google: http.DefaultClient}
}

func TestGetRecommendations(t *testing.T) {
	ctrl := gomock.NewController(t)
	rec := mocks.NewMockRecommender(ctrl)
	h := NewRecommendationHandler(rec, zap.NewNop())

	t.Run("returns ranked items", func(t *testing.T) {
		sess := googleSession()
		items := []model.Item{{ID: "m1", Source: model.SourceGmail, Title: "Deploy", Timestamp: time.Now()}}
		rec.EXPECT().Recommend(gomock.Any(), sess).Return(items, nil)

		r := newEngine(sess)
		r.GET("/api/recommendations", h.GetRecommendations)
		w := do(r, http.MethodGet, "/api/recommendations", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var got []model.Item
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		require.Len(t, got, 1)
		assert.Equal(t, "m1", got[0].ID)
	})

	t.Run("empty feed is an empty array", func(t *testing.T) {
		sess := googleSession()
		rec.EXPECT().Recommend(gomock.Any(), sess).Return([]model.Item{}, nil)

		r := newEngine(sess)
		r.GET("/api/recommendations", h.GetRecommendations)
		w := do(r, http.MethodGet, "/api/recommendations", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())
	})

	t.Run("google not linked", func(t *testing.T) {
		r := newEngine(&session.Session{UserID: 7})
		r.GET("/api/recommendations", h.GetRecommendations)
		w := do(r, http.MethodGet, "/api/recommendations", nil)

		require.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, StatusNotLoggedIn, decode(t, w)["status"])
	})

	t.Run("no session", func(t *testing.T) {
		r := newEngine(nil)
		r.GET("/api/recommendations", h.GetRecommendations)
		w := do(r, http.MethodGet, "/api/recommendations", nil)

		require.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, StatusNotLoggedIn, decode(t, w)["status"])
	})

	t.Run("service failure", func(t *testing.T) {
		sess := googleSession()
		rec.EXPECT().Recommend(gomock.Any(), sess).Return(nil, errors.New("rules: connection refused"))

		r := newEngine(sess)
		r.GET("/api/recommendations", h.GetRecommendations)
		w := do(r, http.MethodGet, "/api/recommendations", nil)

		require.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "connection refused")
	})
}

func TestTabs(t *testing.T) {
	ctrl := gomock.NewController(t)
	rec := mocks.NewMockRecommender(ctrl)
	h := NewRecommendationHandler(rec, zap.NewNop())

	route := func(sess *session.Session) *gin.Engine {
		r := newEngine(sess)
		r.GET("/api/tabs/gmail", h.GmailTab)
		r.GET("/api/tabs/calendar", h.CalendarTab)
		r.GET("/api/tabs/linkedin", h.LinkedInTab)
		return r
	}

	t.Run("gmail tab", func(t *testing.T) {
		sess := googleSession()
		rec.EXPECT().SourceItems(gomock.Any(), sess, TabGmail).
			Return([]model.Item{{ID: "m1", Source: model.SourceGmail}}, nil)

		w := do(route(sess), http.MethodGet, "/api/tabs/gmail", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"id":"m1"`)
	})

	t.Run("linkedin tab", func(t *testing.T) {
		sess := googleSession()
		rec.EXPECT().SourceItems(gomock.Any(), sess, TabLinkedIn).Return([]model.Item{}, nil)

		w := do(route(sess), http.MethodGet, "/api/tabs/linkedin", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())
	})

	t.Run("calendar tab requires google", func(t *testing.T) {
		w := do(route(&session.Session{UserID: 7, GitHubToken: "gh"}), http.MethodGet, "/api/tabs/calendar", nil)
		require.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, StatusNotLoggedIn, decode(t, w)["status"])
	})

	t.Run("upstream auth failure maps to not logged in", func(t *testing.T) {
		sess := googleSession()
		rec.EXPECT().SourceItems(gomock.Any(), sess, TabCalendar).
			Return(nil, fmt.Errorf("Calendar: %w", statusErr{code: http.StatusUnauthorized}))

		w := do(route(sess), http.MethodGet, "/api/tabs/calendar", nil)
		require.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, StatusNotLoggedIn, decode(t, w)["status"])
	})

	t.Run("upstream outage", func(t *testing.T) {
		sess := googleSession()
		rec.EXPECT().SourceItems(gomock.Any(), sess, TabLinkedIn).
			Return(nil, fmt.Errorf("Gmail: %w", statusErr{code: http.StatusBadGateway}))

		w := do(route(sess), http.MethodGet, "/api/tabs/linkedin", nil)
		require.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Failed to fetch LinkedIn data.", decode(t, w)["error"])
	})
}

func TestSessionComesFromRequestContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	rec := mocks.NewMockRecommender(ctrl)
	h := NewRecommendationHandler(rec, zap.NewNop())

	sess := googleSession()
	rec.EXPECT().Recommend(gomock.Any(), sess).Return([]model.Item{}, nil)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		// 只放在 request context 里，gin 的 key 不设置
		c.Request = c.Request.WithContext(session.WithContext(c.Request.Context(), sess))
		c.Next()
	})
	r.GET("/api/recommendations", h.GetRecommendations)

	w := do(r, http.MethodGet, "/api/recommendations", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGitHubHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	tab := mocks.NewMockGitHubTab(ctrl)
	h := NewGitHubHandler(tab, zap.NewNop())

	route := func(sess *session.Session) *gin.Engine {
		r := newEngine(sess)
		r.GET("/api/tabs/github", h.Tab)
		r.GET("/api/tabs/github/pr/:owner/:repo/:number", h.PullRequest)
		return r
	}
	linked := &session.Session{UserID: 7, GitHubToken: "gh"}

	t.Run("tab envelope", func(t *testing.T) {
		view := &github.TabView{
			Notifications: []github.TabItem{{Item: model.Item{ID: "1", Source: model.SourceGitHub, IsUrgent: true}, Reason: "mention"}},
			Summary:       github.TabSummary{Total: 1, Notifications: 1, Urgent: 1},
		}
		tab.EXPECT().Build(gomock.Any(), linked).Return(view, nil)

		w := do(route(linked), http.MethodGet, "/api/tabs/github", nil)
		require.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.Equal(t, map[string]any{
			"total": 1.0, "notifications": 1.0, "pullRequests": 0.0, "urgent": 1.0, "important": 0.0,
		}, body["summary"])
		assert.Len(t, body["notifications"], 1)
	})

	t.Run("tab without token", func(t *testing.T) {
		w := do(route(googleSession()), http.MethodGet, "/api/tabs/github", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, StatusGitHubNotLinked, decode(t, w)["status"])
	})

	t.Run("revoked token", func(t *testing.T) {
		tab.EXPECT().Build(gomock.Any(), linked).Return(nil, fmt.Errorf("list: %w", statusErr{code: http.StatusUnauthorized}))

		w := do(route(linked), http.MethodGet, "/api/tabs/github", nil)
		require.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, StatusGitHubAuthFailed, decode(t, w)["status"])
	})

	t.Run("not linked from the source", func(t *testing.T) {
		tab.EXPECT().Build(gomock.Any(), linked).Return(nil, source.ErrNotLinked)

		w := do(route(linked), http.MethodGet, "/api/tabs/github", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, StatusGitHubNotLinked, decode(t, w)["status"])
	})

	t.Run("outage", func(t *testing.T) {
		tab.EXPECT().Build(gomock.Any(), linked).Return(nil, statusErr{code: http.StatusBadGateway})

		w := do(route(linked), http.MethodGet, "/api/tabs/github", nil)
		require.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("pull request", func(t *testing.T) {
		pr := &github.PullRequestView{ID: 9, Title: "Add retry", PRDetails: github.PRDetails{Number: 42, State: "open"}}
		tab.EXPECT().PullRequest(gomock.Any(), linked, "acme", "api", 42).Return(pr, nil)

		w := do(route(linked), http.MethodGet, "/api/tabs/github/pr/acme/api/42", nil)
		require.Equal(t, http.StatusOK, w.Code)
		got := decode(t, w)["pr"].(map[string]any)
		assert.Equal(t, "Add retry", got["title"])
		assert.EqualValues(t, 42, got["number"])
	})

	t.Run("pull request errors", func(t *testing.T) {
		w := do(route(linked), http.MethodGet, "/api/tabs/github/pr/acme/api/abc", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = do(route(googleSession()), http.MethodGet, "/api/tabs/github/pr/acme/api/1", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		tab.EXPECT().PullRequest(gomock.Any(), linked, "acme", "api", 404).Return(nil, statusErr{code: http.StatusNotFound})
		w = do(route(linked), http.MethodGet, "/api/tabs/github/pr/acme/api/404", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestMailHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	mail := mocks.NewMockMailActions(ctrl)
	h := NewMailHandler(mail, zap.NewNop())

	route := func(sess *session.Session) *gin.Engine {
		r := newEngine(sess)
		r.POST("/api/tabs/gmail/mark-as-read", h.MarkRead)
		r.GET("/api/tabs/gmail/:messageId/full", h.FullContent)
		return r
	}

	t.Run("mark as read", func(t *testing.T) {
		sess := googleSession()
		mail.EXPECT().MarkRead(gomock.Any(), sess, "abc").Return(nil)

		w := do(route(sess), http.MethodPost, "/api/tabs/gmail/mark-as-read", map[string]string{"messageId": "abc"})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Email marked as read successfully.", decode(t, w)["message"])
	})

	t.Run("mark as read needs an id", func(t *testing.T) {
		w := do(route(googleSession()), http.MethodPost, "/api/tabs/gmail/mark-as-read", map[string]string{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("mark as read with revoked grant", func(t *testing.T) {
		sess := googleSession()
		mail.EXPECT().MarkRead(gomock.Any(), sess, "abc").Return(fmt.Errorf("modify: %w", statusErr{code: http.StatusForbidden}))

		w := do(route(sess), http.MethodPost, "/api/tabs/gmail/mark-as-read", map[string]string{"messageId": "abc"})
		require.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, StatusNotLoggedIn, decode(t, w)["status"])
	})

	t.Run("full content", func(t *testing.T) {
		sess := googleSession()
		mail.EXPECT().Content(gomock.Any(), sess, "abc").Return(&gmail.Content{
			MessageID: "abc", FullContent: "hello", Link: "https://mail.google.com/mail/u/0/#inbox/abc",
		}, nil)

		w := do(route(sess), http.MethodGet, "/api/tabs/gmail/abc/full", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"messageId":"abc","fullContent":"hello","link":"https://mail.google.com/mail/u/0/#inbox/abc"}`, w.Body.String())
	})

	t.Run("full content of a missing message", func(t *testing.T) {
		sess := googleSession()
		mail.EXPECT().Content(gomock.Any(), sess, "gone").Return(nil, statusErr{code: http.StatusNotFound})

		w := do(route(sess), http.MethodGet, "/api/tabs/gmail/gone/full", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("requires google", func(t *testing.T) {
		w := do(route(&session.Session{UserID: 7}), http.MethodGet, "/api/tabs/gmail/abc/full", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestWhitelistHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	mgr := mocks.NewMockWhitelistManager(ctrl)
	h := NewWhitelistHandler(mgr, zap.NewNop())
	sess := &session.Session{UserID: 7}

	route := func() *gin.Engine {
		r := newEngine(sess)
		r.GET("/rules", h.ListRules)
		r.POST("/rules", h.UpsertRule)
		r.DELETE("/rules/:ruleId", h.DeleteRule)
		return r
	}

	t.Run("list", func(t *testing.T) {
		mgr.EXPECT().List(gomock.Any(), 7).Return([]model.WhitelistRule{
			{ID: "r1", Source: model.SourceGmail, Type: model.RuleSender, Value: "boss@corp.com"},
		}, nil)

		w := do(route(), http.MethodGet, "/rules", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"value":"boss@corp.com"`)
	})

	t.Run("created", func(t *testing.T) {
		mgr.EXPECT().Upsert(gomock.Any(), 7, model.WhitelistRule{
			Source: model.SourceGmail, Type: model.RuleSender, Value: "boss@corp.com", IsUrgent: true,
		}).Return(&model.WhitelistRule{ID: "r1", Source: model.SourceGmail, Type: model.RuleSender, Value: "boss@corp.com"}, true, nil)

		w := do(route(), http.MethodPost, "/rules", gin.H{
			"source": "Gmail", "type": "sender", "value": "boss@corp.com", "isUrgent": true,
		})
		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "Whitelist rule added successfully.", decode(t, w)["message"])
	})

	t.Run("updated", func(t *testing.T) {
		mgr.EXPECT().Upsert(gomock.Any(), 7, gomock.Any()).
			Return(&model.WhitelistRule{ID: "r1"}, false, nil)

		w := do(route(), http.MethodPost, "/rules", gin.H{"source": "Gmail", "type": "sender", "value": "x"})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Whitelist rule updated successfully.", decode(t, w)["message"])
	})

	t.Run("invalid rule", func(t *testing.T) {
		mgr.EXPECT().Upsert(gomock.Any(), 7, gomock.Any()).
			Return(nil, false, fmt.Errorf("%w: invalid type", rules.ErrInvalidRule))

		w := do(route(), http.MethodPost, "/rules", gin.H{"source": "GitHub", "type": "sender", "value": "x"})
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/rules", bytes.NewBufferString("{"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		route().ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("delete", func(t *testing.T) {
		mgr.EXPECT().Delete(gomock.Any(), 7, "r1").Return(nil)
		w := do(route(), http.MethodDelete, "/rules/r1", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("delete missing", func(t *testing.T) {
		mgr.EXPECT().Delete(gomock.Any(), 7, "nope").Return(whitelist.ErrRuleNotFound)
		w := do(route(), http.MethodDelete, "/rules/nope", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("store failure", func(t *testing.T) {
		mgr.EXPECT().List(gomock.Any(), 7).Return(nil, errors.New("db down"))
		w := do(route(), http.MethodGet, "/rules", nil)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestAuthHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockAuthenticator(ctrl)
	h := NewAuthHandler(svc, zap.NewNop())

	route := func(sess *session.Session) *gin.Engine {
		r := newEngine(sess)
		r.POST("/register", h.Register)
		r.POST("/login", h.Login)
		r.PUT("/api/accounts/google", h.LinkGoogle)
		r.PUT("/api/accounts/github", h.LinkGitHub)
		return r
	}

	t.Run("register", func(t *testing.T) {
		svc.EXPECT().Register(gomock.Any(), "a@b.com", "Ann", "secret123").
			Return(&model.User{ID: 1, Email: "a@b.com", Name: "Ann"}, nil)

		w := do(route(nil), http.MethodPost, "/register", gin.H{"email": "a@b.com", "name": "Ann", "password": "secret123"})
		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "a@b.com", decode(t, w)["email"])
	})

	t.Run("register duplicate", func(t *testing.T) {
		svc.EXPECT().Register(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, auth.ErrUserExists)

		w := do(route(nil), http.MethodPost, "/register", gin.H{"email": "a@b.com", "password": "secret123"})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("register missing fields", func(t *testing.T) {
		w := do(route(nil), http.MethodPost, "/register", gin.H{"email": "a@b.com"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("login", func(t *testing.T) {
		svc.EXPECT().Login(gomock.Any(), "a@b.com", "secret123").
			Return("jwt-token", &model.User{ID: 1, Email: "a@b.com"}, nil)

		w := do(route(nil), http.MethodPost, "/login", gin.H{"email": "a@b.com", "password": "secret123"})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "jwt-token", decode(t, w)["token"])
	})

	t.Run("login bad credentials", func(t *testing.T) {
		svc.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).Return("", nil, auth.ErrInvalidCredentials)

		w := do(route(nil), http.MethodPost, "/login", gin.H{"email": "a@b.com", "password": "wrong"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("link google", func(t *testing.T) {
		svc.EXPECT().LinkGoogle(gomock.Any(), 7, gomock.Any()).Return(nil)

		w := do(route(&session.Session{UserID: 7}), http.MethodPut, "/api/accounts/google",
			gin.H{"accessToken": "ya29", "refreshToken": "1//r"})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "google", decode(t, w)["account"])
	})

	t.Run("link github rejected", func(t *testing.T) {
		svc.EXPECT().LinkGitHub(gomock.Any(), 7, "").Return(auth.ErrInvalidInput)

		w := do(route(&session.Session{UserID: 7}), http.MethodPut, "/api/accounts/github", gin.H{"accessToken": ""})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("link requires login", func(t *testing.T) {
		w := do(route(nil), http.MethodPut, "/api/accounts/github", gin.H{"accessToken": "gh"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
