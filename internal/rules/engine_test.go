package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notifyhub/internal/model"
)

func gmailItem() model.Item {
	return model.Item{
		ID:          "m1",
		Source:      model.SourceGmail,
		Title:       "Quarterly numbers",
		Summary:     "Boss wants the quarterly numbers",
		From:        "Big Boss <boss@co.example>",
		Timestamp:   time.Now(),
		IsImportant: true,
		Category:    "Action Required",
		Gmail:       &model.GmailDetails{Subject: "Quarterly numbers", Snippet: "please send the deck"},
	}
}

func TestApply_VIPSender(t *testing.T) {
	item := gmailItem()
	rules := []model.WhitelistRule{
		{Source: model.SourceGmail, Type: model.RuleSender, Value: "BOSS@co", IsUrgent: true, Category: "VIP"},
	}

	res := Apply(&item, rules)

	assert.True(t, item.IsUrgent)
	assert.True(t, item.IsImportant)
	assert.Equal(t, "VIP", item.Category)
	assert.True(t, res.ShouldKeep)
	assert.False(t, res.FilteredOut)
	assert.True(t, res.Keep())
}

func TestApply_NoMatchKeepsBaseline(t *testing.T) {
	item := model.Item{
		ID:          "n1",
		Source:      model.SourceGitHub,
		Title:       "Fix flaky test",
		Summary:     "Repo: acme/api (PullRequest). Reason: review_requested",
		IsImportant: true,
		Category:    "Review Requested",
	}
	rules := []model.WhitelistRule{
		{Source: model.SourceGmail, Type: model.RuleSubject, Value: "Fix", IsUrgent: true, Category: "Other"},
		{Source: model.SourceGitHub, Type: model.RuleRepository, Value: "acme/web", IsUrgent: true, Category: "Web"},
	}

	res := Apply(&item, rules)

	assert.True(t, res.Keep())
	assert.False(t, item.IsUrgent)
	assert.Equal(t, "Review Requested", item.Category)
}

func TestApply_NotImportantWithoutMatchIsDropped(t *testing.T) {
	item := gmailItem()
	item.IsImportant = false

	res := Apply(&item, nil)

	assert.False(t, res.ShouldKeep)
	assert.False(t, res.Keep())
}

func TestApply_PlainWhitelistMatchKeeps(t *testing.T) {
	item := gmailItem()
	item.IsImportant = false
	rules := []model.WhitelistRule{
		{Source: model.SourceGmail, Type: model.RuleBody, Value: "DECK", Category: model.DefaultRuleCategory},
	}

	res := Apply(&item, rules)

	assert.True(t, res.Keep())
	assert.False(t, item.IsImportant)
	assert.Equal(t, model.DefaultRuleCategory, item.Category)
}

func TestApply_SuppressionWinsRegardlessOfOrder(t *testing.T) {
	keep := model.WhitelistRule{Source: model.SourceGmail, Type: model.RuleSubject, Value: "quarterly", IsImportant: true, Category: "Work"}
	promo := model.WhitelistRule{Source: model.SourceGmail, Type: model.RuleSender, Value: "boss@co", Category: "Promotions"}

	for name, rules := range map[string][]model.WhitelistRule{
		"suppress last":  {keep, promo},
		"suppress first": {promo, keep},
	} {
		t.Run(name, func(t *testing.T) {
			item := gmailItem()
			res := Apply(&item, rules)

			assert.True(t, res.ShouldKeep)
			assert.True(t, res.FilteredOut)
			assert.False(t, res.Keep())
		})
	}
}

func TestApply_SpamCategoryWithFlagsDoesNotSuppress(t *testing.T) {
	item := gmailItem()
	rules := []model.WhitelistRule{
		{Source: model.SourceGmail, Type: model.RuleSender, Value: "boss", IsImportant: true, Category: "Spam-ish but important"},
	}

	res := Apply(&item, rules)

	assert.False(t, res.FilteredOut)
	assert.True(t, res.Keep())
}

func TestApply_LastMatchingCategoryWins(t *testing.T) {
	item := gmailItem()
	rules := []model.WhitelistRule{
		{Source: model.SourceGmail, Type: model.RuleSender, Value: "boss", Category: "First"},
		{Source: model.SourceGmail, Type: model.RuleSubject, Value: "nomatch", Category: "Skipped"},
		{Source: model.SourceGmail, Type: model.RuleSubject, Value: "quarterly", Category: "Last"},
	}

	Apply(&item, rules)

	assert.Equal(t, "Last", item.Category)
}

func TestApply_Idempotent(t *testing.T) {
	rules := []model.WhitelistRule{
		{Source: model.SourceGmail, Type: model.RuleSender, Value: "boss", IsUrgent: true, Category: "VIP"},
		{Source: model.SourceGmail, Type: model.RuleSubject, Value: "quarterly", Category: "Finance"},
	}
	item := gmailItem()

	first := Apply(&item, rules)
	snapshot := item
	second := Apply(&item, rules)

	assert.Equal(t, first, second)
	assert.Equal(t, snapshot, item)
}

func TestApply_SourceComparedCaseInsensitively(t *testing.T) {
	item := gmailItem()
	rules := []model.WhitelistRule{
		{Source: "gmail", Type: model.RuleSender, Value: "boss", IsUrgent: true, Category: "VIP"},
	}

	Apply(&item, rules)

	assert.True(t, item.IsUrgent)
}

func TestMatches_FieldPerType(t *testing.T) {
	github := &model.Item{Source: model.SourceGitHub, Title: "Bump deps", Summary: "Repo: acme/api (PullRequest). Reason: subscribed"}
	calendar := &model.Item{Source: model.SourceCalendar, Title: "Standup", Summary: "Event at 09:00 - Room 4"}

	tests := []struct {
		name string
		rule model.WhitelistRule
		item *model.Item
		want bool
	}{
		{"github repository", model.WhitelistRule{Source: model.SourceGitHub, Type: model.RuleRepository, Value: "acme/api"}, github, true},
		{"github subject", model.WhitelistRule{Source: model.SourceGitHub, Type: model.RuleSubject, Value: "bump"}, github, true},
		{"github sender not valid", model.WhitelistRule{Source: model.SourceGitHub, Type: model.RuleSender, Value: "acme"}, github, false},
		{"calendar subject", model.WhitelistRule{Source: model.SourceCalendar, Type: model.RuleSubject, Value: "STANDUP"}, calendar, true},
		{"calendar eventType", model.WhitelistRule{Source: model.SourceCalendar, Type: model.RuleEventType, Value: "room 4"}, calendar, true},
		{"calendar body not valid", model.WhitelistRule{Source: model.SourceCalendar, Type: model.RuleBody, Value: "room"}, calendar, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(&tt.rule, tt.item))
		})
	}
}

func TestValidate(t *testing.T) {
	rule := model.WhitelistRule{Source: "github", Type: model.RuleRepository, Value: "acme/api"}
	require.NoError(t, Validate(&rule))
	assert.Equal(t, model.SourceGitHub, rule.Source)
	assert.Equal(t, model.DefaultRuleCategory, rule.Category)

	bad := []model.WhitelistRule{
		{Source: model.SourceGmail, Type: model.RuleSender},
		{Source: "Slack", Type: model.RuleSender, Value: "x"},
		{Source: model.SourceCalendar, Type: model.RuleSender, Value: "x"},
	}
	for _, r := range bad {
		assert.ErrorIs(t, Validate(&r), ErrInvalidRule)
	}
}
