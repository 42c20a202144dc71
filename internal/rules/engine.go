// Package rules applies user-authored whitelist rules to normalized items.
package rules

import (
	"strings"

	"notifyhub/internal/model"
)

// Result is the outcome of applying a rule set to one item.
type Result struct {
	// ShouldKeep is set when the item was already urgent/important or a
	// non-suppressing rule matched it.
	ShouldKeep bool
	// FilteredOut is set when any matching rule explicitly suppresses the item.
	FilteredOut bool
}

// Keep reports whether the item belongs in the feed. Suppression wins over
// ShouldKeep no matter which rule came first.
func (r Result) Keep() bool {
	return r.ShouldKeep && !r.FilteredOut
}

// Apply evaluates rules against item in order, mutating IsUrgent, IsImportant
// and Category on every match.
func Apply(item *model.Item, rules []model.WhitelistRule) Result {
	res := Result{ShouldKeep: item.IsImportant || item.IsUrgent}

	for i := range rules {
		rule := &rules[i]
		if !strings.EqualFold(string(rule.Source), string(item.Source)) {
			continue
		}
		if !Matches(rule, item) {
			continue
		}

		item.IsUrgent = item.IsUrgent || rule.IsUrgent
		item.IsImportant = item.IsImportant || rule.IsImportant
		item.Category = rule.Category

		if suppresses(rule) {
			res.FilteredOut = true
		} else {
			res.ShouldKeep = true
		}
	}
	return res
}

// Matches reports whether rule's value occurs, case-insensitively, in the item
// field selected by the rule's type. Types that are not valid for the rule's
// source never match.
func Matches(rule *model.WhitelistRule, item *model.Item) bool {
	field, ok := fieldFor(rule, item)
	if !ok || field == "" {
		return false
	}
	return containsFold(field, rule.Value)
}

func fieldFor(rule *model.WhitelistRule, item *model.Item) (string, bool) {
	src, _ := model.ParseSource(string(rule.Source))
	switch src {
	case model.SourceGmail:
		switch rule.Type {
		case model.RuleSender:
			return item.From, true
		case model.RuleSubject:
			return item.Title, true
		case model.RuleBody:
			return item.Body(), true
		}
	case model.SourceGitHub:
		switch rule.Type {
		case model.RuleRepository:
			return item.Summary, true
		case model.RuleSubject:
			return item.Title, true
		}
	case model.SourceCalendar:
		switch rule.Type {
		case model.RuleSubject:
			return item.Title, true
		case model.RuleEventType:
			return item.Summary, true
		}
	}
	return "", false
}

// suppresses reports whether a matching rule marks the item for removal: it
// sets no flags and its category names spam or promotions.
func suppresses(rule *model.WhitelistRule) bool {
	if rule.IsUrgent || rule.IsImportant {
		return false
	}
	return containsFold(rule.Category, "spam") || containsFold(rule.Category, "promotion")
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
