package model

import "time"

// RuleType names the item field a whitelist rule matches against.
type RuleType string

const (
	RuleSender     RuleType = "sender"
	RuleSubject    RuleType = "subject"
	RuleBody       RuleType = "body"
	RuleRepository RuleType = "repository"
	RuleEventType  RuleType = "eventType"
)

// DefaultRuleCategory is assigned when a rule is created without a category.
const DefaultRuleCategory = "Whitelisted Item"

// AllowedRuleTypes maps each source to the rule types valid for it.
var AllowedRuleTypes = map[Source][]RuleType{
	SourceGmail:    {RuleSender, RuleSubject, RuleBody},
	SourceGitHub:   {RuleRepository, RuleSubject},
	SourceCalendar: {RuleSubject, RuleEventType},
}

// WhitelistRule forces or suppresses importance for items it matches.
type WhitelistRule struct {
	ID          string    `json:"id"`
	UserID      int       `json:"-"`
	Source      Source    `json:"source"`
	Type        RuleType  `json:"type"`
	Value       string    `json:"value"`
	IsUrgent    bool      `json:"isUrgent"`
	IsImportant bool      `json:"isImportant"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"createdAt"`
}
