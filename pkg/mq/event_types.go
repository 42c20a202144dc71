package mq

// Routing keys published on ExchangeName.
const (
	RoutingKeyWhitelistChanged = "whitelist.changed"
)

// WhitelistChangedEvent is published whenever a user's whitelist rules change.
type WhitelistChangedEvent struct {
	UserID int    `json:"user_id"`
	RuleID string `json:"rule_id"`
	Action string `json:"action"` // created, updated, deleted
}
