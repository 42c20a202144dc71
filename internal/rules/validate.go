package rules

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"notifyhub/internal/model"
)

var ErrInvalidRule = errors.New("invalid whitelist rule")

// Validate checks that rule names a known source, a type allowed for that
// source and a non-empty value. It normalizes Source to its canonical
// spelling and fills in the default category.
func Validate(rule *model.WhitelistRule) error {
	if rule.Source == "" || rule.Type == "" || strings.TrimSpace(rule.Value) == "" {
		return fmt.Errorf("%w: source, type, and value are required", ErrInvalidRule)
	}

	src, ok := model.ParseSource(string(rule.Source))
	if !ok {
		return fmt.Errorf("%w: invalid source %q, allowed: %s", ErrInvalidRule, rule.Source, joinSources())
	}
	rule.Source = src

	allowed := model.AllowedRuleTypes[src]
	if !slices.Contains(allowed, rule.Type) {
		return fmt.Errorf("%w: invalid type %q for source %q, allowed: %s",
			ErrInvalidRule, rule.Type, src, joinTypes(allowed))
	}

	if strings.TrimSpace(rule.Category) == "" {
		rule.Category = model.DefaultRuleCategory
	}
	return nil
}

func joinSources() string {
	names := make([]string, len(model.Sources))
	for i, s := range model.Sources {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

func joinTypes(types []model.RuleType) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
