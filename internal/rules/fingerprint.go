package rules

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"

	"notifyhub/internal/model"
)

// Fingerprint identifies a rule set by the fields Apply reads. Order counts:
// the last matching rule decides the category.
func Fingerprint(rules []model.WhitelistRule) string {
	h := sha256.New()
	for _, r := range rules {
		for _, f := range []string{
			string(r.Source), string(r.Type), r.Value, r.Category,
			strconv.FormatBool(r.IsUrgent), strconv.FormatBool(r.IsImportant),
		} {
			h.Write([]byte(f))
			h.Write([]byte{0})
		}
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}
