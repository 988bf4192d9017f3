package intent

import (
	"strings"
	"unicode"

	"github.com/samber/lo"
)

// KnownParts are the only part descriptions recognised, checked in order.
var KnownParts = []string{"power cord", "filter", "fan", "control board", "display"}

// ExtractModelNumber returns the first whitespace-delimited token containing a
// digit, or "" when there is none. Any token with a digit qualifies, so "3pm"
// is taken for a model number too.
func ExtractModelNumber(utterance string) string {
	token, _ := lo.Find(strings.Fields(utterance), hasDigit)
	return token
}

// ExtractPartDescription returns the first entry of KnownParts contained in
// the lowercased utterance, or "".
func ExtractPartDescription(utterance string) string {
	lowered := strings.ToLower(utterance)
	part, _ := lo.Find(KnownParts, func(p string) bool {
		return strings.Contains(lowered, p)
	})
	return part
}

func hasDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}
