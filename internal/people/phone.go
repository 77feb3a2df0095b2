package people

import "strings"

// PhoneNormalizer canonicalizes phone numbers into a comparable +-prefixed
// form. Two phone strings denote the same identity iff their normalized
// forms are character-equal.
type PhoneNormalizer struct {
	CountryCode string // country code digits, e.g. "90"
	TrunkPrefix string // local trunk prefix, e.g. "0"
}

// Normalize strips everything except digits and a leading '+', then applies
// the prefix policy in order: an already '+'-prefixed number is kept as is;
// a number starting with the country code gets '+' prepended; a number
// starting with the trunk prefix has it swapped for '+<country code>';
// anything else gets '+' prepended. Empty input yields empty output. The
// function is pure and idempotent.
func (n PhoneNormalizer) Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '+' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return ""
	}

	switch {
	case strings.HasPrefix(cleaned, "+"):
		return cleaned
	case n.CountryCode != "" && strings.HasPrefix(cleaned, n.CountryCode):
		return "+" + cleaned
	case n.TrunkPrefix != "" && strings.HasPrefix(cleaned, n.TrunkPrefix):
		return "+" + n.CountryCode + cleaned[len(n.TrunkPrefix):]
	default:
		return "+" + cleaned
	}
}
