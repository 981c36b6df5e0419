package utils

import (
	"strings"

	"promptsmith_server/internal/types"
)

// CleanReply strips the wrapping models like to add around a bare text
// answer: code fences and matching quotes.
func CleanReply(reply string) string {
	cleaned := strings.TrimSpace(reply)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		if nl := strings.IndexByte(cleaned, '\n'); nl >= 0 && !strings.Contains(cleaned[:nl], " ") {
			cleaned = cleaned[nl+1:] // language tag
		}
		cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
		cleaned = strings.TrimSpace(cleaned)
	}
	for _, q := range []string{`"`, "'", "“"} {
		closing := q
		if q == "“" {
			closing = "”"
		}
		if len(cleaned) >= len(q)+len(closing) && strings.HasPrefix(cleaned, q) && strings.HasSuffix(cleaned, closing) {
			cleaned = strings.TrimSpace(cleaned[len(q) : len(cleaned)-len(closing)])
			break
		}
	}
	return cleaned
}

// NormalizePowerUps trims modifier names and drops blanks and duplicates,
// keeping first-seen order.
func NormalizePowerUps(in []string) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, p := range in {
		p = strings.TrimSpace(p)
		key := strings.ToLower(p)
		if p == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p)
	}
	return out
}

// MergePreferences overlays the non-empty fields of override onto base.
func MergePreferences(base, override types.Preferences) types.Preferences {
	pick := func(b, o string) string {
		if strings.TrimSpace(o) != "" {
			return o
		}
		return b
	}
	return types.Preferences{
		Tone:                    pick(base.Tone, override.Tone),
		Style:                   pick(base.Style, override.Style),
		Length:                  pick(base.Length, override.Length),
		Model:                   pick(base.Model, override.Model),
		Provider:                pick(base.Provider, override.Provider),
		CustomSystemInstruction: pick(base.CustomSystemInstruction, override.CustomSystemInstruction),
	}
}
