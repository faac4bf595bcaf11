package utils

import "strings"

var levelAliases = map[string]string{
	"intern":       "Intern",
	"internship":   "Intern",
	"entry":        "Junior",
	"entry-level":  "Junior",
	"entry level":  "Junior",
	"jr":           "Junior",
	"junior":       "Junior",
	"mid":          "Mid-level",
	"mid-level":    "Mid-level",
	"mid level":    "Mid-level",
	"intermediate": "Mid-level",
	"sr":           "Senior",
	"senior":       "Senior",
	"lead":         "Lead",
	"staff":        "Staff",
	"principal":    "Principal",
}

// NormalizeLevel folds the spellings a voice transcript produces for common
// experience levels ("jr", "Mid level", "SENIOR") into one form. Anything
// else is kept as spoken, trimmed.
func NormalizeLevel(level string) string {
	level = strings.TrimSpace(level)
	key := strings.TrimSuffix(strings.ToLower(level), ".")
	if canonical, ok := levelAliases[key]; ok {
		return canonical
	}
	return level
}

// StripFences removes a surrounding markdown code fence, if any, and trims the result.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	// drop the opening fence line, including any language tag
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
