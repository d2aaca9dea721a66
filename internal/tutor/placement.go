package tutor

import (
	"regexp"
	"strings"
)

var cefrRe = regexp.MustCompile(`(?i)\b([abc][12])\b`)

// InferLevel maps the learner's free-text self-assessment to a coarse CEFR
// level for the placement request. A literal CEFR code wins; otherwise
// keyword matching, defaulting to B1.
func InferLevel(levelText string) string {
	if m := cefrRe.FindStringSubmatch(levelText); m != nil {
		return strings.ToUpper(m[1])
	}

	lower := strings.ToLower(levelText)
	switch {
	case strings.Contains(lower, "beginner"):
		return "A1"
	case strings.Contains(lower, "intermediate"):
		return "B1"
	case strings.Contains(lower, "advanced"):
		return "C1"
	}
	return "B1"
}
