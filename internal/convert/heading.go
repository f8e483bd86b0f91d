package convert

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Keywords that make a colon-terminated line a top-level heading.
var sectionKeywords = []string{
	"section", "chapter", "part", "appendix", "annex", "schedule", "article",
	"introduction", "overview", "background", "summary", "conclusion",
	"scope", "purpose", "objectives", "requirements", "recommendations",
	"framework", "management", "assessment", "methodology", "findings",
}

// Labels that introduce a heading-like line when it is not a full sentence.
var labelKeywords = []string{
	"note:", "purpose:", "scope:", "objective:", "objectives:", "summary:",
	"background:", "definitions:", "recommendation:", "action:", "outcome:",
}

var (
	numberedOutline = regexp.MustCompile(`^\d+\.(?:\d+\.?)*\s+[A-Z]`)
	enumerator      = regexp.MustCompile(`(?i)^\(?(?:[a-z]|[ivxlcdm]+)\)\s`)
)

// InferHeading classifies a line of plain text as a heading level 1-3, or
// 0 when it reads as body text. Level 1 wins over 2, 2 over 3.
func InferHeading(text string) int {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}
	n := utf8.RuneCountInString(text)
	lower := strings.ToLower(text)

	if n < 120 {
		if strings.HasSuffix(text, ":") && containsAny(lower, sectionKeywords) {
			return 1
		}
		if !strings.HasSuffix(text, ".") && containsAny(lower, labelKeywords) {
			return 1
		}
	}
	if n < 100 && numberedOutline.MatchString(text) {
		return 2
	}
	if n < 80 && enumerator.MatchString(text) {
		return 3
	}
	return 0
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
