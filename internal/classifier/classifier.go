// Package classifier decides whether an inbound message looks like source
// code or like conversational text. It is a heuristic over ordered rule
// lists, not a parser: strong rules classify on a single match, weak
// indicators classify by count. Misclassification is tolerated; the only
// guarantees are determinism and the documented thresholds.
package classifier

import (
	"regexp"
	"strings"
)

const (
	// shortTextLimit is the length below which a message needs at least
	// minWeakMatches weak indicators to be treated as code.
	shortTextLimit = 50
	minWeakMatches = 2
)

type rule struct {
	name  string
	match func(text string) bool
}

func regexRule(name, pattern string) rule {
	re := regexp.MustCompile(pattern)
	return rule{name: name, match: re.MatchString}
}

var markupSpanRE = regexp.MustCompile(`(?s)^\s*<([a-zA-Z][\w-]*)[^>]*>.*</\s*([a-zA-Z][\w-]*)\s*>\s*$`)

// matchedMarkupSpan reports whether the whole text is wrapped in one
// open/close tag pair with matching names. RE2 has no backreferences, so
// the pair check happens on the captures.
func matchedMarkupSpan(text string) bool {
	m := markupSpanRE.FindStringSubmatch(text)
	return m != nil && strings.EqualFold(m[1], m[2])
}

// strongRules classify as code on any single match. Ordered by priority.
var strongRules = []rule{
	regexRule("sql statement", `(?is)^\s*(select\s+.+\s+from\s+|insert\s+into\s+|update\s+.+\s+set\s+|delete\s+from\s+)`),
	regexRule("function declaration", `(?m)^\s*(?:async\s+)?(?:func|function|def|fn)\s+[A-Za-z_]\w*\s*\(`),
	{name: "paired markup tag", match: matchedMarkupSpan},
}

// weakRules are counted; minWeakMatches or more classify as code.
var weakRules = []rule{
	regexRule("language keyword", `\b(var|let|const|func|function|def|return|import|package|class|struct|public|private|if|else|elif|for|while|try|catch|except)\b`),
	regexRule("punctuation cluster", `[{}\[\]();]{2,}`),
	regexRule("assignment", `[A-Za-z_]\w*\s*(:=|=)\s*\S`),
	regexRule("arrow function", `=>`),
	regexRule("method call", `\b\w+\.\w+\s*\(`),
	regexRule("type annotation", `\w+\s*:\s*(string|str|int|float|double|bool|boolean|number|u32|i32|u64|i64|f32|f64)\b`),
	regexRule("markup tag", `</?[a-zA-Z][\w-]*(\s[^>]*)?>`),
	regexRule("sql keyword", `(?i)\b(select|insert|update|delete|from|where|join|having)\b`),
	regexRule("comment marker", `(?m)(//|/\*|\*/|^\s*#(?:\s|!)|--\s)`),
}

// IsCode reports whether text should be routed to the code-review prompt.
//
// Policy, in priority order: a fenced block always wins; any strong rule
// wins; otherwise weak indicators are counted. Short texts never classify
// as code on fewer than minWeakMatches indicators.
func IsCode(text string) bool {
	if strings.Contains(text, "```") {
		return true
	}
	for _, r := range strongRules {
		if r.match(text) {
			return true
		}
	}
	matches := 0
	for _, r := range weakRules {
		if r.match(text) {
			matches++
		}
	}
	if len(text) < shortTextLimit && matches < minWeakMatches {
		return false
	}
	return matches >= minWeakMatches
}
