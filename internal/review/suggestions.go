package review

import "regexp"

var (
	numberedLineRE = regexp.MustCompile(`(?m)^\s*\d+\.\s+(.+)$`)
	bulletLineRE   = regexp.MustCompile(`(?m)^\s*[-*]\s+(.+)$`)
)

// ExtractSuggestions pulls actionable items out of the response text in
// document order. Numbered-list lines win; bullet lines are the fallback
// when no numbered lines exist.
func ExtractSuggestions(responseText string) []string {
	suggestions := collectMatches(numberedLineRE, responseText)
	if len(suggestions) == 0 {
		suggestions = collectMatches(bulletLineRE, responseText)
	}
	return suggestions
}

func collectMatches(re *regexp.Regexp, text string) []string {
	matches := re.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	lines := make([]string, 0, len(matches))
	for _, m := range matches {
		lines = append(lines, m[1])
	}
	return lines
}
