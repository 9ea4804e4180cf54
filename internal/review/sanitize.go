package review

import (
	"regexp"
	"strings"
)

// RemovalMarker replaces stripped script and iframe blocks so their absence
// is visible in the output.
const RemovalMarker = "[removed]"

var (
	scriptBlockRE  = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script\s*>`)
	iframeBlockRE  = regexp.MustCompile(`(?is)<iframe\b[^>]*>.*?</iframe\s*>`)
	eventHandlerRE = regexp.MustCompile(`(?i)\son\w+\s*=\s*("[^"]*"|'[^']*'|[^\s>]+)`)

	fencedBlockRE = regexp.MustCompile("(?s)```[a-zA-Z0-9_-]*\n?(.*?)```")
	inlineCodeRE  = regexp.MustCompile("`([^`\n]+)`")
	boldRE        = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italicRE      = regexp.MustCompile(`\*([^*\n]+)\*`)
)

// SanitizeCode strips script and iframe blocks from submitted code and
// trims surrounding whitespace. Best-effort mitigation for display
// contexts only; not a substitute for output escaping.
func SanitizeCode(code string) string {
	code = scriptBlockRE.ReplaceAllString(code, RemovalMarker)
	code = iframeBlockRE.ReplaceAllString(code, RemovalMarker)
	return strings.TrimSpace(code)
}

// SanitizeResponse strips script/iframe blocks and inline event-handler
// attributes from model output before it is shown to the caller.
func SanitizeResponse(text string) string {
	text = scriptBlockRE.ReplaceAllString(text, RemovalMarker)
	text = iframeBlockRE.ReplaceAllString(text, RemovalMarker)
	text = eventHandlerRE.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// escapeHTML escapes the five HTML-significant characters. Ampersand goes
// first so existing entities are not double-protected by accident.
func escapeHTML(s string) string {
	r := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
	)
	return r.Replace(s)
}

// FormatReview converts a constrained markdown subset (fenced code blocks,
// inline code, bold, italic) into escaped markup. Escaping happens before
// any markdown conversion, so model-supplied tags can never survive as
// live HTML.
func FormatReview(text string) string {
	escaped := escapeHTML(text)
	escaped = fencedBlockRE.ReplaceAllString(escaped, "<pre><code>$1</code></pre>")
	escaped = inlineCodeRE.ReplaceAllString(escaped, "<code>$1</code>")
	escaped = boldRE.ReplaceAllString(escaped, "<strong>$1</strong>")
	escaped = italicRE.ReplaceAllString(escaped, "<em>$1</em>")
	return escaped
}
