package review

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSeverity(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Severity
	}{
		{"plain text", "The code looks fine overall.", SeverityInfo},
		{"warning keyword", "warning: unused var", SeverityWarning},
		{"bug keyword", "There is a subtle bug in the loop bounds.", SeverityWarning},
		{"critical keyword", "This is a critical flaw.", SeverityCritical},
		{"sql injection", "SQL injection found in the query builder.", SeverityCritical},
		{"xss", "Possible XSS via unescaped template output.", SeverityCritical},
		{"critical wins over warning", "Warning: minor issue, but also a SQL injection found here.", SeverityCritical},
		{"case insensitive", "CRITICAL: do not ship this.", SeverityCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractSeverity(tt.text))
		})
	}
}

func TestExtractSuggestions(t *testing.T) {
	t.Run("numbered list", func(t *testing.T) {
		text := "Findings:\n1. Close the file handle.\n2. Check the error return.\nDone."
		got := ExtractSuggestions(text)
		require.Len(t, got, 2)
		assert.Equal(t, "Close the file handle.", got[0])
		assert.Equal(t, "Check the error return.", got[1])
	})

	t.Run("bullets as fallback", func(t *testing.T) {
		text := "- use context\n* avoid globals"
		got := ExtractSuggestions(text)
		require.Len(t, got, 2)
		assert.Equal(t, "use context", got[0])
		assert.Equal(t, "avoid globals", got[1])
	})

	t.Run("numbered wins over bullets", func(t *testing.T) {
		text := "1. first\n- bullet ignored"
		got := ExtractSuggestions(text)
		require.Len(t, got, 1)
		assert.Equal(t, "first", got[0])
	})

	t.Run("no list", func(t *testing.T) {
		assert.Empty(t, ExtractSuggestions("prose only, no lists here"))
	})
}

func TestSanitizeCode(t *testing.T) {
	in := "before <script>alert('x')</script> after"
	got := SanitizeCode(in)
	assert.Equal(t, "before "+RemovalMarker+" after", got)
	assert.NotContains(t, got, "<script>")

	in = "  <iframe src=\"evil\">x</iframe> code()  "
	got = SanitizeCode(in)
	assert.Equal(t, RemovalMarker+" code()", got)
}

func TestSanitizeResponse(t *testing.T) {
	in := `<div onclick="steal()">hi</div><script>bad()</script>`
	got := SanitizeResponse(in)
	assert.NotContains(t, got, "onclick")
	assert.NotContains(t, got, "<script>")
	assert.Contains(t, got, RemovalMarker)
}

func TestFormatReview(t *testing.T) {
	t.Run("escapes inside fenced block", func(t *testing.T) {
		in := "```go\nif a < b && b > c { }\n```"
		got := FormatReview(in)
		assert.Contains(t, got, "<pre><code>")
		assert.Contains(t, got, "&lt;")
		assert.Contains(t, got, "&gt;")
		assert.Contains(t, got, "&amp;&amp;")
		assert.NotContains(t, got, "```")
	})

	t.Run("inline code bold italic", func(t *testing.T) {
		got := FormatReview("use `ctx` and **never** ignore *errors*")
		assert.Contains(t, got, "<code>ctx</code>")
		assert.Contains(t, got, "<strong>never</strong>")
		assert.Contains(t, got, "<em>errors</em>")
	})

	t.Run("raw html is neutralized", func(t *testing.T) {
		got := FormatReview(`<img src=x onerror="p()">`)
		assert.False(t, strings.Contains(got, "<img"), "tag survived: %q", got)
		assert.Contains(t, got, "&lt;img")
	})
}

func TestBuildSystemPrompt(t *testing.T) {
	base := BuildSystemPrompt("")
	withLang := BuildSystemPrompt("go")
	assert.True(t, strings.HasPrefix(withLang, base))
	assert.Contains(t, withLang, "go-specific")
	assert.NotContains(t, base, "specific idioms")
}

func TestBuildUserPrompt(t *testing.T) {
	got := BuildUserPrompt("x := 1", "refactor sketch")
	assert.True(t, strings.HasPrefix(got, "Context: refactor sketch"))
	assert.Contains(t, got, "```\nx := 1\n```")

	noCtx := BuildUserPrompt("x := 1", " ")
	assert.False(t, strings.Contains(noCtx, "Context:"))
}

func TestBuildChatPrompts(t *testing.T) {
	assert.NotEqual(t, BuildChatSystemPrompt(), BuildSystemPrompt(""))
	assert.Equal(t, "hi there", BuildChatUserPrompt("hi there"))
}
