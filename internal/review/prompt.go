// Package review holds the prompt templates for the two turn modes and the
// heuristics that post-process model output: severity triage, suggestion
// extraction, and display sanitization.
package review

import (
	"fmt"
	"strings"
)

const reviewSystemPrompt = `You are an expert code reviewer. Review the submitted code and report your findings clearly and concisely.

Guidelines:
1. Look for bugs, security vulnerabilities, performance problems, and correctness issues first; style only when it hurts readability.
2. Rate the overall severity of your findings: say "critical" for security vulnerabilities (SQL injection, XSS, unsafe input handling) or data-loss bugs, "warning" for bugs and correctness issues, otherwise treat the code as acceptable.
3. Give a numbered list of concrete, actionable suggestions.
4. Keep explanations short. Show corrected code in fenced blocks when it helps.`

const chatSystemPrompt = `You are a friendly programming assistant. Answer questions about software development clearly and concisely. When the user shares code, explain it; when they ask for code, provide it in fenced blocks. Keep answers short and practical.`

// BuildSystemPrompt returns the review-guidelines template, with a
// language-specific focus clause appended when a hint is supplied.
func BuildSystemPrompt(language string) string {
	language = strings.TrimSpace(language)
	if language == "" {
		return reviewSystemPrompt
	}
	return reviewSystemPrompt + fmt.Sprintf("\n\nThe code is %s. Pay particular attention to %s-specific idioms and common pitfalls.", language, language)
}

// BuildUserPrompt wraps the code in a fenced block, prefixed with the
// caller's free-text context when present.
func BuildUserPrompt(code, userContext string) string {
	var b strings.Builder
	if ctx := strings.TrimSpace(userContext); ctx != "" {
		b.WriteString("Context: ")
		b.WriteString(ctx)
		b.WriteString("\n\n")
	}
	b.WriteString("Please review the following code:\n\n```\n")
	b.WriteString(code)
	b.WriteString("\n```")
	return b.String()
}

// BuildChatSystemPrompt returns the conversational template, distinct from
// the review template.
func BuildChatSystemPrompt() string {
	return chatSystemPrompt
}

// BuildChatUserPrompt is an identity passthrough; chat messages reach the
// model unmodified.
func BuildChatUserPrompt(message string) string {
	return message
}
