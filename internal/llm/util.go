package llm

import "strings"

// StripCodeFence removes a markdown code fence wrapped around a response.
// Models sometimes fence plain text even when asked not to.
func StripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimPrefix(text, "```")
	// Drop a language tag on the opening line, e.g. ```markdown
	if idx := strings.Index(text, "\n"); idx >= 0 {
		if first := text[:idx]; !strings.Contains(strings.TrimSpace(first), " ") {
			text = text[idx+1:]
		}
	}
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}
