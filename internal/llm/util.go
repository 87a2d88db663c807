package llm

import "strings"

// CleanJSONBlock extracts the JSON payload from a model response. Markdown
// code fences, conversational preambles and trailing remarks are dropped.
// Text without any JSON value is returned trimmed and otherwise unchanged.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := text[:idx]
			// a short first line without JSON is a language identifier
			if len(firstLine) < 20 && !strings.ContainsAny(firstLine, " {[") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}

	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return text
	}
	if value := balancedValue(text[start:]); value != "" {
		return value
	}
	return text
}

// balancedValue returns the leading JSON object or array of text, honouring
// string literals and escapes. It returns "" when text does not start with a
// complete value.
func balancedValue(text string) string {
	if text == "" || (text[0] != '{' && text[0] != '[') {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(text); i++ {
		ch := text[i]
		switch {
		case escaped:
			escaped = false
		case inString && ch == '\\':
			escaped = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == '{' || ch == '[':
			depth++
		case ch == '}' || ch == ']':
			depth--
			if depth == 0 {
				return text[:i+1]
			}
		}
	}
	return ""
}
