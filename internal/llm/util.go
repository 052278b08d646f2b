package llm

import "strings"

// CleanJSONBlock extracts the JSON payload from an LLM response.
// LLMs often wrap JSON in ```json ... ``` blocks or prepend conversational
// preambles even when instructed not to.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	if inner, fenced := stripFence(text); fenced {
		return inner
	}

	// Handle conversational preambles and trailing text: locate the first
	// balanced JSON object or array in the response.
	objStart := strings.Index(text, "{")
	arrStart := strings.Index(text, "[")
	if objStart >= 0 && (arrStart < 0 || objStart < arrStart) {
		if obj := extractJSONObject(text[objStart:]); obj != "" {
			return obj
		}
	}
	if arrStart >= 0 {
		if arr := extractJSONArray(text[arrStart:]); arr != "" {
			return arr
		}
	}

	return text
}

// stripFence unwraps a ``` code fence. The opening fence may carry a
// language tag, which is dropped. Unfenced text comes back untouched with
// fenced false.
func stripFence(text string) (string, bool) {
	switch {
	case strings.HasPrefix(text, "```json"):
		text = strings.TrimPrefix(text, "```json")
	case strings.HasPrefix(text, "```"):
		text = strings.TrimPrefix(text, "```")
		if idx := strings.Index(text, "\n"); idx >= 0 {
			// A short first line without spaces or braces is a language tag
			if tag := text[:idx]; len(tag) < 20 && !strings.ContainsAny(tag, " {") {
				text = text[idx+1:]
			}
		}
	default:
		return text, false
	}

	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text), true
}

// extractJSONObject returns the balanced JSON object at the start of text,
// or "" when text does not begin with one. Braces inside string literals
// do not affect the balance.
func extractJSONObject(text string) string {
	return extractBalanced(text, '{', '}')
}

// extractJSONArray returns the balanced JSON array at the start of text,
// or "" when text does not begin with one.
func extractJSONArray(text string) string {
	return extractBalanced(text, '[', ']')
}

func extractBalanced(text string, openDelim, closeDelim byte) string {
	if len(text) == 0 || text[0] != openDelim {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
			// Delimiters inside string literals are payload, not structure.
		case c == openDelim:
			depth++
		case c == closeDelim:
			depth--
			if depth == 0 {
				return text[:i+1]
			}
		}
	}
	return ""
}
