package judge

import "strings"

// DefaultPromptTemplate is the grading rubric sent once per hit. It
// asks for a zero-based 0-3 checklist score; the adapter translates
// onto the canonical 1-4 scale when parsing.
const DefaultPromptTemplate = `You are grading how well a retrieved passage answers a search query.

Query: {{.Query}}

Passage:
{{.Passage}}
Grade the passage on this checklist scale:
0 - the passage does not address the query
1 - the passage touches the topic but does not answer the query
2 - the passage substantially addresses the query
3 - the passage fully answers the query

Judge only the fields shown. Do not reward keyword overlap without substance.`

// jsonInstruction pins the response to a strict JSON shape so parsing
// does not depend on provider formatting habits.
const jsonInstruction = "\n\nRespond with valid JSON in exactly this format:\n" +
	`{"score": <0-3>, "confidence": <0.0-1.0>, "justification": "<one sentence>"}`

// extractJSON pulls a JSON object out of a response that may surround
// it with prose or a markdown code fence.
func extractJSON(response string) string {
	response = strings.TrimSpace(response)

	if idx := strings.Index(response, "```json"); idx != -1 {
		rest := response[idx+7:]
		if end := strings.Index(rest, "```"); end != -1 {
			return strings.TrimSpace(rest[:end])
		}
	}
	if idx := strings.Index(response, "```"); idx != -1 {
		rest := response[idx+3:]
		if nl := strings.Index(rest, "\n"); nl != -1 {
			rest = rest[nl+1:]
		}
		if end := strings.Index(rest, "```"); end != -1 {
			candidate := strings.TrimSpace(rest[:end])
			if strings.HasPrefix(candidate, "{") {
				return candidate
			}
		}
	}

	start := strings.Index(response, "{")
	if start == -1 {
		return ""
	}

	// Scan for the matching close brace, ignoring braces inside
	// strings.
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(response); i++ {
		c := response[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			escaped = true
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return response[start : i+1]
				}
			}
		}
	}
	return ""
}
