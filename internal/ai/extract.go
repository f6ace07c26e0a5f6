package ai

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrNoJSON reports that a model response contains no complete JSON object.
var ErrNoJSON = errors.New("no JSON object in response")

// ExtractJSON returns the first complete top-level {...} block in a model
// response that parses as a JSON object.
//
// Model responses routinely wrap the JSON in prose, code fences, or
// nested objects; a greedy first-"{"-to-last-"}" match either swallows
// trailing prose or truncates nested structure. This scanner tracks brace
// depth with JSON string/escape awareness, and on a parse failure resumes
// at the next opening brace, so a stray "{" in preceding prose does not
// hide the real object.
func ExtractJSON(response string) (json.RawMessage, error) {
	for start := 0; start < len(response); {
		open := strings.IndexByte(response[start:], '{')
		if open < 0 {
			break
		}
		open += start

		// A block that never closes, or closes but isn't valid JSON, may
		// still contain or precede the real object: resume one byte in.
		if candidate, ok := scanBalanced(response[open:]); ok && json.Valid([]byte(candidate)) {
			return json.RawMessage(candidate), nil
		}
		start = open + 1
	}
	return nil, ErrNoJSON
}

// scanBalanced returns the prefix of s that forms one balanced top-level
// {...} block, honoring JSON string literals and escapes.
func scanBalanced(s string) (string, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[:i+1], true
			}
		}
	}
	return "", false
}
