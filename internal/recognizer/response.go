package recognizer

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// StripCodeFences removes a markdown code fence (with or without a language
// tag) wrapped around a model reply, and any prose outside the outermost
// JSON object.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		// Drop the language tag up to the end of the opening line.
		if i := strings.IndexByte(s, '\n'); i >= 0 {
			tag := strings.TrimSpace(s[:i])
			if tag == "" || isFenceTag(tag) {
				s = s[i+1:]
			}
		} else {
			s = strings.TrimPrefix(s, "json")
		}
		s = strings.TrimSpace(s)
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}

	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start >= 0 && end > start {
		s = s[start : end+1]
	}
	return s
}

func isFenceTag(tag string) bool {
	for _, r := range tag {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_') {
			return false
		}
	}
	return true
}

// ParseJSONObject decodes a model reply into a generic JSON object.
// Numbers are kept as json.Number so that the normalizer sees their exact text.
func ParseJSONObject(raw string) (map[string]any, error) {
	cleaned := StripCodeFences(raw)
	if cleaned == "" {
		return nil, &ParseError{Raw: raw, Err: errors.New("empty response")}
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(cleaned)))
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, &ParseError{Raw: truncate(raw, 500), Err: err}
	}
	if obj == nil {
		return nil, &ParseError{Raw: raw, Err: errors.New("response is not a JSON object")}
	}
	return obj, nil
}
