// Package response extracts text and JSON from generated content.
// Malformed model output is never an error here: callers get "" or false
// and apply their own defaults.
package response

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/augleao/frontend-dev-sub000/internal/infra/ai/provider"
)

var (
	openingFence = regexp.MustCompile("(?i)^```(?:json)?\\s*")
	closingFence = regexp.MustCompile("\\s*```$")
)

// stripFence removes a markdown fence wrapping the whole text. Backticks
// anywhere else are content and stay.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = openingFence.ReplaceAllString(s, "")
	return strings.TrimSpace(closingFence.ReplaceAllString(s, ""))
}

// ExtractText returns the concatenated text parts of the first candidate.
func ExtractText(resp *provider.Response) string {
	return resp.Text()
}

// ParseJSONLoose parses raw as JSON, tolerating markdown fences and prose
// around a single object. It returns (nil, false) when nothing parses.
func ParseJSONLoose(raw string) (any, bool) {
	var v any
	if !DecodeJSONLoose(raw, &v) {
		return nil, false
	}
	return v, true
}

// DecodeJSONLoose is ParseJSONLoose into a typed value.
func DecodeJSONLoose(raw string, v any) bool {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return false
	}
	if json.Unmarshal([]byte(trimmed), v) == nil {
		return true
	}

	cleaned := stripFence(trimmed)
	if cleaned == "" {
		return false
	}
	if cleaned != trimmed && json.Unmarshal([]byte(cleaned), v) == nil {
		return true
	}

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end <= start {
		return false
	}
	return json.Unmarshal([]byte(cleaned[start:end+1]), v) == nil
}

// CleanText trims whitespace, code fences and wrapping quotes from generated prose.
func CleanText(s string) string {
	s = stripFence(s)
	for len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			s = strings.TrimSpace(s[1 : len(s)-1])
			continue
		}
		break
	}
	return s
}
