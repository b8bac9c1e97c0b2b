package analyzer

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/BerylCAtieno/legalease/internal/models"
)

var ErrNoJSONObject = errors.New("no JSON object found in completion")

// ParseCompletion strictly parses the first balanced {...} span of a completion.
// Any failure is returned as-is; callers fall back to FallbackAnalysis.
func ParseCompletion(content string) (*models.DocumentAnalysis, error) {
	span, ok := firstJSONObject(content)
	if !ok {
		return nil, ErrNoJSONObject
	}

	var generic any
	if err := json.Unmarshal([]byte(span), &generic); err != nil {
		return nil, fmt.Errorf("invalid JSON object: %w", err)
	}
	if err := ValidateAnalysisJSON(generic); err != nil {
		return nil, err
	}

	var analysis models.DocumentAnalysis
	if err := json.Unmarshal([]byte(span), &analysis); err != nil {
		return nil, fmt.Errorf("decode analysis: %w", err)
	}
	analysis.Normalize()

	return &analysis, nil
}

// firstJSONObject returns the first brace-delimited span whose braces balance,
// ignoring braces inside JSON string literals.
func firstJSONObject(s string) (string, bool) {
	for start := 0; start < len(s); start++ {
		if s[start] != '{' {
			continue
		}
		if end, ok := matchBrace(s, start); ok {
			return s[start : end+1], true
		}
	}
	return "", false
}

func matchBrace(s string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
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
				return i, true
			}
		}
	}
	return 0, false
}
