package extractor

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

func ExtractTXT(data []byte) (string, error) {
	text, err := decodeText(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode text file: %w", err)
	}
	return cleanText(text), nil
}

// decodeText honors a UTF-8 or UTF-16 byte order mark. Without one, valid
// UTF-8 is taken as is and anything else is read as Windows-1252.
func decodeText(data []byte) (string, error) {
	var fallback encoding.Encoding = unicode.UTF8
	if !utf8.Valid(data) {
		fallback = charmap.Windows1252
	}

	decoded, _, err := transform.Bytes(unicode.BOMOverride(fallback.NewDecoder()), data)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

// cleanText drops NULs and blank lines, trimming each remaining line.
func cleanText(text string) string {
	text = strings.ReplaceAll(text, "\x00", "")

	var lines []string
	for _, line := range strings.FieldsFunc(text, isLineBreak) {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func isLineBreak(r rune) bool {
	return r == '\n' || r == '\r'
}
