package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractPDF returns the plain text of every decodable page, pages separated
// by a blank line. It fails only when the document has pages and none of
// them decode.
func ExtractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var (
		pages   []string
		decoded int
		lastErr error
	)
	total := reader.NumPage()
	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			lastErr = fmt.Errorf("page %d: %w", i, err)
			continue
		}
		decoded++

		if text = pdfPageText(text); text != "" {
			pages = append(pages, text)
		}
	}

	if decoded == 0 && lastErr != nil {
		return "", errors.Join(errors.New("no PDF page could be decoded"), lastErr)
	}
	return strings.Join(pages, "\n\n"), nil
}

func pdfPageText(text string) string {
	return cleanText(strings.ToValidUTF8(text, ""))
}
