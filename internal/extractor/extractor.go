// Package extractor turns uploaded document bytes into plain text.
package extractor

import (
	"errors"
	"fmt"

	"github.com/BerylCAtieno/legalease/internal/models"
)

var (
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrExtractionFailed     = errors.New("text extraction failed")
)

// Extract dispatches on the declared media type. Parser failures are reported
// as ErrExtractionFailed wrapping the parser diagnostic; no partial text is returned.
func Extract(file models.UploadedFile) (models.ExtractedText, error) {
	var parse func([]byte) (string, error)

	switch models.ParseMediaType(string(file.MediaType)) {
	case models.MediaTypePDF:
		parse = ExtractPDF
	case models.MediaTypeDOCX:
		parse = ExtractDOCX
	case models.MediaTypeDOC:
		parse = ExtractDOC
	case models.MediaTypeTXT:
		parse = ExtractTXT
	default:
		return models.ExtractedText{}, fmt.Errorf("%w: %q", ErrUnsupportedMediaType, file.MediaType)
	}

	text, err := safeParse(parse, file.Data)
	if err != nil {
		return models.ExtractedText{}, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	return models.ExtractedText{
		Content: text,
		Source:  &file,
	}, nil
}

// safeParse converts parser panics on malformed input into errors.
func safeParse(parse func([]byte) (string, error), data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("parser panic: %v", r)
		}
	}()
	return parse(data)
}
