package extractor

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const documentXMLPath = "word/document.xml"

// ExtractDOCX reads the main document part of an OOXML word file.
func ExtractDOCX(data []byte) (string, error) {
	reader := bytes.NewReader(data)

	zipReader, err := zip.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read document as ZIP: %w", err)
	}

	var documentFile *zip.File
	for _, file := range zipReader.File {
		if file.Name == documentXMLPath {
			documentFile = file
			break
		}
	}

	if documentFile == nil {
		return "", fmt.Errorf("%s not found in document", documentXMLPath)
	}

	xmlFile, err := documentFile.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", documentXMLPath, err)
	}
	defer xmlFile.Close()

	text, err := wordprocessingText(xmlFile)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", documentXMLPath, err)
	}

	return strings.TrimSpace(text), nil
}

// wordprocessingText streams the XML and keeps text runs, tabs and breaks.
// Paragraphs inside tables are included.
func wordprocessingText(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)

	var textBuilder strings.Builder
	inText := false

	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				textBuilder.WriteString("\t")
			case "br", "cr":
				textBuilder.WriteString("\n")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				textBuilder.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				textBuilder.Write(t)
			}
		}
	}

	return textBuilder.String(), nil
}
