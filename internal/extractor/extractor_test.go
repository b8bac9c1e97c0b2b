package extractor

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/BerylCAtieno/legalease/internal/models"
)

// buildPDF assembles a single-page PDF with one Helvetica text line per entry.
func buildPDF(t *testing.T, lines ...string) []byte {
	t.Helper()

	var content strings.Builder
	content.WriteString("BT\n/F1 12 Tf\n72 720 Td\n")
	for i, line := range lines {
		if i > 0 {
			content.WriteString("0 -16 Td\n")
		}
		escaped := strings.NewReplacer(`\`, `\\`, "(", `\(`, ")", `\)`).Replace(line)
		fmt.Fprintf(&content, "(%s) Tj\n", escaped)
	}
	content.WriteString("ET\n")
	stream := content.String()

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 5 0 R >> >> /Contents 4 0 R >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", len(stream), stream),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xrefOffset := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xrefOffset)
	return buf.Bytes()
}

// buildDOCX zips a minimal word/document.xml containing one paragraph per entry.
func buildDOCX(t *testing.T, paragraphs ...string) []byte {
	t.Helper()

	var body strings.Builder
	for _, p := range paragraphs {
		fmt.Fprintf(&body, `<w:p><w:r><w:t xml:space="preserve">%s</w:t></w:r></w:p>`, p)
	}
	document := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		body.String() +
		`<w:tbl><w:tr><w:tc><w:p><w:r><w:t>Cell</w:t><w:tab/><w:t>Value</w:t></w:r></w:p></w:tc></w:tr></w:tbl>` +
		`</w:body></w:document>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create(documentXMLPath)
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := f.Write([]byte(document)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestExtractPDF(t *testing.T) {
	data := buildPDF(t, "Monthly rent is $1200.", "Deposit (one month)")

	text, err := ExtractPDF(data)
	if err != nil {
		t.Fatalf("ExtractPDF returned error: %v", err)
	}

	if !strings.Contains(text, "Monthly rent is $1200.") {
		t.Errorf("ExtractPDF text = %q, missing first line", text)
	}
	if !strings.Contains(text, "Deposit (one month)") {
		t.Errorf("ExtractPDF text = %q, missing second line", text)
	}
}

func TestExtractPDFMalformed(t *testing.T) {
	if _, err := ExtractPDF([]byte("definitely not a pdf")); err == nil {
		t.Fatal("expected error for malformed PDF")
	}
}

func TestExtractDOCX(t *testing.T) {
	data := buildDOCX(t, "Tenant agrees to pay rent.", "Landlord maintains the roof.")

	text, err := ExtractDOCX(data)
	if err != nil {
		t.Fatalf("ExtractDOCX returned error: %v", err)
	}

	want := "Tenant agrees to pay rent.\nLandlord maintains the roof.\nCell\tValue"
	if text != want {
		t.Errorf("ExtractDOCX text = %q, want %q", text, want)
	}
}

func TestExtractDOCXMissingDocumentPart(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	if _, err := zw.Create("word/styles.xml"); err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	zw.Close()

	if _, err := ExtractDOCX(buf.Bytes()); err == nil {
		t.Fatal("expected error when word/document.xml is missing")
	}
}

func TestExtractTXT(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"utf8", []byte("Monthly rent is $1200."), "Monthly rent is $1200."},
		{"utf8 bom", append([]byte{0xEF, 0xBB, 0xBF}, "Clause 1"...), "Clause 1"},
		{"utf16 le bom", []byte{0xFF, 0xFE, 'O', 0, 'K', 0}, "OK"},
		{"utf16 be bom", []byte{0xFE, 0xFF, 0, 'O', 0, 'K'}, "OK"},
		{"windows-1252", []byte{'c', 'a', 'f', 0xE9}, "café"},
		{"crlf and blank lines", []byte("line one\r\n\r\n  line two  \r"), "line one\nline two"},
		{"whitespace only", []byte(" \n\t \r\n"), ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractTXT(tc.data)
			if err != nil {
				t.Fatalf("ExtractTXT returned error: %v", err)
			}
			if got != tc.want {
				t.Errorf("ExtractTXT = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestExtractDispatch(t *testing.T) {
	docx := buildDOCX(t, "Signed agreement.")

	tests := []struct {
		name      string
		mediaType models.MediaType
		data      []byte
		want      string
	}{
		{"pdf", models.MediaTypePDF, buildPDF(t, "Lease terms"), "Lease terms"},
		{"docx", models.MediaTypeDOCX, docx, "Signed agreement."},
		{"doc with OOXML payload", models.MediaTypeDOC, docx, "Signed agreement."},
		{"legacy doc", models.MediaTypeDOC, buildDOC(t, "Binary lease terms\r"), "Binary lease terms"},
		{"txt with charset", "text/plain; charset=utf-8", []byte("Plain terms"), "Plain terms"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			file := models.UploadedFile{Name: "f", MediaType: tc.mediaType, Size: int64(len(tc.data)), Data: tc.data}
			got, err := Extract(file)
			if err != nil {
				t.Fatalf("Extract returned error: %v", err)
			}
			if !strings.Contains(got.Content, tc.want) {
				t.Errorf("Extract content = %q, want it to contain %q", got.Content, tc.want)
			}
			if got.Source == nil || got.Source.Name != "f" {
				t.Errorf("Extract source not set")
			}
		})
	}
}

func TestExtractUnsupportedMediaType(t *testing.T) {
	file := models.UploadedFile{Name: "image.png", MediaType: "image/png", Data: []byte("\x89PNG")}

	got, err := Extract(file)
	if !errors.Is(err, ErrUnsupportedMediaType) {
		t.Fatalf("Extract error = %v, want ErrUnsupportedMediaType", err)
	}
	if got.Content != "" {
		t.Errorf("Extract returned partial text %q", got.Content)
	}
}

func TestExtractCorruptDocument(t *testing.T) {
	tests := []struct {
		name      string
		mediaType models.MediaType
	}{
		{"pdf", models.MediaTypePDF},
		{"docx", models.MediaTypeDOCX},
		{"legacy doc", models.MediaTypeDOC},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			file := models.UploadedFile{Name: "broken", MediaType: tc.mediaType, Data: []byte("garbage bytes")}
			got, err := Extract(file)
			if !errors.Is(err, ErrExtractionFailed) {
				t.Fatalf("Extract error = %v, want ErrExtractionFailed", err)
			}
			if got.Content != "" {
				t.Errorf("Extract returned partial text %q", got.Content)
			}
		})
	}
}
