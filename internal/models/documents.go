package models

import (
	"mime"
	"path/filepath"
	"strings"
)

type MediaType string

const (
	MediaTypePDF  MediaType = "application/pdf"
	MediaTypeDOC  MediaType = "application/msword"
	MediaTypeDOCX MediaType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MediaTypeTXT  MediaType = "text/plain"
)

// AllowedMediaTypes is the upload allow-list.
var AllowedMediaTypes = []MediaType{MediaTypePDF, MediaTypeDOC, MediaTypeDOCX, MediaTypeTXT}

// IsAllowed reports whether m is one of the supported upload types.
func (m MediaType) IsAllowed() bool {
	for _, allowed := range AllowedMediaTypes {
		if m == allowed {
			return true
		}
	}
	return false
}

// ParseMediaType strips parameters (e.g. "; charset=utf-8") and lowercases the type.
func ParseMediaType(contentType string) MediaType {
	contentType = strings.TrimSpace(contentType)
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
	}
	return MediaType(strings.ToLower(mediaType))
}

// MediaTypeFromFilename maps a supported file extension to its media type.
func MediaTypeFromFilename(filename string) MediaType {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return MediaTypePDF
	case ".doc":
		return MediaTypeDOC
	case ".docx":
		return MediaTypeDOCX
	case ".txt":
		return MediaTypeTXT
	}
	return ""
}

// UploadedFile lives only for the duration of one request.
type UploadedFile struct {
	Name      string
	MediaType MediaType
	Size      int64
	Data      []byte
}

type ExtractedText struct {
	Content string
	Source  *UploadedFile
}

type AnalysisPrompt struct {
	Instruction     string
	TruncatedLength int
}
