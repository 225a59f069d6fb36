// Package extract converts raw CV document bytes into plain text.
package extract

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// UnsupportedFormatError is returned for any extension outside
// {pdf, docx, txt}.
type UnsupportedFormatError struct {
	Extension string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file format: %s", e.Extension)
}

// ParseError represents an unreadable document of a supported format.
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("document parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("document parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Extract converts document bytes into plain text, dispatching on the file
// extension. The extension may be passed with or without a leading dot.
func Extract(data []byte, extension string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(extension), "."))

	switch ext {
	case "pdf":
		return extractPDF(data)
	case "docx":
		return extractDOCX(data)
	case "txt":
		return extractTXT(data), nil
	default:
		return "", &UnsupportedFormatError{Extension: extension}
	}
}

// containPanic converts a panic from an underlying document library into a
// ParseError. The pdf reader is known to panic on some malformed content
// streams, and one hostile document must not take down a batch run.
func containPanic(message string, err *error) {
	if r := recover(); r != nil {
		*err = &ParseError{Message: fmt.Sprintf("%s: %v", message, r)}
	}
}

// extractPDF concatenates per-page text with newline separators. A page
// without extractable text is skipped, not fatal.
func extractPDF(data []byte) (text string, err error) {
	defer containPanic("PDF reader panicked", &err)

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ParseError{Message: "failed to open PDF", Cause: err}
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil || text == "" {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

var xmlTags = regexp.MustCompile(`<[^>]+>`)

// extractDOCX concatenates paragraph text with newline separators.
func extractDOCX(data []byte) (text string, err error) {
	defer containPanic("DOCX reader panicked", &err)

	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ParseError{Message: "failed to open DOCX", Cause: err}
	}
	defer func() { _ = doc.Close() }()

	content := doc.Editable().GetContent()

	var sb strings.Builder
	for _, paragraph := range strings.Split(content, "</w:p>") {
		text := strings.TrimSpace(xmlTags.ReplaceAllString(paragraph, ""))
		if text == "" {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// extractTXT decodes best-effort, dropping undecodable byte sequences rather
// than aborting the document.
func extractTXT(data []byte) string {
	return strings.ToValidUTF8(string(data), "")
}
