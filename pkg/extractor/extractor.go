package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

type Kind string

const (
	KindPDF Kind = "pdf"
	KindTXT Kind = "txt"
)

var (
	ErrUnsupportedKind = errors.New("unsupported file type")
	ErrInvalidEncoding = errors.New("text is not valid UTF-8")
)

// KindFromFilename maps a file extension (case-insensitive) to a Kind.
func KindFromFilename(name string) (Kind, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return KindPDF, nil
	case ".txt":
		return KindTXT, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedKind, filepath.Ext(name))
	}
}

type Extractor interface {
	Extract(data []byte, kind Kind) (string, error)
}

type DocumentExtractor struct{}

func NewDocumentExtractor() *DocumentExtractor {
	return &DocumentExtractor{}
}

func (e *DocumentExtractor) Extract(data []byte, kind Kind) (string, error) {
	switch kind {
	case KindTXT:
		return extractText(data)
	case KindPDF:
		return extractPDF(data)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedKind, kind)
	}
}

func extractText(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) {
		return "", ErrInvalidEncoding
	}
	return strings.TrimSpace(string(data)), nil
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}
