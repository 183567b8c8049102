package source

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"invoicehs/internal/config"
)

var ErrUnsupportedDocument = errors.New("unsupported document type")

type Kind string

const (
	KindPDF   Kind = "pdf"
	KindImage Kind = "image"
	KindEmail Kind = "email"
	KindText  Kind = "text"
)

// Document is an uploaded invoice as received from the caller.
type Document struct {
	Name        string
	ContentType string
	Content     []byte
}

// DetectKind classifies a document by extension, then by content type.
func DetectKind(name, contentType string) (Kind, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return KindPDF, nil
	case ".png", ".jpg", ".jpeg", ".tif", ".tiff", ".bmp":
		return KindImage, nil
	case ".eml":
		return KindEmail, nil
	case ".txt":
		return KindText, nil
	}

	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	switch {
	case ct == "application/pdf":
		return KindPDF, nil
	case strings.HasPrefix(ct, "image/"):
		return KindImage, nil
	case ct == "message/rfc822":
		return KindEmail, nil
	case ct == "text/plain":
		return KindText, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedDocument, firstNonEmpty(name, contentType, "unnamed"))
}

// Extractor turns documents into raw newline-delimited text.
type Extractor struct {
	ocr OCR
}

func NewExtractor(cfg config.Config) *Extractor {
	return &Extractor{ocr: NewTesseract(cfg.TesseractPath, cfg.TesseractLang, time.Duration(cfg.OCRTimeoutSec)*time.Second)}
}

// NewExtractorWithOCR swaps the OCR backend, e.g. for tests.
func NewExtractorWithOCR(ocr OCR) *Extractor {
	return &Extractor{ocr: ocr}
}

func (e *Extractor) ExtractText(ctx context.Context, doc Document) (string, error) {
	kind, err := DetectKind(doc.Name, doc.ContentType)
	if err != nil {
		return "", err
	}
	switch kind {
	case KindPDF:
		return PDFText(doc.Content)
	case KindImage:
		return e.ocr.Recognize(ctx, doc.Content)
	case KindEmail:
		return e.emailText(ctx, doc.Content)
	default:
		return string(doc.Content), nil
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
