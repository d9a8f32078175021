// Package ocr pulls text out of uploaded policy PDFs.
package ocr

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/insurawise/internal/config"
)

// ErrNoText is returned when a PDF yields no text, usually a scanned
// document given to the local provider.
var ErrNoText = eris.New("ocr: no text extracted from PDF")

// Extractor extracts text content from PDF files.
type Extractor interface {
	ExtractText(ctx context.Context, pdfPath string) (string, error)
}

// NewExtractor creates an Extractor based on config.
func NewExtractor(cfg config.OCRConfig) (Extractor, error) {
	switch cfg.Provider {
	case "local", "":
		return NewPdfToText(cfg.PdfToTextPath), nil
	case "mistral":
		if cfg.MistralKey == "" {
			return nil, eris.New("ocr: mistral provider requires mistral_api_key")
		}
		return NewMistralOCR(cfg.MistralKey, cfg.MistralModel), nil
	default:
		return nil, eris.Errorf("ocr: unknown provider %q", cfg.Provider)
	}
}

// tidy drops form feeds and trailing blanks left by extractors.
func tidy(text string) (string, error) {
	lines := strings.Split(strings.ReplaceAll(text, "\f", "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t\r")
	}
	out := strings.TrimSpace(strings.Join(lines, "\n"))
	if out == "" {
		return "", ErrNoText
	}
	return out, nil
}
