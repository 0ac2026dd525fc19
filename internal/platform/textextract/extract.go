// Package textextract turns an uploaded article into plain text.
package textextract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strings"

	readability "github.com/go-shiori/go-readability"
	pdf "github.com/ledongthuc/pdf"

	"github.com/yungbote/edutainment-backend/internal/platform/gcp"
	"github.com/yungbote/edutainment-backend/internal/platform/logger"
)

var (
	ErrEmpty       = errors.New("empty upload")
	ErrNoText      = errors.New("no extractable text")
	ErrUnsupported = errors.New("unsupported file type")
)

type Kind string

const (
	KindPDF  Kind = "pdf"
	KindHTML Kind = "html"
	KindText Kind = "text"
)

type Result struct {
	Text string
	Kind Kind
	// OCR is set when the text came from the OCR fallback.
	OCR bool
}

type Extractor struct {
	log *logger.Logger
	ocr gcp.Document
	// pdfText is swapped in tests.
	pdfText func([]byte) (string, error)
}

// New returns an extractor. ocr may be nil, which disables the fallback for
// PDFs without a text layer.
func New(log *logger.Logger, ocr gcp.Document) *Extractor {
	return &Extractor{
		log:     log.With("service", "TextExtractor"),
		ocr:     ocr,
		pdfText: extractPDF,
	}
}

// Extract sniffs the bytes first and trusts the filename and mime type only
// for text formats.
func (e *Extractor) Extract(ctx context.Context, filename, mimeType string, data []byte) (Result, error) {
	if len(data) == 0 {
		return Result{}, ErrEmpty
	}
	ext := strings.ToLower(filepath.Ext(filename))
	mt := strings.ToLower(strings.TrimSpace(mimeType))

	switch {
	case isPDF(data):
		return e.extractPDF(ctx, filename, data)
	case looksLikeHTML(data) || mt == "text/html" || ext == ".html" || ext == ".htm":
		text, err := extractHTML(data)
		if err != nil {
			return Result{}, err
		}
		return nonEmpty(Result{Text: text, Kind: KindHTML})
	case isProbablyText(data):
		return nonEmpty(Result{Text: collapseWhitespace(string(data)), Kind: KindText})
	case mt == "application/pdf" || ext == ".pdf":
		return Result{}, fmt.Errorf("%w: %s claims pdf but has no %%PDF header", ErrUnsupported, filename)
	default:
		return Result{}, fmt.Errorf("%w: name=%s mime=%s", ErrUnsupported, filename, mimeType)
	}
}

func (e *Extractor) extractPDF(ctx context.Context, filename string, data []byte) (Result, error) {
	text, err := e.pdfText(data)
	if errors.Is(err, ErrUnsupported) {
		e.log.Warn("PDF rejected as malformed", "filename", filename, "error", err)
		return Result{}, err
	}
	if err != nil {
		e.log.Warn("PDF text layer unreadable", "filename", filename, "error", err)
	}
	if strings.TrimSpace(text) != "" {
		return Result{Text: text, Kind: KindPDF}, nil
	}
	if e.ocr == nil {
		if err != nil {
			return Result{}, fmt.Errorf("pdf: %w", err)
		}
		return Result{}, fmt.Errorf("%w: %s", ErrNoText, filename)
	}
	e.log.Info("PDF has no text layer, running OCR", "filename", filename, "bytes", len(data))
	res, ocrErr := e.ocr.ProcessBytes(ctx, "application/pdf", data)
	if ocrErr != nil {
		return Result{}, fmt.Errorf("pdf ocr: %w", ocrErr)
	}
	return nonEmpty(Result{Text: res.PrimaryText, Kind: KindPDF, OCR: true})
}

func nonEmpty(r Result) (Result, error) {
	r.Text = strings.TrimSpace(r.Text)
	if r.Text == "" {
		return Result{}, ErrNoText
	}
	return r, nil
}

// extractPDF reads the text layer. The pdf reader panics on some malformed
// files; those come back as ErrUnsupported.
func extractPDF(data []byte) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", fmt.Errorf("%w: malformed pdf: %v", ErrUnsupported, rec)
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("pdf reader: %w", err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("pdf plaintext: %w", err)
	}
	b, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("pdf read: %w", err)
	}
	return collapseWhitespace(string(b)), nil
}

var articleBase = &url.URL{Scheme: "https", Host: "upload.local"}

func extractHTML(data []byte) (string, error) {
	article, err := readability.FromReader(bytes.NewReader(data), articleBase)
	if err != nil {
		return "", fmt.Errorf("html readability: %w", err)
	}
	text := collapseWhitespace(article.TextContent)
	if title := strings.TrimSpace(article.Title); title != "" && !strings.HasPrefix(text, title) {
		text = title + "\n" + text
	}
	return text, nil
}

func isPDF(b []byte) bool {
	return len(b) >= 5 && bytes.Equal(b[:5], []byte("%PDF-"))
}

func looksLikeHTML(b []byte) bool {
	head := strings.ToLower(strings.TrimSpace(string(b[:min(len(b), 512)])))
	return strings.HasPrefix(head, "<!doctype html") || strings.HasPrefix(head, "<html")
}

// isProbablyText: no NULs and at least 90% printable in the first 4KiB.
func isProbablyText(b []byte) bool {
	sample := b[:min(len(b), 4096)]
	good := 0
	for _, c := range sample {
		if c == 0x00 {
			return false
		}
		if c == '\n' || c == '\r' || c == '\t' || (c >= 0x20 && c <= 0x7E) || c >= 0x80 {
			good++
		}
	}
	return float64(good)/float64(len(sample)) > 0.9
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(s, "\u00a0", " ")), " ")
}
