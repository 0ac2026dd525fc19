package gcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"google.golang.org/api/option"

	"github.com/yungbote/edutainment-backend/internal/platform/ctxutil"
	"github.com/yungbote/edutainment-backend/internal/platform/logger"
)

// Document runs OCR over raw bytes with a Document AI processor.
type Document interface {
	ProcessBytes(ctx context.Context, mimeType string, data []byte) (*DocAIResult, error)
	Close() error
}

type DocAIConfig struct {
	ProjectID        string
	Location         string
	ProcessorID      string
	ProcessorVersion string
}

func (c DocAIConfig) Enabled() bool {
	return strings.TrimSpace(c.ProjectID) != "" && strings.TrimSpace(c.ProcessorID) != ""
}

type DocAIResult struct {
	Processor   string `json:"processor"`
	MimeType    string `json:"mime_type"`
	PrimaryText string `json:"primary_text"`
	Pages       int    `json:"pages"`
}

type documentService struct {
	log       *logger.Logger
	docClient *documentai.DocumentProcessorClient
	processor string
}

func NewDocument(ctx context.Context, log *logger.Logger, cfg DocAIConfig) (Document, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("document ai: project and processor id required")
	}
	location := strings.TrimSpace(cfg.Location)
	if location == "" {
		location = "us"
	}
	cfg.Location = location
	endpoint := fmt.Sprintf("%s-documentai.googleapis.com:443", location)

	opts := append([]option.ClientOption{option.WithEndpoint(endpoint)}, ClientOptionsFromEnv()...)
	c, err := documentai.NewDocumentProcessorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("documentai client: %w", err)
	}
	slog := log.With("service", "gcp.Document")
	slog.Info("Document AI initialized", "endpoint", endpoint)
	return &documentService{
		log:       slog,
		docClient: c,
		processor: processorName(cfg),
	}, nil
}

func (s *documentService) ProcessBytes(ctx context.Context, mimeType string, data []byte) (*DocAIResult, error) {
	ctx, cancel := context.WithTimeout(ctxutil.Default(ctx), 3*time.Minute)
	defer cancel()

	if mimeType == "" {
		mimeType = "application/pdf"
	}
	if len(data) == 0 {
		return &DocAIResult{Processor: s.processor, MimeType: mimeType}, nil
	}
	resp, err := s.docClient.ProcessDocument(ctx, &documentaipb.ProcessRequest{
		Name: s.processor,
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  data,
				MimeType: mimeType,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("documentai ProcessDocument: %w", err)
	}
	out := &DocAIResult{Processor: s.processor, MimeType: mimeType}
	if resp != nil && resp.GetDocument() != nil {
		out.PrimaryText = collapseWhitespace(resp.GetDocument().GetText())
		out.Pages = len(resp.GetDocument().GetPages())
	}
	s.log.Debug("Document AI processed", "pages", out.Pages, "chars", len(out.PrimaryText))
	return out, nil
}

func (s *documentService) Close() error {
	if s == nil || s.docClient == nil {
		return nil
	}
	return s.docClient.Close()
}

func processorName(cfg DocAIConfig) string {
	base := fmt.Sprintf("projects/%s/locations/%s/processors/%s",
		strings.TrimSpace(cfg.ProjectID),
		strings.TrimSpace(cfg.Location),
		strings.TrimSpace(cfg.ProcessorID),
	)
	if v := strings.TrimSpace(cfg.ProcessorVersion); v != "" {
		return base + "/processorVersions/" + v
	}
	return base
}
