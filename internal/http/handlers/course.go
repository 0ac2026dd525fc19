package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/edutainment-backend/internal/data/aggregates"
	"github.com/yungbote/edutainment-backend/internal/http/response"
	"github.com/yungbote/edutainment-backend/internal/learning/plan"
	"github.com/yungbote/edutainment-backend/internal/platform/apierr"
	"github.com/yungbote/edutainment-backend/internal/platform/ctxutil"
	"github.com/yungbote/edutainment-backend/internal/platform/logger"
	"github.com/yungbote/edutainment-backend/internal/platform/textextract"
)

const DefaultMaxUploadBytes int64 = 32 << 20

type CourseGenerator interface {
	GenerateCourse(ctx context.Context, req plan.CourseRequest) (plan.Course, error)
}

type TextExtractor interface {
	Extract(ctx context.Context, filename, mimeType string, data []byte) (textextract.Result, error)
}

type CourseHandler struct {
	log       *logger.Logger
	courses   CourseGenerator
	extractor TextExtractor
	maxUpload int64
}

func NewCourseHandler(log *logger.Logger, courses CourseGenerator, extractor TextExtractor, maxUploadBytes int64) *CourseHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &CourseHandler{
		log:       log.With("handler", "CourseHandler"),
		courses:   courses,
		extractor: extractor,
		maxUpload: maxUploadBytes,
	}
}

// POST /generate-course
func (h *CourseHandler) GenerateCourse(c *gin.Context) {
	req, data, mimeType, err := h.parseUpload(c)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	ctxutil.SetSessionID(c.Request.Context(), req.SessionID.String())

	extracted, err := h.extractor.Extract(c.Request.Context(), req.Filename, mimeType, data)
	switch {
	case errors.Is(err, textextract.ErrEmpty), errors.Is(err, textextract.ErrNoText), errors.Is(err, textextract.ErrUnsupported):
		response.RespondAPIError(c, apierr.BadRequest(err))
		return
	case err != nil:
		h.log.Error("text extraction failed", append(ctxutil.LogFields(c.Request.Context()), "filename", req.Filename, "error", err)...)
		response.RespondAPIError(c, apierr.Internal(err))
		return
	}
	req.Text = extracted.Text

	course, err := h.courses.GenerateCourse(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, aggregates.ErrValidation) {
			response.RespondAPIError(c, apierr.BadRequest(err))
			return
		}
		h.log.Error("course generation failed", append(ctxutil.LogFields(c.Request.Context()), "filename", req.Filename, "error", err)...)
		response.RespondAPIError(c, apierr.Internal(err))
		return
	}
	response.RespondOK(c, course)
}

func (h *CourseHandler) parseUpload(c *gin.Context) (plan.CourseRequest, []byte, string, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)
	var req plan.CourseRequest

	fh, err := c.FormFile("selectedFile")
	if err != nil {
		return req, nil, "", apierr.BadRequest(fmt.Errorf("selectedFile: %w", err))
	}
	req.Filename = SecureFilename(fh.Filename)
	if req.Filename == "" {
		return req, nil, "", apierr.BadRequest(fmt.Errorf("selectedFile: unusable filename %q", fh.Filename))
	}

	switch sid := strings.TrimSpace(c.PostForm("sessionId")); sid {
	case "":
		req.SessionID = uuid.New()
	default:
		id, err := uuid.Parse(sid)
		if err != nil {
			return req, nil, "", apierr.BadRequest(fmt.Errorf("sessionId: %w", err))
		}
		req.SessionID = id
	}

	if raw := strings.TrimSpace(c.PostForm("age")); raw != "" {
		age, err := strconv.Atoi(raw)
		if err != nil || age < 0 {
			return req, nil, "", apierr.BadRequest(fmt.Errorf("age: %q", raw))
		}
		req.Age = &age
	}
	req.Expertise = c.PostForm("expertise")
	req.ChangeTopic = strings.TrimSpace(c.PostForm("change_topic"))

	f, err := fh.Open()
	if err != nil {
		return req, nil, "", apierr.Internal(fmt.Errorf("open upload: %w", err))
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return req, nil, "", apierr.Internal(fmt.Errorf("read upload: %w", err))
	}
	return req, data, fh.Header.Get("Content-Type"), nil
}

// SecureFilename reduces an uploaded name to a safe base name: ASCII letters,
// digits, dots, dashes and underscores, with whitespace turned into
// underscores and leading dots removed.
func SecureFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range strings.Join(strings.Fields(name), "_") {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "._")
}
