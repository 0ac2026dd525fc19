package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/edutainment-backend/internal/data/aggregates"
	types "github.com/yungbote/edutainment-backend/internal/domain"
	"github.com/yungbote/edutainment-backend/internal/learning/narration"
	"github.com/yungbote/edutainment-backend/internal/learning/plan"
	"github.com/yungbote/edutainment-backend/internal/platform/logger"
	"github.com/yungbote/edutainment-backend/internal/platform/textextract"
)

type fakeCourses struct {
	got    plan.CourseRequest
	calls  int
	course plan.Course
	err    error
}

func (f *fakeCourses) GenerateCourse(_ context.Context, req plan.CourseRequest) (plan.Course, error) {
	f.calls++
	f.got = req
	return f.course, f.err
}

type fakeExtractor struct {
	text string
	err  error
}

func (f fakeExtractor) Extract(context.Context, string, string, []byte) (textextract.Result, error) {
	return textextract.Result{Text: f.text, Kind: textextract.KindPDF}, f.err
}

type fakeProgress struct {
	row *types.LessonCompletion
	err error
}

func (f fakeProgress) Record(_ context.Context, lessonID, sessionID uuid.UUID, complete, correct bool) (*types.LessonCompletion, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &types.LessonCompletion{LessonID: lessonID, CustomerSessionID: sessionID, LessonComplete: complete, AnswerCorrect: correct}, nil
}

func uploadRequest(t *testing.T, fields map[string]string, withFile bool) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("WriteField: %v", err)
		}
	}
	if withFile {
		fw, err := w.CreateFormFile("selectedFile", "../My Article.pdf")
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		_, _ = fw.Write([]byte("%PDF-1.4 fake"))
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/generate-course", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func serve(h gin.HandlerFunc, method, route string, req *http.Request) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Handle(method, route, h)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return body["error"]
}

func TestGenerateCourseSuccess(t *testing.T) {
	sid := uuid.New()
	narr := "narration/abc.mp3"
	courses := &fakeCourses{course: plan.Course{
		"Photosynthesis": {{ID: uuid.New(), LessonContent: "light", OrderNum: 0, NarrationFile: &narr}},
	}}
	h := NewCourseHandler(logger.Nop(), courses, fakeExtractor{text: "article"}, 0)

	req := uploadRequest(t, map[string]string{
		"sessionId":    sid.String(),
		"age":          "12",
		"expertise":    "beginner",
		"change_topic": "  ",
	}, true)
	rec := serve(h.GenerateCourse, http.MethodPost, "/generate-course", req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	if courses.got.SessionID != sid || courses.got.Text != "article" || courses.got.Expertise != "beginner" {
		t.Fatalf("request: %#v", courses.got)
	}
	if courses.got.Age == nil || *courses.got.Age != 12 {
		t.Fatalf("age: %v", courses.got.Age)
	}
	if courses.got.Filename != "My_Article.pdf" || courses.got.ChangeTopic != "" {
		t.Fatalf("filename=%q change_topic=%q", courses.got.Filename, courses.got.ChangeTopic)
	}

	var out map[string][]map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	lessons := out["Photosynthesis"]
	if len(lessons) != 1 || lessons[0]["lesson_content"] != "light" || lessons[0]["narration_file"] != narr {
		t.Fatalf("body: %s", rec.Body.String())
	}
}

func TestGenerateCourseGeneratesSessionID(t *testing.T) {
	courses := &fakeCourses{course: plan.Course{}}
	h := NewCourseHandler(logger.Nop(), courses, fakeExtractor{text: "article"}, 0)
	rec := serve(h.GenerateCourse, http.MethodPost, "/generate-course", uploadRequest(t, nil, true))
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	if courses.got.SessionID == uuid.Nil || courses.got.Age != nil {
		t.Fatalf("request: %#v", courses.got)
	}
}

func TestGenerateCourseRejectsBadInput(t *testing.T) {
	cases := []struct {
		name     string
		fields   map[string]string
		withFile bool
	}{
		{"missing file", map[string]string{"age": "10"}, false},
		{"non-numeric age", map[string]string{"age": "ten"}, true},
		{"negative age", map[string]string{"age": "-3"}, true},
		{"bad session", map[string]string{"sessionId": "not-a-uuid"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			courses := &fakeCourses{}
			h := NewCourseHandler(logger.Nop(), courses, fakeExtractor{text: "article"}, 0)
			rec := serve(h.GenerateCourse, http.MethodPost, "/generate-course", uploadRequest(t, tc.fields, tc.withFile))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
			}
			if msg := errorBody(t, rec); msg != "Invalid request" {
				t.Fatalf("error=%q", msg)
			}
			if courses.calls != 0 {
				t.Fatalf("generator called on bad input")
			}
		})
	}
}

func TestGenerateCourseErrors(t *testing.T) {
	cases := []struct {
		name    string
		extract error
		gen     error
		status  int
		msg     string
	}{
		{"unsupported upload", textextract.ErrUnsupported, nil, http.StatusBadRequest, "Invalid request"},
		{"no text", textextract.ErrNoText, nil, http.StatusBadRequest, "Invalid request"},
		{"extractor failure", errors.New("ocr down"), nil, http.StatusInternalServerError, "Something went wrong"},
		{"validation", nil, aggregates.ErrValidation, http.StatusBadRequest, "Invalid request"},
		{"generation failure", nil, errors.New("model reply: pq: secret detail"), http.StatusInternalServerError, "Something went wrong"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewCourseHandler(logger.Nop(), &fakeCourses{err: tc.gen}, fakeExtractor{text: "article", err: tc.extract}, 0)
			rec := serve(h.GenerateCourse, http.MethodPost, "/generate-course", uploadRequest(t, nil, true))
			if rec.Code != tc.status {
				t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
			}
			if msg := errorBody(t, rec); msg != tc.msg {
				t.Fatalf("error=%q", msg)
			}
			if strings.Contains(rec.Body.String(), "secret") {
				t.Fatalf("internal detail leaked: %s", rec.Body.String())
			}
		})
	}
}

func TestSecureFilename(t *testing.T) {
	cases := map[string]string{
		"My Article.pdf":       "My_Article.pdf",
		"../../etc/passwd":     "passwd",
		`C:\docs\notes v2.pdf`: "notes_v2.pdf",
		".hidden":              "hidden",
		"résumé.pdf":           "rsum.pdf",
		"../":                  "",
	}
	for in, want := range cases {
		if got := SecureFilename(in); got != want {
			t.Fatalf("SecureFilename(%q)=%q want %q", in, got, want)
		}
	}
}

func TestNarrationServe(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "narration"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "narration", "abc_hello.mp3"), []byte("ID3audio"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	h := NewNarrationHandler(logger.Nop(), narration.NewLocalStore(root))

	rec := serve(h.Serve, http.MethodGet, "/narration/*filename", httptest.NewRequest(http.MethodGet, "/narration/abc_hello.mp3", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ID3audio" {
		t.Fatalf("status=%d body=%q", rec.Code, rec.Body.String())
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.HasPrefix(cd, "attachment") || !strings.Contains(cd, "abc_hello.mp3") {
		t.Fatalf("Content-Disposition=%q", cd)
	}

	for _, path := range []string{"/narration/missing.mp3", "/narration/..%2fsecret.txt", "/narration/"} {
		rec := serve(h.Serve, http.MethodGet, "/narration/*filename", httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusNotFound {
			t.Fatalf("%s: status=%d", path, rec.Code)
		}
	}
}

func TestProgressRecord(t *testing.T) {
	h := NewProgressHandler(logger.Nop(), fakeProgress{})
	lessonID, sessionID := uuid.New(), uuid.New()
	body := `{"lessonId":"` + lessonID.String() + `","sessionId":"` + sessionID.String() + `","lessonComplete":true,"answerCorrect":false}`
	req := httptest.NewRequest(http.MethodPost, "/lesson-progress", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := serve(h.Record, http.MethodPost, "/lesson-progress", req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	var row types.LessonCompletion
	if err := json.Unmarshal(rec.Body.Bytes(), &row); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if row.LessonID != lessonID || row.CustomerSessionID != sessionID || !row.LessonComplete || row.AnswerCorrect {
		t.Fatalf("row: %#v", row)
	}
}

func TestProgressRecordErrors(t *testing.T) {
	valid := `{"lessonId":"` + uuid.NewString() + `","sessionId":"` + uuid.NewString() + `"}`
	cases := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{"malformed json", `{`, nil, http.StatusBadRequest},
		{"missing ids", `{"lessonComplete":true}`, nil, http.StatusBadRequest},
		{"bad uuid", `{"lessonId":"x","sessionId":"y"}`, nil, http.StatusBadRequest},
		{"unknown lesson", valid, aggregates.ErrNotFound, http.StatusNotFound},
		{"store failure", valid, errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewProgressHandler(logger.Nop(), fakeProgress{err: tc.err})
			req := httptest.NewRequest(http.MethodPost, "/lesson-progress", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			rec := serve(h.Record, http.MethodPost, "/lesson-progress", req)
			if rec.Code != tc.status {
				t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestHealth(t *testing.T) {
	rec := serve(NewHealthHandler().Test, http.MethodGet, "/test", httptest.NewRequest(http.MethodGet, "/test", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "Hello!" {
		t.Fatalf("status=%d body=%q", rec.Code, rec.Body.String())
	}
}
