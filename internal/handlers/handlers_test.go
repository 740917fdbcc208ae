package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"peerprep/interview/internal/candidates"
	"peerprep/interview/internal/events"
	"peerprep/interview/internal/interview"
	"peerprep/interview/internal/llm/mock"
	"peerprep/interview/internal/middleware"
	"peerprep/interview/internal/models"
	"peerprep/interview/internal/resume"
	"peerprep/interview/internal/schedule"
	"peerprep/interview/internal/store"
)

var pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\n")

type fixture struct {
	controller *interview.Controller
	clock      *schedule.Manual
	hub        *events.Hub
	interview  *InterviewHandler
	candidates *CandidateHandler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := store.NewSessionStore(store.NewMemoryBackend(), store.DefaultKey, zap.NewNop())
	f := &fixture{clock: schedule.NewManual(), hub: events.NewHub(nil)}
	f.controller = interview.NewController(s, mock.NewProvider(), resume.NewIntake(), nil, interview.Options{
		Scheduler: f.clock,
		Notifier:  f.hub,
	})
	t.Cleanup(f.controller.Shutdown)
	f.interview = NewInterviewHandler(f.controller, nil)
	f.candidates = NewCandidateHandler(candidates.NewService(s, 0), f.controller, nil)
	return f
}

func multipartUpload(t *testing.T, field, filename, contentType string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/interview/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func addURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out), rec.Body.String())
	return out
}

func (f *fixture) upload(t *testing.T) {
	t.Helper()
	rec := httptest.NewRecorder()
	f.interview.UploadHandler(rec, multipartUpload(t, "resume", "jane.pdf", resume.MimePDF, pdfBytes))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func (f *fixture) profile(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	handler := middleware.ValidateRequest[*models.ProfileRequest]()(http.HandlerFunc(f.interview.ProfileHandler))
	handler.ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/v1/interview/profile", body))
	return rec
}

func (f *fixture) answer(t *testing.T, text string) *httptest.ResponseRecorder {
	t.Helper()
	payload, _ := json.Marshal(models.AnswerRequest{Answer: text})
	rec := httptest.NewRecorder()
	handler := middleware.ValidateRequest[*models.AnswerRequest]()(http.HandlerFunc(f.interview.AnswerHandler))
	handler.ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/v1/interview/answers", string(payload)))
	return rec
}

const validProfile = `{"name":"Jane Doe","email":"jane@example.com","phone":"+1 (555) 123-4567"}`
