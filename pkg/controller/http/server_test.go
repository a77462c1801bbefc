package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	server "github.com/jscott-dev/meetmebot/pkg/controller/http"
	"github.com/jscott-dev/meetmebot/pkg/model"
	"github.com/jscott-dev/meetmebot/pkg/repository"
	"github.com/jscott-dev/meetmebot/pkg/usecase/portfolio"
	"github.com/m-mizutani/gt"
)

type stubChat struct {
	lastMessage string
	reply       string
}

func (c *stubChat) HandleMessage(ctx context.Context, message string) string {
	c.lastMessage = message
	return c.reply
}

func newTestServer() (*server.Server, *stubChat, *portfolio.UseCase) {
	chat := &stubChat{reply: "Hi there, I'm MeetMeBot."}
	uc := portfolio.New(repository.NewMemory())
	return server.New(chat, uc), chat, uc
}

func postJSON(t *testing.T, srv *server.Server, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data := gt.R1(json.Marshal(body)).NoError(t)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestChatEndpoint(t *testing.T) {
	srv, chat, _ := newTestServer()

	rec := postJSON(t, srv, "/api/chat", map[string]string{"message": "Who are you?"})

	gt.Equal(t, rec.Code, http.StatusOK)
	gt.S(t, rec.Header().Get("Content-Type")).Contains("text/plain")
	body := gt.R1(io.ReadAll(rec.Body)).NoError(t)
	gt.Equal(t, string(body), "Hi there, I'm MeetMeBot.")
	gt.Equal(t, chat.lastMessage, "Who are you?")
}

func TestChatEndpointRejectsEmptyMessage(t *testing.T) {
	srv, _, _ := newTestServer()

	rec := postJSON(t, srv, "/api/chat", map[string]string{})
	gt.Equal(t, rec.Code, http.StatusBadRequest)
}

func TestChatEndpointRejectsBadJSON(t *testing.T) {
	srv, _, _ := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	gt.Equal(t, rec.Code, http.StatusBadRequest)
}

func TestProjectLifecycle(t *testing.T) {
	srv, _, _ := newTestServer()

	rec := postJSON(t, srv, "/api/projects", map[string]any{
		"title":       "MeetMeBot",
		"description": "Portfolio chat assistant",
		"skills":      []string{"Go", "Gemini"},
		"isActive":    true,
	})
	gt.Equal(t, rec.Code, http.StatusCreated)

	var created model.Project
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	gt.Equal(t, created.Title, "MeetMeBot")
	gt.True(t, created.ID != "")

	// Partial update leaves the other fields intact
	patch := gt.R1(json.Marshal(map[string]any{"isActive": false})).NoError(t)
	req := httptest.NewRequest(http.MethodPut, "/api/projects/"+string(created.ID), bytes.NewReader(patch))
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	gt.Equal(t, rec.Code, http.StatusOK)

	var updated model.Project
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	gt.Equal(t, updated.Title, "MeetMeBot")
	gt.False(t, updated.IsActive)

	// Active-only listing no longer includes it
	req = httptest.NewRequest(http.MethodGet, "/api/projects?active=true", nil)
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	gt.Equal(t, rec.Code, http.StatusOK)

	var listed []model.Project
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	gt.A(t, listed).Length(0)
}

func TestCreateProjectValidation(t *testing.T) {
	srv, _, _ := newTestServer()

	rec := postJSON(t, srv, "/api/projects", map[string]any{"description": "no title"})
	gt.Equal(t, rec.Code, http.StatusBadRequest)
}

func TestUpdateUnknownProject(t *testing.T) {
	srv, _, _ := newTestServer()

	patch := []byte(`{"title":"renamed"}`)
	req := httptest.NewRequest(http.MethodPut, "/api/projects/no-such-id", bytes.NewReader(patch))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	gt.Equal(t, rec.Code, http.StatusNotFound)
}

func TestVisitEndpoints(t *testing.T) {
	srv, _, _ := newTestServer()

	rec := postJSON(t, srv, "/api/visits", map[string]string{"email": "guest@example.com"})
	gt.Equal(t, rec.Code, http.StatusCreated)

	var visit model.GuestVisit
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &visit))
	gt.Equal(t, visit.Email, "guest@example.com")

	req := httptest.NewRequest(http.MethodGet, "/api/visits", nil)
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	gt.Equal(t, rec.Code, http.StatusOK)

	var visits []model.GuestVisit
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &visits))
	gt.A(t, visits).Length(1)
}

func TestRecordVisitValidation(t *testing.T) {
	srv, _, _ := newTestServer()

	rec := postJSON(t, srv, "/api/visits", map[string]string{"email": ""})
	gt.Equal(t, rec.Code, http.StatusBadRequest)
}

func TestHealth(t *testing.T) {
	srv, _, _ := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	gt.Equal(t, rec.Code, http.StatusOK)
}
