package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nikogura/resume-builder/pkg/llm"
	"github.com/nikogura/resume-builder/pkg/renderer"
	"github.com/nikogura/resume-builder/pkg/resume"
	"github.com/nikogura/resume-builder/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const generated = "## Summary\nBackend engineer.\n## Skills\nGo, Kubernetes\n## Experience\n- Built X\n- Shipped Y\n"

type stubGenerator struct {
	markdown string
	revised  []string
	err      error
}

func (g *stubGenerator) GenerateResume(_ context.Context, _ string) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	return g.markdown, nil
}

func (g *stubGenerator) ReviseSection(_ context.Context, _ string, _ []string, _ string) ([]string, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.revised, nil
}

type view struct {
	ID        string            `json:"id"`
	Step      int               `json:"step"`
	Question  *session.Question `json:"question"`
	Complete  bool              `json:"complete"`
	Generated bool              `json:"generated"`
	Contact   resume.ContactRecord
	Sections  []resume.Section `json:"sections"`
	Modified  bool             `json:"modified"`
	Warning   string           `json:"warning"`
}

type testServer struct {
	t   *testing.T
	srv *Server
	gen *stubGenerator
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gen := &stubGenerator{markdown: generated, revised: []string{"Go, Rust"}}
	ctrl := session.NewController(session.NewMemoryStore(), gen, renderer.New())
	return &testServer{t: t, srv: New(ctrl, nil), gen: gen}
}

func (ts *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	ts.t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	ts.srv.ServeHTTP(w, req)
	return w
}

func (ts *testServer) view(w *httptest.ResponseRecorder) view {
	ts.t.Helper()
	var v view
	require.NoError(ts.t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (ts *testServer) create() string {
	ts.t.Helper()
	w := ts.do(http.MethodPost, "/sessions", "")
	require.Equal(ts.t, http.StatusCreated, w.Code)
	return ts.view(w).ID
}

func (ts *testServer) generatedSession() string {
	ts.t.Helper()
	id := ts.create()

	w := ts.do(http.MethodPut, "/sessions/"+id+"/answers", `{"answers": {"name": "Jane Doe", "email": "jane@example.com", "skills": "Go"}}`)
	require.Equal(ts.t, http.StatusOK, w.Code, w.Body.String())

	w = ts.do(http.MethodPost, "/sessions/"+id+"/generate", "")
	require.Equal(ts.t, http.StatusOK, w.Code, w.Body.String())

	return id
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "ok"}`, w.Body.String())
}

func TestQuestions(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(http.MethodGet, "/questions", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp questionsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Questions, 12)
	assert.Equal(t, "name", resp.Questions[0].Key)
	assert.Contains(t, resp.Revisable, "summary")
}

func TestQuestionnaire(t *testing.T) {
	ts := newTestServer(t)
	id := ts.create()

	w := ts.do(http.MethodGet, "/sessions/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	v := ts.view(w)
	require.NotNil(t, v.Question)
	assert.Equal(t, "name", v.Question.Key)

	w = ts.do(http.MethodPost, "/sessions/"+id+"/answer", `{"value": "Jane Doe"}`)
	require.Equal(t, http.StatusOK, w.Code)
	v = ts.view(w)
	assert.Equal(t, 1, v.Step)
	assert.Equal(t, "location", v.Question.Key)

	w = ts.do(http.MethodPost, "/sessions/"+id+"/back", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, ts.view(w).Step)

	w = ts.do(http.MethodPost, "/sessions/"+id+"/generate", "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestFullFlow(t *testing.T) {
	ts := newTestServer(t)
	id := ts.generatedSession()

	w := ts.do(http.MethodGet, "/sessions/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	v := ts.view(w)
	assert.True(t, v.Generated)
	assert.Nil(t, v.Question)
	assert.Equal(t, "Jane Doe", v.Contact.Name)
	require.Len(t, v.Sections, 3)
	assert.Equal(t, "summary", v.Sections[0].Key)
	assert.False(t, v.Modified)

	w = ts.do(http.MethodPost, "/sessions/"+id+"/revise", `{"section": "skills", "instruction": "Add Rust"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	v = ts.view(w)
	assert.True(t, v.Modified)
	assert.Equal(t, []string{"Go, Rust"}, v.Sections[1].Lines)

	w = ts.do(http.MethodGet, "/sessions/"+id+"/markdown", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/markdown; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "## Skills\n\nGo, Rust\n")

	w = ts.do(http.MethodGet, "/sessions/"+id+"/preview", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<title>Jane Doe - Resume</title>")
	assert.Contains(t, w.Body.String(), "<li>Built X</li>")

	w = ts.do(http.MethodGet, "/sessions/"+id+"/pdf", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="resume.pdf"`, w.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF-"))

	pages, err := renderer.PageCount(w.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 1, pages)

	w = ts.do(http.MethodPost, "/sessions/"+id+"/restore", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, ts.view(w).Modified)

	w = ts.do(http.MethodPost, "/sessions/"+id+"/information", `{"answers": {"email": "jane@new.example.com"}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "jane@new.example.com", ts.view(w).Contact.Email)

	w = ts.do(http.MethodPost, "/sessions/"+id+"/reset", "")
	require.Equal(t, http.StatusOK, w.Code)
	v = ts.view(w)
	assert.Equal(t, id, v.ID)
	assert.False(t, v.Generated)

	w = ts.do(http.MethodDelete, "/sessions/"+id, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = ts.do(http.MethodGet, "/sessions/"+id, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEmptyResumeWarning(t *testing.T) {
	ts := newTestServer(t)
	ts.gen.markdown = "I cannot help with that."
	id := ts.generatedSession()

	w := ts.do(http.MethodGet, "/sessions/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	v := ts.view(w)
	assert.True(t, v.Generated)
	assert.Empty(t, v.Sections)
	assert.Equal(t, session.ErrEmptyResume.Error(), v.Warning)
}

func TestErrors(t *testing.T) {
	ts := newTestServer(t)
	id := ts.generatedSession()
	fresh := ts.create()

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{name: "missing session", method: http.MethodGet, path: "/sessions/nope", status: http.StatusNotFound},
		{name: "malformed body", method: http.MethodPost, path: "/sessions/" + id + "/revise", body: `{"section":`, status: http.StatusBadRequest},
		{name: "unknown field", method: http.MethodPost, path: "/sessions/" + fresh + "/answer", body: `{"answer": "x"}`, status: http.StatusBadRequest},
		{name: "missing section", method: http.MethodPost, path: "/sessions/" + id + "/revise", body: `{"instruction": "x"}`, status: http.StatusBadRequest},
		{name: "unknown section", method: http.MethodPost, path: "/sessions/" + id + "/revise", body: `{"section": "hobbies"}`, status: http.StatusBadRequest},
		{name: "unknown answer key", method: http.MethodPut, path: "/sessions/" + fresh + "/answers", body: `{"answers": {"hobbies": "x"}}`, status: http.StatusBadRequest},
		{name: "empty answers", method: http.MethodPut, path: "/sessions/" + fresh + "/answers", body: `{"answers": {}}`, status: http.StatusBadRequest},
		{name: "not generated pdf", method: http.MethodGet, path: "/sessions/" + fresh + "/pdf", status: http.StatusConflict},
		{name: "not generated preview", method: http.MethodGet, path: "/sessions/" + fresh + "/preview", status: http.StatusConflict},
		{name: "not generated markdown", method: http.MethodGet, path: "/sessions/" + fresh + "/markdown", status: http.StatusConflict},
		{name: "answer after generation", method: http.MethodPost, path: "/sessions/" + id + "/answer", body: `{"value": "x"}`, status: http.StatusConflict},
		{name: "no changes", method: http.MethodPost, path: "/sessions/" + id + "/information", body: `{"answers": {"name": "Jane Doe"}}`, status: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())

			var resp errorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestUpstreamFailure(t *testing.T) {
	ts := newTestServer(t)
	id := ts.generatedSession()

	ts.gen.err = &llm.GenerationError{StatusCode: http.StatusServiceUnavailable, Message: "overloaded"}

	w := ts.do(http.MethodPost, "/sessions/"+id+"/revise", `{"section": "summary"}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "overloaded")

	ts.gen.err = nil
	ts.gen.revised = nil
	w = ts.do(http.MethodPost, "/sessions/"+id+"/revise", `{"section": "summary"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = ts.do(http.MethodGet, "/sessions/"+id+"/markdown", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Backend engineer.")
}
