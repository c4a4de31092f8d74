package draft

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeDraft(t *testing.T, name, body string) (path string) {
	t.Helper()

	path = filepath.Join(t.TempDir(), name)
	err := os.WriteFile(path, []byte(body), 0600)
	if err != nil {
		t.Fatalf("Failed to write draft %s: %v", name, err)
	}

	return path
}

func TestFetchFromFileCases(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "markdown", body: "## Skills\nGo, Python\n"},
		{name: "blank", body: "  \n\n", wantErr: true},
		{name: "oversized", body: strings.Repeat("a", maxDraftSize+1), wantErr: true},
		{name: "at limit", body: strings.Repeat("b", maxDraftSize)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeDraft(t, "draft.md", tc.body)

			got, err := fetchFromFile(path)
			if tc.wantErr {
				if err == nil {
					t.Error("Expected an error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tc.body {
				t.Errorf("Draft content changed: got %d bytes, want %d", len(got), len(tc.body))
			}
		})
	}

	if _, err := fetchFromFile(filepath.Join(t.TempDir(), "missing.md")); err == nil {
		t.Error("Expected an error for a missing draft, got nil")
	}
}

func TestFetchFromURLCases(t *testing.T) {
	cases := []struct {
		name        string
		contentType string
		status      int
		body        string
		want        string
		wantErr     bool
	}{
		{
			name:        "markdown kept verbatim",
			contentType: "text/markdown; charset=utf-8",
			status:      http.StatusOK,
			body:        "## Skills\nGo\n",
			want:        "## Skills\nGo\n",
		},
		{
			name:        "html page converted",
			contentType: "text/html",
			status:      http.StatusOK,
			body:        "<html><body><h1>Skills</h1><p>Go &amp; Python</p><ul><li>Built X</li><li>Shipped Y</li></ul></body></html>",
			want:        "## Skills\nGo & Python\n\n- Built X\n\n- Shipped Y",
		},
		{
			name:        "html detected from body",
			contentType: "text/plain",
			status:      http.StatusOK,
			body:        "<!DOCTYPE html><html><body><h2>Summary</h2><p>Engineer.</p></body></html>",
			want:        "## Summary\nEngineer.",
		},
		{
			name:        "html with no text",
			contentType: "text/html",
			status:      http.StatusOK,
			body:        "<html><body><script>track()</script></body></html>",
			wantErr:     true,
		},
		{
			name:    "not found",
			status:  http.StatusNotFound,
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tc.contentType != "" {
					w.Header().Set("Content-Type", tc.contentType)
				}
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			got, err := fetchFromURL(context.Background(), srv.URL)
			if tc.wantErr {
				if err == nil {
					t.Errorf("Expected an error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("Expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestFetchFromURLHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if _, err := fetchFromURL(ctx, srv.URL); err == nil {
		t.Error("Expected a deadline error, got nil")
	}
}

func TestFetchDispatch(t *testing.T) {
	var agent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agent = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("## Skills\nGo"))
	}))
	defer srv.Close()

	got, err := Fetch(srv.URL)
	if err != nil {
		t.Fatalf("Fetch by URL failed: %v", err)
	}
	if got != "## Skills\nGo" {
		t.Errorf("Unexpected URL draft: %q", got)
	}
	if agent != "resume-builder/1.0" {
		t.Errorf("Unexpected User-Agent %q", agent)
	}

	path := writeDraft(t, "cv.md", "## Summary\nEngineer.")
	got, err = FetchWithContext(context.Background(), path)
	if err != nil {
		t.Fatalf("Fetch by path failed: %v", err)
	}
	if got != "## Summary\nEngineer." {
		t.Errorf("Unexpected file draft: %q", got)
	}
}

func TestHTMLToText(t *testing.T) {
	cases := map[string]string{
		"<p>Hello <strong>world</strong></p>":                "Hello world",
		"<p>Text</p><script>alert('hi')</script><p>More</p>": "Text\nMore",
		"<style>.class{color:red}</style><p>Content</p>":     "Content",
		"<h2 class=\"title\">Experience</h2><p>Acme</p>":     "## Experience\nAcme",
		"<p>R&amp;D at O&#39;Reilly</p>":                     "R&D at O'Reilly",
		"<ol><li>First</li></ol><p>after<br/>break</p>":      "- First\n\nafter\nbreak",
		"Plain text":                                         "Plain text",
	}

	for input, want := range cases {
		if got := htmlToText(input); got != want {
			t.Errorf("htmlToText(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestIsHTML(t *testing.T) {
	cases := []struct {
		contentType string
		body        string
		want        bool
	}{
		{contentType: "text/html; charset=utf-8", want: true},
		{body: "  <!DOCTYPE html><html></html>", want: true},
		{body: "<HTML><body></body></HTML>", want: true},
		{contentType: "text/plain", body: "## Skills"},
	}

	for _, tc := range cases {
		if got := isHTML(tc.contentType, tc.body); got != tc.want {
			t.Errorf("isHTML(%q, %q) = %v, want %v", tc.contentType, tc.body, got, tc.want)
		}
	}
}
