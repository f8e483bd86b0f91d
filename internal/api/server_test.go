package api

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/docpager/internal/config"
	"github.com/dgallion1/docpager/internal/pipeline"
)

func testServer(t *testing.T, apiKey string) *Server {
	t.Helper()
	cfg := config.Config{
		APIKey:         apiKey,
		WorkerCount:    1,
		MaxQueueSize:   4,
		MaxUploadBytes: 1024,
		JobTTL:         time.Hour,
		WordsPerPage:   500,
	}
	log := slog.New(slog.DiscardHandler)
	orch := pipeline.NewOrchestrator(cfg, pipeline.NewProcessor(cfg, log), log)
	orch.Start(context.Background())
	t.Cleanup(orch.Stop)
	return NewServer(orch, log, cfg)
}

func multipartBody(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		if err != nil {
			t.Fatal(err)
		}
		fw.Write(content)
	} else {
		mw.WriteField("other", "x")
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func upload(t *testing.T, s *Server, path, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	body, ct := multipartBody(t, filename, content)
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := testServer(t, "")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("expected CORS header")
	}
}

func TestPreflight(t *testing.T) {
	s := testServer(t, "secret")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/upload", nil))
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
}

func TestUpload_Paginates(t *testing.T) {
	s := testServer(t, "")
	rec := upload(t, s, "/upload", "../../notes.txt", []byte("Intro\n\nbody one\fbody two"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp uploadResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Filename != "notes.txt" {
		t.Errorf("expected sanitized filename, got %q", resp.Filename)
	}
	if resp.PageCount != 2 || len(resp.PagesHTML) != 2 || len(resp.PagesJSON) != 2 {
		t.Fatalf("expected 2 pages, got %+v", resp)
	}
	if resp.PagesHTML[1] != "<p>body two</p>" {
		t.Errorf("page 2 = %q", resp.PagesHTML[1])
	}
	if !strings.Contains(resp.JSON, "\n  ") {
		t.Error("expected indented tree json")
	}
	if resp.Tier != "authoritative" {
		t.Errorf("expected authoritative tier, got %q", resp.Tier)
	}
}

func TestUpload_Errors(t *testing.T) {
	s := testServer(t, "")
	cases := []struct {
		name     string
		filename string
		content  []byte
		want     int
	}{
		{"missing file", "", nil, http.StatusBadRequest},
		{"unsupported", "image.png", []byte("x"), http.StatusBadRequest},
		{"too large", "big.txt", bytes.Repeat([]byte("a"), 2048), http.StatusRequestEntityTooLarge},
		{"corrupt docx", "broken.docx", []byte("not a zip"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := upload(t, s, "/upload", tc.filename, tc.content)
			if rec.Code != tc.want {
				t.Errorf("expected %d, got %d: %s", tc.want, rec.Code, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), `"error"`) {
				t.Errorf("expected error body, got %s", rec.Body.String())
			}
		})
	}
}

func TestAuth(t *testing.T) {
	s := testServer(t, "secret")
	body := `{"html":"<p>x</p>"}`

	req := httptest.NewRequest(http.MethodPost, "/api/convert", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without key, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/convert", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 with wrong key, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/convert", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer secret")
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 with key, got %d", rec.Code)
	}
}

func TestConvert(t *testing.T) {
	s := testServer(t, "")
	cases := []struct {
		name string
		body string
		code int
		want string
	}{
		{"tree to html", `{"tree":{"TYPE":"paragraph","VALUE":["Section 1: Overview:"]}}`, 200, `"html":"<h1>Section 1: Overview:</h1>"`},
		{"html to tree", `{"html":"<p>hi</p>"}`, 200, `"TYPE":"paragraph"`},
		{"empty body", `{}`, 400, `"error"`},
		{"invalid json", `{`, 400, `"error"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/convert", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, req)
			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d: %s", tc.code, rec.Code, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), tc.want) {
				t.Errorf("expected %s in %s", tc.want, rec.Body.String())
			}
		})
	}
}

func TestJobs_SubmitAndPoll(t *testing.T) {
	s := testServer(t, "")
	rec := upload(t, s, "/api/jobs", "a.md", []byte("# Title\n\nSome text."))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	var sub struct {
		JobID   string `json:"job_id"`
		PollURL string `json:"poll_url"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &sub); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		rec = httptest.NewRecorder()
		s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, sub.PollURL, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("poll: expected 200, got %d", rec.Code)
		}
		var snap pipeline.JobSnapshot
		if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
			t.Fatal(err)
		}
		if snap.Status == pipeline.StatusCompleted {
			if snap.Result == nil || snap.Result.PageCount != 1 {
				t.Errorf("expected one-page result, got %+v", snap.Result)
			}
			return
		}
		if snap.Status == pipeline.StatusFailed {
			t.Fatalf("job failed: %v", snap.Errors)
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("job did not complete")
}

func TestJobs_NotFound(t *testing.T) {
	s := testServer(t, "")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/jobs/missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"report.docx":          "report.docx",
		"../../etc/passwd.txt": "passwd.txt",
		`C:\docs\x.md`:         "x.md",
		"":                     "unnamed",
		"a..b.txt":             "a_b.txt",
	}
	for in, want := range cases {
		if got := sanitizeFilename(in); got != want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestConvert_BodyTooLarge(t *testing.T) {
	s := testServer(t, "")
	body := `{"html":"` + strings.Repeat("a", 2048) + `"}`
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/convert", strings.NewReader(body)))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d: %s", rec.Code, rec.Body.String())
	}
}
