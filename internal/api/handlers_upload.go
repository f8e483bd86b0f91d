package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docpager/internal/paginate"
	"github.com/dgallion1/docpager/internal/parser"
	"github.com/dgallion1/docpager/internal/pipeline"
	"github.com/go-chi/chi/v5"
)

// uploadResponse is the synchronous upload result.
type uploadResponse struct {
	HTML      string        `json:"html"`
	JSON      string        `json:"json"`
	PagesHTML []string      `json:"pages_html"`
	PagesJSON []string      `json:"pages_json"`
	PageCount int           `json:"page_count"`
	Tier      paginate.Tier `json:"tier"`
	Image     string        `json:"image"`
	Filename  string        `json:"filename"`
}

func newUploadResponse(r *pipeline.Result) uploadResponse {
	return uploadResponse{
		HTML:      r.Markup,
		JSON:      r.TreeJSON,
		PagesHTML: r.PagesMarkup(),
		PagesJSON: r.PagesTreeJSON(),
		PageCount: r.PageCount,
		Tier:      r.Tier,
		Image:     r.Image,
		Filename:  r.Filename,
	}
}

var errTooLarge = errors.New("file too large")

// readUpload pulls the file field out of a multipart request, enforcing the
// extension allowlist and size limit.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (string, []byte, int, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return "", nil, http.StatusRequestEntityTooLarge, errTooLarge
		}
		return "", nil, http.StatusBadRequest, fmt.Errorf("invalid multipart form: %w", err)
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		return "", nil, http.StatusBadRequest, errors.New("no file provided")
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !parser.IsSupportedExtension(filename) {
		return "", nil, http.StatusBadRequest, fmt.Errorf("unsupported file type: %s", filepath.Ext(filename))
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		return "", nil, http.StatusInternalServerError, errors.New("failed to read file")
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return "", nil, http.StatusRequestEntityTooLarge, fmt.Errorf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes)
	}
	return filename, data, 0, nil
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	filename, data, code, err := s.readUpload(w, r)
	if err != nil {
		jsonError(w, err.Error(), code)
		return
	}

	res, err := s.proc.ProcessFile(r.Context(), filename, data, nil)
	if err != nil {
		s.log.Error("upload processing failed", "filename", filename, "error", err)
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, newUploadResponse(res))
}

func (s *Server) handleSubmitJob(w http.ResponseWriter, r *http.Request) {
	filename, data, code, err := s.readUpload(w, r)
	if err != nil {
		jsonError(w, err.Error(), code)
		return
	}

	job := pipeline.NewJob(filename, data)
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"job_id":   job.ID,
		"status":   pipeline.StatusQueued,
		"poll_url": fmt.Sprintf("/api/jobs/%s", job.ID),
	})
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, job.Snapshot())
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." || name == "/" {
		name = "unnamed"
	}
	return name
}
