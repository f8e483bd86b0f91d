// Package render wraps the external tools that turn a source document into
// a paginated PDF, per-page text and a preview image.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// TransientError marks a failure worth retrying, such as a timeout.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string { return "transient render error: " + e.Err.Error() }
func (e *TransientError) Unwrap() error { return e.Err }

// ErrUnavailable is returned when the renderer binary cannot be found.
var ErrUnavailable = errors.New("renderer unavailable")

// Office converts documents to PDF with a headless office suite.
type Office struct {
	Binary  string
	Timeout time.Duration
}

// NewOffice returns a renderer using binary, defaulting to soffice.
func NewOffice(binary string, timeout time.Duration) *Office {
	if binary == "" {
		binary = "soffice"
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Office{Binary: binary, Timeout: timeout}
}

// Render converts the file at path to PDF inside outDir and returns the PDF
// path.
func (o *Office) Render(ctx context.Context, path, outDir string) (string, error) {
	bin, err := exec.LookPath(o.Binary)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrUnavailable, o.Binary)
	}

	ctx, cancel := context.WithTimeout(ctx, o.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, bin, "--headless", "--convert-to", "pdf", "--outdir", outDir, path)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", &TransientError{Err: fmt.Errorf("render timed out after %s", o.Timeout)}
		}
		return "", fmt.Errorf("render: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	pdfPath := filepath.Join(outDir, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))+".pdf")
	if _, err := os.Stat(pdfPath); err != nil {
		return "", fmt.Errorf("render produced no pdf: %w", err)
	}
	return pdfPath, nil
}
