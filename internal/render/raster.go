package render

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"
)

// Rasterizer renders PDF pages to PNG with poppler's pdftoppm.
type Rasterizer struct {
	Binary  string
	DPI     int
	Timeout time.Duration
}

// NewRasterizer returns a rasterizer; zero values pick pdftoppm at 150 DPI.
func NewRasterizer(binary string, dpi int, timeout time.Duration) *Rasterizer {
	if binary == "" {
		binary = "pdftoppm"
	}
	if dpi <= 0 {
		dpi = 150
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Rasterizer{Binary: binary, DPI: dpi, Timeout: timeout}
}

// FirstPage renders page 1 of the PDF and returns it base64-encoded.
func (r *Rasterizer) FirstPage(ctx context.Context, pdfPath string) (string, error) {
	bin, err := exec.LookPath(r.Binary)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrUnavailable, r.Binary)
	}

	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	outPrefix := filepath.Join(filepath.Dir(pdfPath), "preview")
	cmd := exec.CommandContext(ctx, bin, "-png", "-r", strconv.Itoa(r.DPI),
		"-f", "1", "-l", "1", "-singlefile", pdfPath, outPrefix)
	if out, err := cmd.CombinedOutput(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", &TransientError{Err: fmt.Errorf("rasterize timed out after %s", r.Timeout)}
		}
		return "", fmt.Errorf("rasterize: %w: %s", err, out)
	}

	png, err := os.ReadFile(outPrefix + ".png")
	if err != nil {
		return "", fmt.Errorf("read preview: %w", err)
	}
	return base64.StdEncoding.EncodeToString(png), nil
}
