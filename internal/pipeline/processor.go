package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dgallion1/docpager/internal/config"
	"github.com/dgallion1/docpager/internal/parser"
	"github.com/dgallion1/docpager/internal/render"
)

// Renderer converts a source file into a PDF inside outDir.
type Renderer interface {
	Render(ctx context.Context, path, outDir string) (string, error)
}

// Previewer produces a base64 image of the first page of a PDF.
type Previewer interface {
	FirstPage(ctx context.Context, pdfPath string) (string, error)
}

// Processor runs an upload through parse, render and paginate.
type Processor struct {
	paginator    *Paginator
	renderer     Renderer
	previewer    Previewer
	pageTexts    func(pdfPath string) ([]string, error)
	cache        *ResultCache
	wordsPerPage int
	log          *slog.Logger

	// wait is the pause between render retries.
	wait func(int) time.Duration
}

// NewProcessor wires the external renderer and rasterizer from cfg. When
// rendering is disabled documents are paginated from their own signals.
func NewProcessor(cfg config.Config, log *slog.Logger) *Processor {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	p := &Processor{
		paginator:    NewPaginator(log),
		pageTexts:    render.PageTexts,
		cache:        NewResultCache(cfg.ResultCacheTTL),
		wordsPerPage: cfg.WordsPerPage,
		log:          log,
		wait:         Backoff,
	}
	if cfg.RenderEnabled {
		p.renderer = render.NewOffice(cfg.SofficePath, cfg.RenderTimeout)
		p.previewer = render.NewRasterizer(cfg.PdftoppmPath, cfg.PreviewDPI, cfg.RenderTimeout)
	}
	return p
}

// Phase is called as processing moves between stages.
type Phase func(status JobStatus, phase string)

// ProcessFile paginates one uploaded file. The same bytes uploaded under the
// same name within the cache TTL return the cached result; the name is part
// of the key because titles fall back to it.
func (p *Processor) ProcessFile(ctx context.Context, filename string, data []byte, phase Phase) (*Result, error) {
	if phase == nil {
		phase = func(JobStatus, string) {}
	}
	log := p.log.With("filename", filename)

	key := cacheKey(filename, data)
	if r, ok := p.cache.Get(key); ok {
		log.Info("result cache hit")
		return r, nil
	}

	phase(StatusParsing, "parsing")
	ps, err := parser.ForFile(filename)
	if err != nil {
		return nil, err
	}
	src, err := ps.Parse(bytes.NewReader(data), filename)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	var pageTexts []string
	var image string
	var warnings []string
	if p.renderer != nil {
		phase(StatusRendering, "rendering")
		pageTexts, image, warnings = p.renderPages(ctx, log, filename, data)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	phase(StatusPaginating, "paginating")
	res, err := p.paginator.Run(Input{
		Markup:       src.Markup,
		Tree:         src.Tree,
		Breaks:       src.Breaks,
		PageTexts:    pageTexts,
		PageEstimate: estimatePages(src, pageTexts, p.wordsPerPage),
	})
	if err != nil {
		return nil, fmt.Errorf("paginate: %w", err)
	}
	res.Filename = filename
	res.Title = src.Title
	res.Image = image
	res.Warnings = warnings

	p.cache.Put(key, res)
	return res, nil
}

func cacheKey(filename string, data []byte) string {
	return ContentHashHex(data) + "/" + filename
}

// renderPages converts the upload to PDF and reads its page texts and
// preview. Renderer failures degrade to nil page texts so pagination falls
// back to the document's own signals; the returned warnings describe what
// was skipped.
func (p *Processor) renderPages(ctx context.Context, log *slog.Logger, filename string, data []byte) ([]string, string, []string) {
	var warnings []string
	dir, err := os.MkdirTemp("", "docpager-*")
	if err != nil {
		log.Warn("render skipped", "error", err)
		return nil, "", []string{"render skipped: " + err.Error()}
	}
	defer os.RemoveAll(dir)

	in := filepath.Join(dir, "source"+filepath.Ext(filename))
	if err := os.WriteFile(in, data, 0o600); err != nil {
		log.Warn("render skipped", "error", err)
		return nil, "", []string{"render skipped: " + err.Error()}
	}

	var pdfPath string
	err = withRetry(ctx, p.wait, func() error {
		var rerr error
		pdfPath, rerr = p.renderer.Render(ctx, in, dir)
		if rerr != nil && IsRetryable(rerr) {
			log.Warn("retryable render error", "error", rerr)
		}
		return rerr
	})
	if err != nil {
		if errors.Is(err, render.ErrUnavailable) {
			log.Debug("renderer unavailable", "error", err)
		} else {
			log.Warn("render failed", "error", err)
		}
		return nil, "", []string{"render failed: " + err.Error()}
	}

	texts, err := p.pageTexts(pdfPath)
	if err != nil {
		log.Warn("page text extraction failed", "error", err)
		warnings = append(warnings, "page text extraction failed: "+err.Error())
		texts = nil
	}

	var image string
	if p.previewer != nil {
		image, err = p.previewer.FirstPage(ctx, pdfPath)
		if err != nil {
			log.Warn("preview failed", "error", err)
			warnings = append(warnings, "preview failed: "+err.Error())
		}
	}
	return texts, image, warnings
}

// estimatePages prefers the rendered page count, then the count the document
// records, then a word-count estimate.
func estimatePages(src *parser.Source, pageTexts []string, wordsPerPage int) int {
	if len(pageTexts) > 0 {
		return len(pageTexts)
	}
	if src.PageEstimate > 0 {
		return src.PageEstimate
	}
	if wordsPerPage <= 0 {
		return 1
	}
	return max(1, (src.Words+wordsPerPage-1)/wordsPerPage)
}
