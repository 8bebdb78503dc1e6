package csv2docx

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"path/filepath"
	"time"

	"github.com/alnah/go-csv2docx/internal/fileutil"
)

// Generation phases, advanced strictly in order. A run that tries to skip a
// phase is a programming error and fails loudly.
type phase int

const (
	phaseInit phase = iota
	phaseRendering
	phaseMerging
	phaseFinalizing
	phaseDone
)

// assembly tracks the phase of one generation run.
type assembly struct {
	phase phase
}

func (a *assembly) advance(next phase) {
	if next != a.phase+1 {
		panic(fmt.Sprintf("assembly phase %d cannot advance to %d", a.phase, next))
	}
	a.phase = next
}

// Generator turns rows into documents. Create one with NewGenerator and
// reuse it across runs; each run gets its own assembly state and heading
// dedup tracking.
type Generator struct {
	registry        *Registry
	outputDir       string
	opener          DocumentOpener
	fetcher         *Fetcher
	policy          RetryPolicy
	client          *http.Client
	prefetchWorkers int
	noImages        bool
	now             func() time.Time
	randomDigits    func() string
}

// Option customizes a Generator.
type Option func(*Generator)

// WithOutputDir sets the directory output files are written to.
// It is created on demand. Default is the working directory.
func WithOutputDir(dir string) Option {
	return func(g *Generator) { g.outputDir = dir }
}

// WithOpener substitutes the document backend, e.g. a recording fake in
// tests.
func WithOpener(open DocumentOpener) Option {
	return func(g *Generator) { g.opener = open }
}

// WithFetcher substitutes the image fetcher.
func WithFetcher(f *Fetcher) Option {
	return func(g *Generator) { g.fetcher = f }
}

// WithRetryPolicy configures image download retries for the default
// fetcher. Ignored when WithFetcher is also given.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(g *Generator) { g.policy = p }
}

// WithHTTPClient sets the client the default fetcher downloads with.
func WithHTTPClient(c *http.Client) Option {
	return func(g *Generator) { g.client = c }
}

// WithPrefetchWorkers enables concurrent image prefetching before rows are
// rendered. Zero disables prefetching; rendering itself stays sequential.
func WithPrefetchWorkers(n int) Option {
	return func(g *Generator) { g.prefetchWorkers = n }
}

// WithoutImages skips image downloads entirely; URLs stay in the text.
func WithoutImages() Option {
	return func(g *Generator) { g.noImages = true }
}

// WithNow overrides the clock used for output filenames.
func WithNow(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// NewGenerator creates a Generator over a registry with default
// configuration. Use options to customize behavior.
func NewGenerator(registry *Registry, opts ...Option) *Generator {
	g := &Generator{
		registry: registry,
		opener:   openDocx,
		policy:   DefaultRetryPolicy,
		now:      time.Now,
		randomDigits: func() string {
			return fmt.Sprintf("%06d", rand.Intn(1_000_000))
		},
	}
	for _, opt := range opts {
		opt(g)
	}

	// Create the fetcher if not injected (e.g., by tests).
	if g.fetcher == nil {
		g.fetcher = NewFetcher(g.policy, g.client)
	}
	return g
}

// Generate renders rows through the named template and writes the document.
// Rows are applied in input order; a failing row is recorded in the result
// and generation continues. Context cancellation aborts the whole run.
func (g *Generator) Generate(ctx context.Context, templateID string, rows []Row) (*Result, error) {
	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	tpl, err := g.registry.Create(templateID)
	if err != nil {
		return nil, err
	}

	outputDir := g.outputDir
	if outputDir == "" {
		outputDir = "."
	}
	if err := fileutil.EnsureDir(outputDir); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWriteDocument, err)
	}

	doc, err := g.opener(tpl.StartTemplate())
	if err != nil {
		return nil, err
	}

	asm := &assembly{}
	asm.advance(phaseRendering)

	if tpl.TargetBookmark() != "" {
		doc.EnsureBookmark(tpl.TargetBookmark(), tpl.TargetBookmark())
	}
	if !g.noImages && g.prefetchWorkers > 0 {
		g.fetcher.Prefetch(ctx, collectImageURLs(rows), g.prefetchWorkers)
	}

	result := &Result{Template: templateID}
	rend := &renderer{fetcher: g.fetcher, noImages: g.noImages}
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if row.Empty() {
			result.Rows = append(result.Rows, RowResult{
				Index:  i,
				Status: RowSkipped,
				Reason: "nothing to render",
			})
			continue
		}

		res, err := rend.renderRow(ctx, doc, row, tpl)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			result.Rows = append(result.Rows, RowResult{
				Index:  i,
				Status: RowFailed,
				Reason: err.Error(),
			})
			continue
		}
		result.Rows = append(result.Rows, RowResult{
			Index:    i,
			Title:    res.title,
			Status:   RowRendered,
			Warnings: res.warnings,
		})
	}

	asm.advance(phaseMerging)
	if tpl.EndTemplate() != "" {
		if err := doc.AppendDocument(tpl.EndTemplate()); err != nil {
			// The generated content is intact without the trailer, so a
			// failed merge degrades to a warning.
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%v: %v", ErrMergeTemplate, err))
		}
	}

	asm.advance(phaseFinalizing)
	name := fmt.Sprintf("%d_%s_%s.docx", g.now().Unix(), g.randomDigits(), tpl.ID())
	path := filepath.Join(outputDir, name)
	if err := doc.Save(path); err != nil {
		return nil, err
	}
	asm.advance(phaseDone)

	result.Path = path
	return result, nil
}

// Validate dry-runs a conversion: the template is resolved, its .docx files
// checked, and every row classified, without downloading images or writing
// output.
func (g *Generator) Validate(ctx context.Context, templateID string, rows []Row) (*Result, error) {
	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	tpl, err := g.registry.Create(templateID)
	if err != nil {
		return nil, err
	}

	result := &Result{Template: templateID}
	rend := &renderer{noImages: true}
	doc := nopDocument{}
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if row.Empty() {
			result.Rows = append(result.Rows, RowResult{
				Index:  i,
				Status: RowSkipped,
				Reason: "nothing to render",
			})
			continue
		}
		res, err := rend.renderRow(ctx, doc, row, tpl)
		if err != nil {
			result.Rows = append(result.Rows, RowResult{Index: i, Status: RowFailed, Reason: err.Error()})
			continue
		}
		result.Rows = append(result.Rows, RowResult{Index: i, Title: res.title, Status: RowRendered})
	}
	return result, nil
}

// nopDocument discards everything; Validate renders against it.
type nopDocument struct{}

var _ Document = nopDocument{}

func (nopDocument) AppendHeading(int, string, ParagraphStyle)        {}
func (nopDocument) AppendParagraph([]TextSpan, ParagraphStyle)       {}
func (nopDocument) AppendImage([]byte, string, int, int, ImageStyle) {}
func (nopDocument) AppendReturnLink(string, string, ParagraphStyle)  {}
func (nopDocument) EnsureBookmark(string, string)                    {}
func (nopDocument) AppendDocument(string) error                      { return nil }
func (nopDocument) Save(string) error                                { return nil }
