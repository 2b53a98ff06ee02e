// Package pdfdoc opens PDF files for viewing. Page geometry comes from
// pdfcpu; positioned text for search, snapping and the page view comes
// from ledongthuc/pdf.
package pdfdoc

import (
	"os"
	"sync"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"pdfmark/internal/domain"
	"pdfmark/internal/logic"
)

// letter is used for pages whose size cannot be determined
var letter = domain.Size{W: 612, H: 792}

// Opener opens documents from the local filesystem
type Opener struct {
	log zerolog.Logger
}

// NewOpener creates an opener
func NewOpener() *Opener {
	return &Opener{log: log.With().Str("component", "pdfdoc").Logger()}
}

// Open reads page geometry and prepares the text index
func (o *Opener) Open(path string) (logic.Source, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrapf(err, "cannot open %s", path)
	}

	count, err := api.PageCountFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read page count of %s", path)
	}
	if count <= 0 {
		return nil, errors.Errorf("%s has no pages", path)
	}

	sizes := make([]domain.Size, count)
	for i := range sizes {
		sizes[i] = letter
	}
	dims, err := api.PageDimsFile(path)
	if err != nil {
		o.log.Warn().Err(err).Str("path", path).Msg("page sizes unavailable, assuming letter")
	}
	for i := 0; i < len(dims) && i < count; i++ {
		if dims[i].Width > 0 && dims[i].Height > 0 {
			sizes[i] = domain.Size{W: dims[i].Width, H: dims[i].Height}
		}
	}

	doc := &Document{
		path:  path,
		sizes: sizes,
		lines: make(map[int][]domain.TextLine),
		log:   o.log,
	}

	f, r, err := openText(path)
	if err != nil {
		// still viewable, just not searchable
		o.log.Warn().Err(err).Str("path", path).Msg("text layer unavailable")
	} else {
		doc.file, doc.reader = f, r
	}

	o.log.Info().Str("path", path).Int("pages", count).Msg("document opened")
	return doc, nil
}

func openText(path string) (f *os.File, r *pdf.Reader, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = errors.Errorf("pdf reader panic: %v", p)
		}
	}()
	return pdf.Open(path)
}

// Document is an open PDF. It implements logic.Source.
type Document struct {
	path  string
	sizes []domain.Size
	log   zerolog.Logger

	mu     sync.Mutex
	file   *os.File
	reader *pdf.Reader
	lines  map[int][]domain.TextLine // extracted lazily per page
}

func (d *Document) Path() string { return d.path }

func (d *Document) PageCount() int { return len(d.sizes) }

// PageSize returns the unrotated size of a 0-based page in points
func (d *Document) PageSize(page int) domain.Size {
	if page < 0 || page >= len(d.sizes) {
		return domain.Size{}
	}
	return d.sizes[page]
}

// PageSizes returns all page sizes
func (d *Document) PageSizes() []domain.Size {
	return append([]domain.Size(nil), d.sizes...)
}

// Lines returns the text lines of a 0-based page in top-left page space
func (d *Document) Lines(page int) []domain.TextLine {
	if page < 0 || page >= len(d.sizes) {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if lines, ok := d.lines[page]; ok {
		return lines
	}
	lines := d.extract(page)
	d.lines[page] = lines
	return lines
}

// Find returns all matches of query in document order
func (d *Document) Find(query string) []domain.MatchLocation {
	if Fold(query) == "" {
		return nil
	}
	var out []domain.MatchLocation
	for page := range d.sizes {
		out = append(out, FindInLines(page, d.Lines(page), query)...)
	}
	return out
}

// Close releases the underlying file
func (d *Document) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.file == nil {
		return nil
	}
	err := d.file.Close()
	d.file, d.reader = nil, nil
	return err
}

func (d *Document) extract(page int) (lines []domain.TextLine) {
	if d.reader == nil {
		return nil
	}
	defer func() {
		if p := recover(); p != nil {
			d.log.Warn().Int("page", page+1).Interface("panic", p).Msg("text extraction failed")
			lines = nil
		}
	}()

	p := d.reader.Page(page + 1)
	if p.V.IsNull() {
		return nil
	}
	content := p.Content()
	glyphs := make([]Glyph, 0, len(content.Text))
	for _, t := range content.Text {
		glyphs = append(glyphs, Glyph{X: t.X, Y: t.Y, W: t.W, FontSize: t.FontSize, S: t.S})
	}
	return GroupLines(glyphs, d.sizes[page].H)
}

var _ logic.Source = (*Document)(nil)
