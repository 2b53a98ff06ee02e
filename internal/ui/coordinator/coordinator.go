package coordinator

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"pdfmark/internal/domain"
	"pdfmark/internal/eventbus"
	"pdfmark/internal/logic"
	"pdfmark/internal/pagetool"
	"pdfmark/internal/sidecar"
	"pdfmark/internal/ui/services/annotation"
	"pdfmark/internal/ui/services/navigation"
	"pdfmark/internal/ui/services/search"
)

// Options configures the document session
type Options struct {
	SidecarDir       string // empty keeps sidecars next to documents
	AutosaveOnCommit bool
	AutosaveOnClose  bool
	Annotation       annotation.Options
	Navigation       navigation.Options
}

// Coordinator owns the open document and every piece of state scoped to
// it: the markup store, the annotation gesture, the search results and the
// view. All methods run on the UI event loop.
type Coordinator struct {
	// Services
	Navigation *navigation.Service
	Annotation *annotation.Service
	Search     *search.Service

	// Dependencies
	bus    eventbus.EventBus
	store  logic.MarkupStore
	opener logic.Opener
	tools  *pagetool.Runner
	opts   Options

	doc   logic.Source
	dirty bool // store differs from the sidecar on disk
}

// NewCoordinator creates a coordinator with no open document
func NewCoordinator(bus eventbus.EventBus, store logic.MarkupStore, opener logic.Opener, opts Options) *Coordinator {
	c := &Coordinator{
		Navigation: navigation.NewService(opts.Navigation),
		Annotation: annotation.NewService(bus, store, opts.Annotation),
		Search:     search.NewService(bus),
		bus:        bus,
		store:      store,
		opener:     opener,
		opts:       opts,
	}

	c.wireServices()
	return c
}

// wireServices connects services with their dependencies
func (c *Coordinator) wireServices() {
	c.Annotation.SetViewFunction(c.Navigation.ViewParams)

	c.Search.SetMatcherFunction(func(query string) []domain.MatchLocation {
		if c.doc == nil {
			return nil
		}
		return c.doc.Find(query)
	})
	c.Search.SetNavigateFunction(c.Navigation.Jump)
}

// SetPageTool installs the runner used by RunPageTool
func (c *Coordinator) SetPageTool(r *pagetool.Runner) {
	c.tools = r
}

// HasDocument reports whether a document is open
func (c *Coordinator) HasDocument() bool {
	return c.doc != nil
}

// Document returns the open document, nil when none
func (c *Coordinator) Document() logic.Source {
	return c.doc
}

// Open replaces the current document. Store, search and gesture state are
// reset before the document's sidecar is loaded. A sidecar problem does
// not prevent opening: the document stays open and the error is returned.
//
// Unsaved markups of the current document are saved first when autosave on
// close is enabled. Otherwise Open refuses with ErrUnsavedMarkups and the
// current document stays open; OpenDiscarding skips the check.
func (c *Coordinator) Open(path string) error {
	return c.open(path, false)
}

// OpenDiscarding is Open without the unsaved markups check
func (c *Coordinator) OpenDiscarding(path string) error {
	return c.open(path, true)
}

func (c *Coordinator) open(path string, discard bool) error {
	guard := c.doc != nil && c.dirty && !discard
	if guard && !c.opts.AutosaveOnClose {
		return errors.Wrap(domain.ErrUnsavedMarkups, filepath.Base(c.doc.Path()))
	}

	src, err := c.opener.Open(path)
	if err != nil {
		c.bus.Publish(eventbus.ErrorEvent{Op: "open", Message: "failed to open document", Err: err})
		return err
	}

	if c.doc != nil {
		if guard {
			if err := c.SaveMarkups(); err != nil {
				if cerr := src.Close(); cerr != nil {
					log.Warn().Err(cerr).Str("path", src.Path()).Msg("failed to close document")
				}
				return errors.Wrapf(err, "%s stays open", filepath.Base(c.doc.Path()))
			}
		}
		c.closeDocument()
	}

	c.doc = src
	c.store.Clear()
	c.Search.Reset()
	c.Annotation.Reset()
	c.Annotation.SetLineProvider(src)
	c.dirty = false

	sizes := make([]domain.Size, src.PageCount())
	for i := range sizes {
		sizes[i] = src.PageSize(i)
	}
	c.Navigation.SetDocument(sizes)

	c.bus.Publish(eventbus.DocumentOpenedEvent{Path: src.Path(), PageCount: src.PageCount()})
	log.Info().Str("path", src.Path()).Int("pages", src.PageCount()).Msg("document session started")

	return c.LoadMarkups()
}

// Close ends the document session, saving first when autosave on close is
// enabled and there are unsaved changes
func (c *Coordinator) Close() error {
	if c.doc == nil {
		return nil
	}
	var saveErr error
	if c.opts.AutosaveOnClose && c.dirty {
		saveErr = c.SaveMarkups()
	}
	c.closeDocument()
	return saveErr
}

func (c *Coordinator) closeDocument() {
	path := c.doc.Path()
	if err := c.doc.Close(); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("failed to close document")
	}
	c.doc = nil
	c.store.Clear()
	c.Search.Reset()
	c.Annotation.Reset()
	c.Annotation.SetLineProvider(nil)
	c.Navigation.Clear()
	c.dirty = false
	c.bus.Publish(eventbus.DocumentClosedEvent{Path: path})
}

// Dirty reports unsaved markup changes
func (c *Coordinator) Dirty() bool {
	return c.dirty
}

// StartAnnotate arms a drag of the given kind
func (c *Coordinator) StartAnnotate(kind domain.MarkupKind) error {
	if c.doc == nil {
		return domain.ErrNoActiveDocument
	}
	if !kind.Valid() {
		return errors.Errorf("invalid markup kind %d", kind)
	}
	c.Annotation.StartAnnotate(kind)
	return nil
}

// PointerDown forwards a press at a viewport pixel to the gesture
func (c *Coordinator) PointerDown(px domain.Point) bool {
	if c.doc == nil {
		return false
	}
	return c.Annotation.PointerDown(px)
}

// PointerMove forwards a drag motion to the gesture
func (c *Coordinator) PointerMove(px domain.Point) bool {
	if c.doc == nil {
		return false
	}
	return c.Annotation.PointerMove(px)
}

// PointerUp finishes the gesture. The error reports a failed autosave; the
// markup is committed regardless.
func (c *Coordinator) PointerUp() (domain.Markup, bool, error) {
	if c.doc == nil {
		return domain.Markup{}, false, nil
	}
	m, ok := c.Annotation.PointerUp()
	if !ok {
		return m, false, nil
	}
	c.dirty = true
	if c.opts.AutosaveOnCommit {
		return m, true, c.SaveMarkups()
	}
	return m, true, nil
}

// CancelAnnotate abandons the gesture
func (c *Coordinator) CancelAnnotate() {
	c.Annotation.Cancel()
}

// SetQuery runs a new search over the document text
func (c *Coordinator) SetQuery(text string) error {
	if c.doc == nil {
		return domain.ErrNoActiveDocument
	}
	c.Search.SetQuery(text)
	return nil
}

// DispatchSearch applies a search-bar action
func (c *Coordinator) DispatchSearch(action search.Action) error {
	if c.doc == nil {
		return domain.ErrNoActiveDocument
	}
	c.Search.Dispatch(action)
	return nil
}

// SidecarPath is where the open document's markups are persisted
func (c *Coordinator) SidecarPath() string {
	if c.doc == nil {
		return ""
	}
	return sidecar.PathFor(c.doc.Path(), c.opts.SidecarDir)
}

// SaveMarkups writes the store to the sidecar, stale records included
func (c *Coordinator) SaveMarkups() error {
	if c.doc == nil {
		return domain.ErrNoActiveDocument
	}
	path := c.SidecarPath()
	markups := c.store.All()

	start := time.Now()
	if err := sidecar.Save(path, markups); err != nil {
		c.bus.Publish(eventbus.ErrorEvent{Op: "save", Message: "failed to save markups", Err: err})
		return err
	}
	c.dirty = false

	c.bus.Publish(eventbus.MarkupsSavedEvent{Path: path, Count: len(markups), Duration: time.Since(start)})
	log.Info().Str("path", path).Int("count", len(markups)).Msg("markups saved")
	return nil
}

// LoadMarkups replaces the store with the sidecar's content. A malformed
// sidecar leaves the store untouched. Records pointing past the last page
// are kept but reported with a *domain.StaleError.
func (c *Coordinator) LoadMarkups() error {
	if c.doc == nil {
		return domain.ErrNoActiveDocument
	}
	path := c.SidecarPath()

	start := time.Now()
	markups, err := sidecar.Load(path)
	if err != nil {
		c.bus.Publish(eventbus.ErrorEvent{Op: "load", Message: "failed to load markups", Err: err})
		log.Warn().Err(err).Str("path", path).Msg("sidecar not loaded")
		return err
	}

	c.store.Clear()
	for _, m := range markups {
		c.store.Append(m)
	}
	c.dirty = false
	c.bus.Publish(eventbus.MarkupsLoadedEvent{Path: path, Count: len(markups), Duration: time.Since(start)})

	if stale := c.staleError(); stale != nil {
		c.bus.Publish(eventbus.StalePageReferenceEvent{
			Path:      path,
			Count:     stale.Count,
			Pages:     stale.Pages,
			PageCount: stale.PageCount,
		})
		log.Warn().Str("path", path).Ints("pages", stale.Pages).Msg("markups reference missing pages")
		return stale
	}
	return nil
}

func (c *Coordinator) staleError() *domain.StaleError {
	stale := c.StaleMarkups()
	if len(stale) == 0 {
		return nil
	}
	seen := make(map[int]bool)
	var pages []int
	for _, m := range stale {
		if !seen[m.Page] {
			seen[m.Page] = true
			pages = append(pages, m.Page)
		}
	}
	sort.Ints(pages)
	return &domain.StaleError{Count: len(stale), Pages: pages, PageCount: c.doc.PageCount()}
}

// Markups returns every markup in paint order
func (c *Coordinator) Markups() []domain.Markup {
	return c.store.All()
}

// VisibleMarkups returns the renderable markups of a page in paint order
func (c *Coordinator) VisibleMarkups(page int) []domain.Markup {
	if c.doc == nil || page < 0 || page >= c.doc.PageCount() {
		return nil
	}
	return c.store.ForPage(page)
}

// StaleMarkups returns markups whose page is past the end of the document
func (c *Coordinator) StaleMarkups() []domain.Markup {
	if c.doc == nil {
		return nil
	}
	var out []domain.Markup
	for _, m := range c.store.All() {
		if m.Page >= c.doc.PageCount() {
			out = append(out, m)
		}
	}
	return out
}

// IsStale reports whether a markup cannot be shown in the open document
func (c *Coordinator) IsStale(m domain.Markup) bool {
	return c.doc != nil && m.Page >= c.doc.PageCount()
}

// UndoLast removes the most recent markup
func (c *Coordinator) UndoLast() (bool, error) {
	if c.doc == nil {
		return false, domain.ErrNoActiveDocument
	}
	if _, ok := c.store.RemoveLast(); !ok {
		return false, nil
	}
	c.dirty = true
	c.bus.Publish(eventbus.MarkupRemovedEvent{Count: 1})
	return true, nil
}

// ClearPage removes every markup of the current page
func (c *Coordinator) ClearPage() (int, error) {
	if c.doc == nil {
		return 0, domain.ErrNoActiveDocument
	}
	n := c.store.RemovePage(c.Navigation.CurrentPage())
	if n > 0 {
		c.dirty = true
		c.bus.Publish(eventbus.MarkupRemovedEvent{Count: n})
	}
	return n, nil
}

// SaveCopy copies the open document to dst. Markups are not embedded.
func (c *Coordinator) SaveCopy(dst string) error {
	if c.doc == nil {
		return domain.ErrNoActiveDocument
	}
	src := c.doc.Path()
	if sameFile(src, dst) {
		return errors.Errorf("%s is the open document", dst)
	}

	in, err := os.Open(src)
	if err != nil {
		return errors.Wrap(err, "failed to read document")
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return errors.Wrap(err, "failed to create destination directory")
	}
	out, err := os.Create(dst)
	if err != nil {
		return errors.Wrap(err, "failed to create copy")
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return errors.Wrap(err, "failed to copy document")
	}
	if err := out.Close(); err != nil {
		return errors.Wrap(err, "failed to finish copy")
	}
	log.Info().Str("from", src).Str("to", dst).Msg("document copied")
	return nil
}

func sameFile(a, b string) bool {
	sa, errA := os.Stat(a)
	sb, errB := os.Stat(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return os.SameFile(sa, sb)
}

// PreparePageTool validates op against the open document and returns a
// function that runs it. The function touches no session state, so it may
// run off the UI loop. Extract and split act on the open document.
func (c *Coordinator) PreparePageTool(op pagetool.Operation) (func(ctx context.Context) error, error) {
	if c.doc == nil {
		return nil, domain.ErrNoActiveDocument
	}
	if c.tools == nil {
		return nil, pagetool.ErrToolNotFound
	}
	switch op.Kind {
	case "extract", "split":
		if len(op.Inputs) == 0 {
			op.Inputs = []string{c.doc.Path()}
		}
	}
	if op.Kind == "extract" {
		if _, err := pagetool.ParseRanges(op.Ranges, c.doc.PageCount()); err != nil {
			return nil, err
		}
	}
	tools := c.tools
	return func(ctx context.Context) error {
		return tools.Run(ctx, op)
	}, nil
}

// RunPageTool runs an external page operation and blocks until it ends
func (c *Coordinator) RunPageTool(ctx context.Context, op pagetool.Operation) error {
	run, err := c.PreparePageTool(op)
	if err != nil {
		return err
	}
	return run(ctx)
}
