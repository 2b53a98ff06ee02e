package annotation

import (
	"github.com/rs/zerolog/log"

	"pdfmark/internal/coords"
	"pdfmark/internal/domain"
	"pdfmark/internal/eventbus"
	"pdfmark/internal/logic"
)

// Service runs the drag-to-annotate state machine and commits finished
// selections to the markup store
type Service struct {
	state  *State
	bus    eventbus.EventBus
	store  logic.MarkupStore
	opts   Options
	viewFn func() coords.ViewParams // current view for pixel mapping
	lines  logic.LineProvider       // text lines for snapping, may be nil
}

// NewService creates an idle annotation service
func NewService(bus eventbus.EventBus, store logic.MarkupStore, opts Options) *Service {
	if opts.MinSize <= 0 {
		opts.MinSize = DefaultMinSize
	}
	return &Service{
		state: &State{Page: -1},
		bus:   bus,
		store: store,
		opts:  opts,
	}
}

// SetViewFunction sets the function returning the current view parameters
func (s *Service) SetViewFunction(fn func() coords.ViewParams) {
	s.viewFn = fn
}

// SetLineProvider sets the text line source used for snapping
func (s *Service) SetLineProvider(lp logic.LineProvider) {
	s.lines = lp
}

// SetSnapToText toggles splitting selections along text lines
func (s *Service) SetSnapToText(on bool) {
	s.opts.SnapToText = on
}

// SetColor overrides the colour used for one kind
func (s *Service) SetColor(kind domain.MarkupKind, c domain.Color) {
	if s.opts.Colors == nil {
		s.opts.Colors = make(map[domain.MarkupKind]domain.Color)
	}
	s.opts.Colors[kind] = c
}

// State returns a copy of the gesture state
func (s *Service) State() State {
	return *s.state
}

// IsDragging reports whether an annotate gesture is in progress
func (s *Service) IsDragging() bool {
	return s.state.Phase == PhaseDragging
}

// StartAnnotate arms a new drag of the given kind. A drag already in
// progress is discarded.
func (s *Service) StartAnnotate(kind domain.MarkupKind) {
	if s.state.Phase == PhaseDragging {
		s.discard(ReasonRestarted)
	}
	*s.state = State{Phase: PhaseDragging, Kind: kind, Page: -1}
}

// PointerDown binds the drag to the page under the pixel. Returns false
// when nothing changed.
func (s *Service) PointerDown(px domain.Point) bool {
	if s.state.Phase != PhaseDragging || s.viewFn == nil {
		return false
	}
	page, pt, ok := coords.ViewportToPage(px, s.viewFn())
	if !ok {
		return false
	}
	s.state.Page = page
	s.state.Start = pt
	s.state.End = pt
	return true
}

// Anchor moves the drag start within the bound page. Pixels over other
// pages or outside every page are ignored.
func (s *Service) Anchor(px domain.Point) bool {
	if !s.state.Bound() || s.viewFn == nil {
		return false
	}
	page, pt, ok := coords.ViewportToPage(px, s.viewFn())
	if !ok || page != s.state.Page {
		return false
	}
	s.state.Start = pt
	return true
}

// PointerMove updates the drag end. Pixels over other pages or outside
// every page are ignored.
func (s *Service) PointerMove(px domain.Point) bool {
	if !s.state.Bound() || s.viewFn == nil {
		return false
	}
	page, pt, ok := coords.ViewportToPage(px, s.viewFn())
	if !ok || page != s.state.Page {
		return false
	}
	s.state.End = pt
	return true
}

// PointerUp finishes the gesture. The committed markup is returned with
// true; degenerate and unbound drags return false. The service is idle
// afterwards in every case.
func (s *Service) PointerUp() (domain.Markup, bool) {
	if s.state.Phase != PhaseDragging {
		return domain.Markup{}, false
	}
	if !s.state.Bound() {
		s.discard(ReasonUnbound)
		return domain.Markup{}, false
	}

	quads := s.quads()
	if len(quads) == 0 {
		s.discard(ReasonDegenerate)
		return domain.Markup{}, false
	}

	markup := domain.Markup{
		Page:  s.state.Page,
		Quads: quads,
		Kind:  s.state.Kind,
		Color: s.opts.colorFor(s.state.Kind),
	}
	s.store.Append(markup)
	s.reset()

	log.Debug().
		Int("page", markup.Page).
		Str("kind", markup.Kind.String()).
		Int("quads", len(markup.Quads)).
		Msg("markup committed")

	s.bus.Publish(eventbus.MarkupCommittedEvent{Markup: markup, Index: s.store.Len() - 1})
	return markup, true
}

// Cancel abandons the gesture without touching the store
func (s *Service) Cancel() {
	if s.state.Phase != PhaseDragging {
		return
	}
	s.discard(ReasonCancelled)
}

// Reset drops any gesture silently, used when a document is closed
func (s *Service) Reset() {
	s.reset()
}

// SelectionRect is the normalized rectangle of the bound drag
func (s *Service) SelectionRect() (int, domain.Rect, bool) {
	if !s.state.Bound() {
		return -1, domain.Rect{}, false
	}
	return s.state.Page, domain.NewRect(s.state.Start, s.state.End), true
}

func (s *Service) degenerate(r domain.Rect) bool {
	return r.Width() < s.opts.MinSize || r.Height() < s.opts.MinSize
}

// quads turns the drag into the markup's rectangles, or nil when the
// selection is too small
func (s *Service) quads() []domain.Rect {
	sel := domain.NewRect(s.state.Start, s.state.End)
	if s.degenerate(sel) {
		return nil
	}
	if s.opts.SnapToText && s.lines != nil {
		if snapped := snapToLines(sel, s.lines.Lines(s.state.Page), s.opts.MinSize); len(snapped) > 0 {
			return snapped
		}
	}
	return []domain.Rect{sel}
}

// snapToLines returns one quad per text line crossing sel, clipped to the
// horizontal extent of sel and spanning the full line height
func snapToLines(sel domain.Rect, lines []domain.TextLine, minSize float64) []domain.Rect {
	var quads []domain.Rect
	for _, line := range lines {
		b := line.Box
		if b.Y1 <= sel.Y0 || b.Y0 >= sel.Y1 {
			continue
		}
		q := domain.Rect{
			X0: max(b.X0, sel.X0),
			Y0: b.Y0,
			X1: min(b.X1, sel.X1),
			Y1: b.Y1,
		}
		if q.Width() < minSize || q.Height() <= 0 {
			continue
		}
		quads = append(quads, q)
	}
	return quads
}

func (s *Service) discard(reason string) {
	kind := s.state.Kind
	s.reset()
	s.bus.Publish(eventbus.SelectionDiscardedEvent{Kind: kind, Reason: reason})
}

func (s *Service) reset() {
	*s.state = State{Phase: PhaseIdle, Page: -1}
}
