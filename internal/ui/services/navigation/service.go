package navigation

import (
	"math"

	"pdfmark/internal/coords"
	"pdfmark/internal/domain"
)

// Service handles page, zoom, rotation and scroll state and produces the
// ViewParams every pixel mapping uses
type Service struct {
	state *State
	opts  Options
}

// NewService creates a new navigation service
func NewService(opts Options) *Service {
	def := DefaultOptions()
	if opts.ZoomStep <= 1 {
		opts.ZoomStep = def.ZoomStep
	}
	if opts.MinZoom <= 0 {
		opts.MinZoom = def.MinZoom
	}
	if opts.MaxZoom < opts.MinZoom {
		opts.MaxZoom = math.Max(def.MaxZoom, opts.MinZoom)
	}
	return &Service{
		state: &State{Zoom: 1, Mode: opts.Mode, Width: 80, Height: 48},
		opts:  opts,
	}
}

// SetDocument installs the page sizes of a newly opened document and
// resets the view
func (s *Service) SetDocument(sizes []domain.Size) {
	s.state.PageSizes = append([]domain.Size(nil), sizes...)
	s.state.CurrentPage = 0
	s.state.Rotation = 0
	s.state.Scroll = domain.Point{}
	s.state.Mode = s.opts.Mode
	s.state.Zoom = 1
	s.applyMode()
}

// Clear forgets the document
func (s *Service) Clear() {
	s.SetDocument(nil)
}

// SetViewport updates the viewport size in pixels
func (s *Service) SetViewport(width, height float64) {
	s.state.Width = math.Max(width, 1)
	s.state.Height = math.Max(height, 1)
	s.applyMode()
	s.clampScroll()
}

// GetState returns a copy of the navigation state
func (s *Service) GetState() State {
	st := *s.state
	st.PageSizes = append([]domain.Size(nil), s.state.PageSizes...)
	return st
}

// PageCount returns the number of pages of the current document
func (s *Service) PageCount() int {
	return len(s.state.PageSizes)
}

// CurrentPage returns the 0-based current page
func (s *Service) CurrentPage() int {
	return s.state.CurrentPage
}

// Zoom returns the effective zoom relative to fit-width
func (s *Service) Zoom() float64 {
	return s.state.Zoom
}

// ViewParams snapshots the view for the coordinate mapper
func (s *Service) ViewParams() coords.ViewParams {
	return coords.ViewParams{
		Zoom:        s.state.Zoom,
		Rotation:    s.state.Rotation,
		BaseScale:   s.baseScale(),
		PageSizes:   s.state.PageSizes,
		Scroll:      s.state.Scroll,
		CurrentPage: s.state.CurrentPage,
		Layout:      s.opts.Layout,
		PageGap:     s.opts.PageGap,
		Margin:      s.opts.Margin,
	}
}

// NextPage moves to the following page, bounded by the last page
func (s *Service) NextPage() {
	s.GoToPage(s.state.CurrentPage + 1)
}

// PrevPage moves to the preceding page, bounded by the first page
func (s *Service) PrevPage() {
	s.GoToPage(s.state.CurrentPage - 1)
}

// FirstPage moves to page 0
func (s *Service) FirstPage() {
	s.GoToPage(0)
}

// LastPage moves to the final page
func (s *Service) LastPage() {
	s.GoToPage(len(s.state.PageSizes) - 1)
}

// GoToPage shows the top of a 0-based page, clamped to the document
func (s *Service) GoToPage(page int) {
	if len(s.state.PageSizes) == 0 {
		return
	}
	page = clamp(page, 0, len(s.state.PageSizes)-1)
	s.Jump(page, domain.Point{})
}

// Jump scrolls so the page-space point is near the top of the viewport.
// It takes effect immediately.
func (s *Service) Jump(page int, at domain.Point) {
	if page < 0 || page >= len(s.state.PageSizes) {
		return
	}
	s.state.CurrentPage = page
	s.applyMode()

	vp := s.ViewParams()
	vp.Scroll = domain.Point{}
	px, ok := coords.PageToViewport(page, at, vp)
	if !ok {
		return
	}
	bounds, _ := coords.PageBounds(page, vp)

	// keep a little context above a match
	y := px.Y - s.state.Height/4
	if at == (domain.Point{}) {
		y = bounds.Y0 - s.opts.Margin
	}
	x := 0.0
	if px.X > s.state.Width {
		x = px.X - s.state.Width/2
	}
	s.state.Scroll = domain.Point{X: x, Y: y}
	s.clampScroll()
}

// ZoomIn multiplies the zoom by the configured step
func (s *Service) ZoomIn() {
	s.setZoom(s.state.Zoom * s.opts.ZoomStep)
}

// ZoomOut divides the zoom by the configured step
func (s *Service) ZoomOut() {
	s.setZoom(s.state.Zoom / s.opts.ZoomStep)
}

// SetZoom sets an explicit zoom and leaves fit mode
func (s *Service) SetZoom(z float64) {
	s.setZoom(z)
}

// FitWidth scales the current page to the viewport width
func (s *Service) FitWidth() {
	s.state.Mode = ZoomFitWidth
	s.applyMode()
	s.clampScroll()
}

// FitPage scales the current page to fit entirely
func (s *Service) FitPage() {
	s.state.Mode = ZoomFitPage
	s.applyMode()
	s.clampScroll()
}

// RotateRight turns the view 90 degrees clockwise
func (s *Service) RotateRight() {
	s.rotate(90)
}

// RotateLeft turns the view 90 degrees counter-clockwise
func (s *Service) RotateLeft() {
	s.rotate(-90)
}

// ScrollBy moves the view by a pixel delta
func (s *Service) ScrollBy(dx, dy float64) {
	s.state.Scroll.X += dx
	s.state.Scroll.Y += dy
	s.clampScroll()
	s.followScroll()
}

// Scroll moves the view one step in a direction
func (s *Service) Scroll(dir Direction, step float64) {
	switch dir {
	case DirectionUp:
		s.ScrollBy(0, -step)
	case DirectionDown:
		s.ScrollBy(0, step)
	case DirectionLeft:
		s.ScrollBy(-step, 0)
	case DirectionRight:
		s.ScrollBy(step, 0)
	}
}

// Internal methods
func (s *Service) setZoom(z float64) {
	s.state.Mode = ZoomCustom
	s.state.Zoom = clampf(z, s.opts.MinZoom, s.opts.MaxZoom)
	s.clampScroll()
}

func (s *Service) rotate(delta int) {
	s.state.Rotation = coords.NormalizeRotation(s.state.Rotation + delta)
	s.applyMode()
	s.clampScroll()
}

// baseScale is the fit-width scale of the current page. Continuous layout
// fits the widest page so scrolling across pages never changes the scale.
func (s *Service) baseScale() float64 {
	w, _, ok := s.rotatedCurrent()
	if s.opts.Layout == coords.LayoutContinuous {
		w, ok = s.widestPage()
	}
	if !ok || w <= 0 {
		return 1
	}
	avail := s.state.Width - 2*s.opts.Margin
	if avail <= 0 {
		return 1
	}
	return avail / w
}

func (s *Service) rotatedCurrent() (w, h float64, ok bool) {
	if s.state.CurrentPage < 0 || s.state.CurrentPage >= len(s.state.PageSizes) {
		return 0, 0, false
	}
	sz := s.state.PageSizes[s.state.CurrentPage]
	if coords.NormalizeRotation(s.state.Rotation)%180 != 0 {
		return sz.H, sz.W, true
	}
	return sz.W, sz.H, true
}

func (s *Service) widestPage() (float64, bool) {
	quarter := coords.NormalizeRotation(s.state.Rotation)%180 != 0
	widest := 0.0
	for _, sz := range s.state.PageSizes {
		w := sz.W
		if quarter {
			w = sz.H
		}
		widest = math.Max(widest, w)
	}
	return widest, len(s.state.PageSizes) > 0
}

// applyMode recomputes the zoom for the fit modes
func (s *Service) applyMode() {
	switch s.state.Mode {
	case ZoomFitWidth:
		s.state.Zoom = 1
	case ZoomFitPage:
		w, h, ok := s.rotatedCurrent()
		if !ok || w <= 0 || h <= 0 {
			s.state.Zoom = 1
			return
		}
		fitW := s.baseScale()
		fitH := (s.state.Height - 2*s.opts.Margin) / h
		if fitH <= 0 {
			s.state.Zoom = 1
			return
		}
		s.state.Zoom = math.Min(fitW, fitH) / fitW
	}
}

func (s *Service) clampScroll() {
	w, h := coords.ContentSize(s.ViewParams())
	s.state.Scroll.X = clampf(s.state.Scroll.X, 0, math.Max(0, w-s.state.Width))
	s.state.Scroll.Y = clampf(s.state.Scroll.Y, 0, math.Max(0, h-s.state.Height))
}

// followScroll keeps CurrentPage on the page under the top third of the
// viewport in continuous layout
func (s *Service) followScroll() {
	if s.opts.Layout != coords.LayoutContinuous {
		return
	}
	vp := s.ViewParams()
	mark := s.state.Height / 3
	for i := range s.state.PageSizes {
		b, _ := coords.PageBounds(i, vp)
		if b.Y0 > mark {
			break
		}
		s.state.CurrentPage = i
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampf(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
