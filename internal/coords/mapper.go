// Package coords converts between viewport pixels and page-space points.
//
// Page space is fixed to a page's content: origin at the top-left of the
// unrotated page, units are PDF points. The forward transform for a page is
//
//	rotate (90-degree steps around the page centre, top-left re-anchored)
//	-> scale by Zoom*BaseScale from the top-left of the fitted page
//	-> translate to the page's origin in the layout
//	-> subtract the scroll offset
//
// and ViewportToPage is its exact inverse. Everything here is a pure function
// of its inputs.
package coords

import (
	"math"

	"pdfmark/internal/domain"
)

// Layout selects how pages are arranged on the rendering surface
type Layout int

const (
	// LayoutSinglePage displays only ViewParams.CurrentPage
	LayoutSinglePage Layout = iota
	// LayoutContinuous stacks all pages vertically separated by PageGap
	LayoutContinuous
)

// ViewParams is a snapshot of everything the viewer knows about the current view
type ViewParams struct {
	Zoom        float64       // user zoom factor, 1 = fitted
	Rotation    int           // degrees clockwise, one of 0/90/180/270
	BaseScale   float64       // pixels per point at zoom 1
	PageSizes   []domain.Size // unrotated page sizes in points
	Scroll      domain.Point  // scroll offset in pixels
	CurrentPage int
	Layout      Layout
	PageGap     float64 // pixels between pages in continuous layout
	Margin      float64 // pixels around the layout
}

// NormalizeRotation folds any multiple of 90 into 0/90/180/270. Other angles
// are rounded to the nearest quarter turn.
func NormalizeRotation(deg int) int {
	q := int(math.Round(float64(deg) / 90))
	q %= 4
	if q < 0 {
		q += 4
	}
	return q * 90
}

func (vp ViewParams) scale() float64 {
	s := vp.Zoom * vp.BaseScale
	if s <= 0 || math.IsNaN(s) || math.IsInf(s, 0) {
		return 1
	}
	return s
}

func (vp ViewParams) validPage(page int) bool {
	return page >= 0 && page < len(vp.PageSizes)
}

// rotatedSize is the page size in points after rotation
func (vp ViewParams) rotatedSize(page int) domain.Size {
	sz := vp.PageSizes[page]
	switch NormalizeRotation(vp.Rotation) {
	case 90, 270:
		return domain.Size{W: sz.H, H: sz.W}
	default:
		return sz
	}
}

// DisplaySize is the on-screen size of a page in pixels
func (vp ViewParams) DisplaySize(page int) (w, h float64) {
	if !vp.validPage(page) {
		return 0, 0
	}
	rs := vp.rotatedSize(page)
	s := vp.scale()
	return rs.W * s, rs.H * s
}

// origin returns the unscrolled top-left pixel of a displayed page
func (vp ViewParams) origin(page int) (domain.Point, bool) {
	if !vp.validPage(page) {
		return domain.Point{}, false
	}
	switch vp.Layout {
	case LayoutContinuous:
		y := vp.Margin
		for i := 0; i < page; i++ {
			_, h := vp.DisplaySize(i)
			y += h + vp.PageGap
		}
		return domain.Point{X: vp.Margin, Y: y}, true
	default:
		if page != vp.CurrentPage {
			return domain.Point{}, false
		}
		return domain.Point{X: vp.Margin, Y: vp.Margin}, true
	}
}

// PageBounds returns the displayed rectangle of a page in viewport pixels.
// ok is false when the page is not part of the current layout.
func PageBounds(page int, vp ViewParams) (domain.Rect, bool) {
	o, ok := vp.origin(page)
	if !ok {
		return domain.Rect{}, false
	}
	w, h := vp.DisplaySize(page)
	x0 := o.X - vp.Scroll.X
	y0 := o.Y - vp.Scroll.Y
	return domain.Rect{X0: x0, Y0: y0, X1: x0 + w, Y1: y0 + h}, true
}

// ContentSize is the size of the whole layout in pixels, margins included
func ContentSize(vp ViewParams) (w, h float64) {
	first, last := 0, len(vp.PageSizes)-1
	if vp.Layout == LayoutSinglePage {
		first, last = vp.CurrentPage, vp.CurrentPage
	}
	if !vp.validPage(first) || !vp.validPage(last) {
		return 0, 0
	}
	for i := first; i <= last; i++ {
		pw, ph := vp.DisplaySize(i)
		w = math.Max(w, pw)
		h += ph
		if i < last {
			h += vp.PageGap
		}
	}
	return w + 2*vp.Margin, h + 2*vp.Margin
}

// rotate maps an unrotated page point to the rotated page frame
func rotate(p domain.Point, sz domain.Size, rotation int) domain.Point {
	switch NormalizeRotation(rotation) {
	case 90:
		return domain.Point{X: sz.H - p.Y, Y: p.X}
	case 180:
		return domain.Point{X: sz.W - p.X, Y: sz.H - p.Y}
	case 270:
		return domain.Point{X: p.Y, Y: sz.W - p.X}
	default:
		return p
	}
}

// unrotate is the inverse of rotate
func unrotate(p domain.Point, sz domain.Size, rotation int) domain.Point {
	switch NormalizeRotation(rotation) {
	case 90:
		return domain.Point{X: p.Y, Y: sz.H - p.X}
	case 180:
		return domain.Point{X: sz.W - p.X, Y: sz.H - p.Y}
	case 270:
		return domain.Point{X: sz.W - p.Y, Y: p.X}
	default:
		return p
	}
}

// PageToViewport maps a page-space point to a viewport pixel. ok is false
// when the page is not displayed.
func PageToViewport(page int, p domain.Point, vp ViewParams) (domain.Point, bool) {
	o, ok := vp.origin(page)
	if !ok {
		return domain.Point{}, false
	}
	r := rotate(p, vp.PageSizes[page], vp.Rotation)
	s := vp.scale()
	return domain.Point{
		X: o.X + r.X*s - vp.Scroll.X,
		Y: o.Y + r.Y*s - vp.Scroll.Y,
	}, true
}

// ViewportToPage maps a viewport pixel to the page under it and the
// corresponding page-space point. ok is false when the pixel is outside
// every displayed page.
func ViewportToPage(px domain.Point, vp ViewParams) (int, domain.Point, bool) {
	page, ok := pageAt(px, vp)
	if !ok {
		return -1, domain.Point{}, false
	}
	o, _ := vp.origin(page)
	s := vp.scale()
	local := domain.Point{
		X: (px.X + vp.Scroll.X - o.X) / s,
		Y: (px.Y + vp.Scroll.Y - o.Y) / s,
	}
	return page, unrotate(local, vp.PageSizes[page], vp.Rotation), true
}

func pageAt(px domain.Point, vp ViewParams) (int, bool) {
	if vp.Layout == LayoutSinglePage {
		if b, ok := PageBounds(vp.CurrentPage, vp); ok && b.Contains(px) {
			return vp.CurrentPage, true
		}
		return -1, false
	}
	for i := range vp.PageSizes {
		b, _ := PageBounds(i, vp)
		if b.Y0 > px.Y {
			break
		}
		if b.Contains(px) {
			return i, true
		}
	}
	return -1, false
}

// PageRectToViewport maps a page-space rectangle to the axis-aligned
// viewport rectangle covering it
func PageRectToViewport(page int, r domain.Rect, vp ViewParams) (domain.Rect, bool) {
	a, ok := PageToViewport(page, domain.Point{X: r.X0, Y: r.Y0}, vp)
	if !ok {
		return domain.Rect{}, false
	}
	b, _ := PageToViewport(page, domain.Point{X: r.X1, Y: r.Y1}, vp)
	// 90-degree steps keep rectangles axis-aligned, so two opposite
	// corners are enough.
	return domain.NewRect(a, b), true
}
