package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Point is a 2D coordinate. Depending on context it is either a page-space
// point (PDF points, origin at the page's top-left) or a viewport pixel.
type Point struct {
	X float64
	Y float64
}

// Size is a width/height pair in page points
type Size struct {
	W float64
	H float64
}

// Rect is an axis-aligned rectangle. X0/Y0 is the top-left corner.
type Rect struct {
	X0 float64
	Y0 float64
	X1 float64
	Y1 float64
}

// NewRect builds a normalized rectangle from two opposite corners
func NewRect(a, b Point) Rect {
	return Rect{
		X0: math.Min(a.X, b.X),
		Y0: math.Min(a.Y, b.Y),
		X1: math.Max(a.X, b.X),
		Y1: math.Max(a.Y, b.Y),
	}
}

func (r Rect) Width() float64  { return r.X1 - r.X0 }
func (r Rect) Height() float64 { return r.Y1 - r.Y0 }

// Contains reports whether p lies inside r, edges included
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X0 && p.X <= r.X1 && p.Y >= r.Y0 && p.Y <= r.Y1
}

// Intersect returns the overlap of r and o. ok is false when they share no area.
func (r Rect) Intersect(o Rect) (Rect, bool) {
	out := Rect{
		X0: math.Max(r.X0, o.X0),
		Y0: math.Max(r.Y0, o.Y0),
		X1: math.Min(r.X1, o.X1),
		Y1: math.Min(r.Y1, o.Y1),
	}
	if out.X1 <= out.X0 || out.Y1 <= out.Y0 {
		return Rect{}, false
	}
	return out, true
}

func (r Rect) String() string {
	return fmt.Sprintf("(%g,%g,%g,%g)", r.X0, r.Y0, r.X1, r.Y1)
}

// MarkupKind is the closed set of markup styles
type MarkupKind int

const (
	KindHighlight MarkupKind = iota
	KindUnderline
	KindStrikeOut
)

// Kinds lists every markup kind in display order
func Kinds() []MarkupKind {
	return []MarkupKind{KindHighlight, KindUnderline, KindStrikeOut}
}

// String returns the tag used in sidecar files
func (k MarkupKind) String() string {
	switch k {
	case KindHighlight:
		return "Highlight"
	case KindUnderline:
		return "Underline"
	case KindStrikeOut:
		return "StrikeOut"
	default:
		return fmt.Sprintf("MarkupKind(%d)", int(k))
	}
}

// Valid reports whether k is one of the known kinds
func (k MarkupKind) Valid() bool {
	return k >= KindHighlight && k <= KindStrikeOut
}

// ParseMarkupKind accepts sidecar tags and the short names used in config files
func ParseMarkupKind(s string) (MarkupKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "highlight":
		return KindHighlight, true
	case "underline":
		return KindUnderline, true
	case "strikeout", "strike":
		return KindStrikeOut, true
	}
	return 0, false
}

// PaintRect returns the part of quad q that the kind paints. Highlight covers
// the whole quad, Underline a band along the bottom edge and StrikeOut a band
// through the vertical middle.
func (k MarkupKind) PaintRect(q Rect) Rect {
	band := math.Max(q.Height()/8, 1)
	if band > q.Height() {
		band = q.Height()
	}
	switch k {
	case KindUnderline:
		return Rect{X0: q.X0, Y0: q.Y1 - band, X1: q.X1, Y1: q.Y1}
	case KindStrikeOut:
		mid := (q.Y0 + q.Y1) / 2
		return Rect{X0: q.X0, Y0: mid - band/2, X1: q.X1, Y1: mid + band/2}
	default:
		return q
	}
}

// Color is an 8-bit RGBA colour; A is the translucency of the paint
type Color struct {
	R uint8
	G uint8
	B uint8
	A uint8
}

// DefaultColor is semi-transparent yellow
var DefaultColor = Color{R: 255, G: 255, B: 0, A: 128}

// Over blends c over an opaque background and returns the opaque result
func (c Color) Over(bg Color) Color {
	a := float64(c.A) / 255
	mix := func(fg, bg uint8) uint8 {
		return uint8(math.Round(a*float64(fg) + (1-a)*float64(bg)))
	}
	return Color{R: mix(c.R, bg.R), G: mix(c.G, bg.G), B: mix(c.B, bg.B), A: 255}
}

// Hex returns the colour as #rrggbb, ignoring alpha
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// HexRGBA returns the colour as #rrggbbaa
func (c Color) HexRGBA() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// ParseColor reads #rrggbb or #rrggbbaa. Alpha defaults to opaque.
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return Color{}, errors.Errorf("color %q: want #rrggbb or #rrggbbaa", s)
	}
	var ch [4]uint8
	ch[3] = 255
	for i := 0; i < len(hex)/2; i++ {
		v, err := strconv.ParseUint(hex[2*i:2*i+2], 16, 8)
		if err != nil {
			return Color{}, errors.Wrapf(err, "color %q", s)
		}
		ch[i] = uint8(v)
	}
	return Color{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, nil
}

// Markup is a user-created highlight, underline or strikeout bound to a page
type Markup struct {
	Page  int
	Quads []Rect
	Kind  MarkupKind
	Color Color
}

// Bounds returns the union of all quads
func (m Markup) Bounds() Rect {
	if len(m.Quads) == 0 {
		return Rect{}
	}
	b := m.Quads[0]
	for _, q := range m.Quads[1:] {
		b.X0 = math.Min(b.X0, q.X0)
		b.Y0 = math.Min(b.Y0, q.Y0)
		b.X1 = math.Max(b.X1, q.X1)
		b.Y1 = math.Max(b.Y1, q.Y1)
	}
	return b
}

// MatchLocation is one search hit. Point is the top-left of the match in page
// space and is usable as a jump target.
type MatchLocation struct {
	Page  int
	Point Point
	Box   Rect // extent of the matched text, zero when unknown
}

// TextLine is a line of extracted page text with its bounding box in page
// space. Xs holds the left edge of every rune of Text followed by the
// right edge of the line.
type TextLine struct {
	Text string
	Box  Rect
	Xs   []float64
}
