package views

import (
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"pdfmark/internal/coords"
	"pdfmark/internal/domain"
	"pdfmark/internal/logic"
)

// A terminal cell is one pixel wide and CellHeight pixels tall. Page
// text is sampled at cell centres.
const CellHeight = 2

// CellToPixel returns the viewport pixel at the centre of a cell
func CellToPixel(col, row int) domain.Point {
	return domain.Point{X: float64(col) + 0.5, Y: float64(row*CellHeight) + CellHeight/2.0}
}

// CellSpan returns the outer corners of the cell rectangle spanning a drag
// from one cell to another: anchor on the from cell, end on the to cell.
// A drag within one row covers the full row height.
func CellSpan(fromCol, fromRow, toCol, toRow int) (anchor, end domain.Point) {
	anchor.X, end.X = edges(fromCol, toCol, 1)
	anchor.Y, end.Y = edges(fromRow, toRow, CellHeight)
	return anchor, end
}

func edges(from, to, size int) (float64, float64) {
	if to >= from {
		return float64(from * size), float64((to + 1) * size)
	}
	return float64((from + 1) * size), float64(to * size)
}

// Paint is everything drawn on one cell besides its rune
type Paint struct {
	OnPage     bool
	Background domain.Color // zero alpha keeps the base background
	Foreground domain.Color
	Underline  bool
	Strike     bool
	Match      bool
	Current    bool
	Selection  bool
}

// Canvas is the cell grid of the page area
type Canvas struct {
	cols, rows int
	runes      []rune
	paint      []Paint
}

// NewCanvas creates a blank canvas
func NewCanvas(cols, rows int) *Canvas {
	cols = max(cols, 0)
	rows = max(rows, 0)
	c := &Canvas{
		cols:  cols,
		rows:  rows,
		runes: make([]rune, cols*rows),
		paint: make([]Paint, cols*rows),
	}
	for i := range c.runes {
		c.runes[i] = ' '
	}
	return c
}

// Size returns the canvas size in cells
func (c *Canvas) Size() (cols, rows int) {
	return c.cols, c.rows
}

// At returns the rune and paint of a cell
func (c *Canvas) At(col, row int) (rune, Paint) {
	if col < 0 || col >= c.cols || row < 0 || row >= c.rows {
		return ' ', Paint{}
	}
	i := row*c.cols + col
	return c.runes[i], c.paint[i]
}

// DrawPages marks every cell whose centre lies on a displayed page and
// fills it with the page text under it. lines may be nil.
func (c *Canvas) DrawPages(vp coords.ViewParams, lines logic.LineProvider) {
	cache := make(map[int][]domain.TextLine)
	for row := 0; row < c.rows; row++ {
		for col := 0; col < c.cols; col++ {
			page, pt, ok := coords.ViewportToPage(CellToPixel(col, row), vp)
			if !ok {
				continue
			}
			i := row*c.cols + col
			c.paint[i].OnPage = true
			c.paint[i].Background = Paper
			if lines == nil {
				continue
			}
			ls, seen := cache[page]
			if !seen {
				ls = lines.Lines(page)
				cache[page] = ls
			}
			if r, ok := glyphAt(ls, pt); ok {
				c.runes[i] = r
			}
		}
	}
}

// glyphAt finds the rune of the text line covering pt
func glyphAt(lines []domain.TextLine, pt domain.Point) (rune, bool) {
	for _, l := range lines {
		if pt.Y < l.Box.Y0 || pt.Y >= l.Box.Y1 {
			continue
		}
		text := []rune(l.Text)
		if len(l.Xs) != len(text)+1 || len(text) == 0 {
			continue
		}
		if pt.X < l.Xs[0] || pt.X >= l.Xs[len(text)] {
			continue
		}
		i := sort.Search(len(l.Xs), func(i int) bool { return l.Xs[i] > pt.X }) - 1
		if i < 0 || i >= len(text) {
			continue
		}
		r := text[i]
		if lipgloss.Width(string(r)) != 1 {
			return '?', true
		}
		return r, true
	}
	return 0, false
}

// Fill applies fn to every cell overlapping r, given in viewport pixels
func (c *Canvas) Fill(r domain.Rect, fn func(*Paint)) {
	if r.X1 <= r.X0 || r.Y1 <= r.Y0 {
		return
	}
	c0 := max(int(math.Floor(r.X0)), 0)
	c1 := min(int(math.Ceil(r.X1)), c.cols)
	r0 := max(int(math.Floor(r.Y0/CellHeight)), 0)
	r1 := min(int(math.Ceil(r.Y1/CellHeight)), c.rows)
	for row := r0; row < r1; row++ {
		for col := c0; col < c1; col++ {
			fn(&c.paint[row*c.cols+col])
		}
	}
}

// Render draws the canvas as one string per row
func (c *Canvas) Render(styles *Styles) []string {
	out := make([]string, c.rows)
	var b strings.Builder
	for row := 0; row < c.rows; row++ {
		b.Reset()
		start := 0
		for col := 1; col <= c.cols; col++ {
			i := row*c.cols + col
			if col < c.cols && c.paint[i] == c.paint[i-1] {
				continue
			}
			base := row * c.cols
			run := string(c.runes[base+start : base+col])
			b.WriteString(styles.cellStyle(c.paint[base+start]).Render(run))
			start = col
		}
		out[row] = b.String()
	}
	return out
}
