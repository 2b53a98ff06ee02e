package pdfdoc

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"pdfmark/internal/domain"
)

// Glyph is one positioned text run as extracted from a page content
// stream. Y is the baseline in PDF user space (origin bottom-left).
type Glyph struct {
	X, Y     float64
	W        float64
	FontSize float64
	S        string
}

const (
	ascent  = 0.8 // of the font size, above the baseline
	descent = 0.2 // below the baseline
)

// GroupLines assembles glyphs into text lines in reading order, converting
// to top-left page space for a page of the given height
func GroupLines(glyphs []Glyph, pageHeight float64) []domain.TextLine {
	gs := make([]Glyph, 0, len(glyphs))
	for _, g := range glyphs {
		if g.S == "" {
			continue
		}
		if g.FontSize <= 0 {
			g.FontSize = 1
		}
		gs = append(gs, g)
	}
	if len(gs) == 0 {
		return nil
	}

	// top of the page first, then left to right
	sort.SliceStable(gs, func(i, j int) bool {
		if math.Abs(gs[i].Y-gs[j].Y) > 0.01 {
			return gs[i].Y > gs[j].Y
		}
		return gs[i].X < gs[j].X
	})

	var rows [][]Glyph
	var rowY, rowSize float64
	for _, g := range gs {
		if len(rows) > 0 && math.Abs(g.Y-rowY) <= math.Max(rowSize, g.FontSize)*0.5 {
			rows[len(rows)-1] = append(rows[len(rows)-1], g)
			rowSize = math.Max(rowSize, g.FontSize)
			continue
		}
		rows = append(rows, []Glyph{g})
		rowY, rowSize = g.Y, g.FontSize
	}

	lines := make([]domain.TextLine, 0, len(rows))
	for _, row := range rows {
		if line, ok := buildLine(row, pageHeight); ok {
			lines = append(lines, line)
		}
	}
	return lines
}

func buildLine(row []Glyph, pageHeight float64) (domain.TextLine, bool) {
	sort.SliceStable(row, func(i, j int) bool { return row[i].X < row[j].X })

	var sb strings.Builder
	var xs []float64
	var baseline, size float64
	x0, x1 := math.Inf(1), math.Inf(-1)
	prevEnd := math.Inf(-1)
	prevSpace := true

	for _, g := range row {
		baseline = math.Max(baseline, g.Y)
		size = math.Max(size, g.FontSize)

		// word gaps are often not encoded as space glyphs
		if !prevSpace && g.X-prevEnd > g.FontSize*0.2 && !strings.HasPrefix(g.S, " ") {
			sb.WriteByte(' ')
			xs = append(xs, prevEnd)
		}

		n := utf8.RuneCountInString(g.S)
		step := g.W / float64(n)
		for i := 0; i < n; i++ {
			xs = append(xs, g.X+step*float64(i))
		}
		sb.WriteString(g.S)

		x0 = math.Min(x0, g.X)
		x1 = math.Max(x1, g.X+g.W)
		prevEnd = g.X + g.W
		prevSpace = strings.HasSuffix(g.S, " ")
	}

	text := sb.String()
	if strings.TrimSpace(text) == "" {
		return domain.TextLine{}, false
	}
	xs = append(xs, x1)

	top := pageHeight - baseline
	return domain.TextLine{
		Text: text,
		Box: domain.Rect{
			X0: x0,
			Y0: top - size*ascent,
			X1: x1,
			Y1: top + size*descent,
		},
		Xs: xs,
	}, true
}
