package views

import (
	"pdfmark/internal/coords"
	"pdfmark/internal/domain"
)

// PaintMarkups paints markups in store order, so later ones land on top.
// Highlights tint the whole quad; underline and strike-out only touch the
// band their kind paints.
func (c *Canvas) PaintMarkups(markups []domain.Markup, vp coords.ViewParams) {
	for _, m := range markups {
		ink := m.Color
		ink.A = 255
		for _, q := range m.Quads {
			r, ok := coords.PageRectToViewport(m.Page, m.Kind.PaintRect(q), vp)
			if !ok {
				continue
			}
			switch m.Kind {
			case domain.KindUnderline:
				c.Fill(r, func(p *Paint) {
					p.Underline = true
					p.Foreground = ink
				})
			case domain.KindStrikeOut:
				c.Fill(r, func(p *Paint) {
					p.Strike = true
					p.Foreground = ink
				})
			default:
				c.Fill(r, func(p *Paint) {
					bg := p.Background
					if bg.A == 0 {
						bg = Paper
					}
					p.Background = m.Color.Over(bg)
				})
			}
		}
	}
}

// PaintSearch marks every match box; current indexes results and is
// painted distinctly, -1 for none
func (c *Canvas) PaintSearch(results []domain.MatchLocation, current int, vp coords.ViewParams) {
	for i, res := range results {
		r, ok := coords.PageRectToViewport(res.Page, res.Box, vp)
		if !ok {
			continue
		}
		isCurrent := i == current
		c.Fill(r, func(p *Paint) {
			p.Match = true
			if isCurrent {
				p.Current = true
			}
		})
	}
}

// PaintSelection draws the rubber band of an annotation drag
func (c *Canvas) PaintSelection(page int, sel domain.Rect, vp coords.ViewParams) {
	r, ok := coords.PageRectToViewport(page, sel, vp)
	if !ok {
		return
	}
	c.Fill(r, func(p *Paint) { p.Selection = true })
}
