package pdfdoc

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"pdfmark/internal/domain"
)

// Fold normalizes text for matching: compatibility composition (so
// ligatures and full-width forms compare equal to their plain letters)
// followed by Unicode case folding
func Fold(s string) string {
	return cases.Fold().String(norm.NFKC.String(s))
}

// foldedLine is a line's folded text with a map from folded byte offsets
// back to rune indexes of the original text
type foldedLine struct {
	text   string
	runeAt []int
}

func foldLine(text string) foldedLine {
	var sb strings.Builder
	runeAt := make([]int, 0, len(text))
	i := 0
	for _, r := range text {
		f := Fold(string(r))
		sb.WriteString(f)
		for range len(f) {
			runeAt = append(runeAt, i)
		}
		i++
	}
	return foldedLine{text: sb.String(), runeAt: runeAt}
}

// FindInLines returns every occurrence of query in the lines of one page,
// in reading order. Matches do not span lines. Overlapping occurrences are
// all reported.
func FindInLines(page int, lines []domain.TextLine, query string) []domain.MatchLocation {
	q := Fold(query)
	if q == "" {
		return nil
	}

	var out []domain.MatchLocation
	for _, line := range lines {
		fl := foldLine(line.Text)
		for from := 0; from < len(fl.text); {
			idx := strings.Index(fl.text[from:], q)
			if idx < 0 {
				break
			}
			start := from + idx
			end := start + len(q)

			box := matchBox(line, fl.runeAt[start], fl.runeAt[end-1]+1)
			out = append(out, domain.MatchLocation{
				Page:  page,
				Point: domain.Point{X: box.X0, Y: box.Y0},
				Box:   box,
			})

			_, size := utf8.DecodeRuneInString(fl.text[start:])
			from = start + size
		}
	}
	return out
}

// matchBox is the part of the line box covering runes [from, to)
func matchBox(line domain.TextLine, from, to int) domain.Rect {
	box := line.Box
	if from < len(line.Xs) {
		box.X0 = line.Xs[from]
	}
	if to < len(line.Xs) {
		box.X1 = line.Xs[to]
	}
	if box.X1 < box.X0 {
		box.X0, box.X1 = box.X1, box.X0
	}
	return box
}
