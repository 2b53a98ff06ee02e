package logic

import "pdfmark/internal/domain"

// MarkupStore is the ordered markup collection of the open document.
// Insertion order is paint order.
type MarkupStore interface {
	Append(markup domain.Markup)
	All() []domain.Markup
	Clear()
	Len() int
	ForPage(page int) []domain.Markup
	RemoveLast() (domain.Markup, bool)
	RemovePage(page int) int
}

// Document provides page geometry of an open PDF
type Document interface {
	Path() string
	PageCount() int
	PageSize(page int) domain.Size
}

// TextSearcher returns every match of query in document order
type TextSearcher interface {
	Find(query string) []domain.MatchLocation
}

// LineProvider returns the extracted text lines of a page
type LineProvider interface {
	Lines(page int) []domain.TextLine
}

// Viewer navigates the display to a page-space location without animation
type Viewer interface {
	Jump(page int, at domain.Point)
}

// Source is everything the session needs from an opened document
type Source interface {
	Document
	TextSearcher
	LineProvider
	Close() error
}

// Opener opens documents by path
type Opener interface {
	Open(path string) (Source, error)
}
