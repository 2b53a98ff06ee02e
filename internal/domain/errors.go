package domain

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrNoActiveDocument is returned by document-scoped actions when nothing is open
var ErrNoActiveDocument = errors.New("no document is open")

// ErrUnsavedMarkups is returned when switching documents would drop markups
// that were never saved
var ErrUnsavedMarkups = errors.New("unsaved markups")

// StaleError reports markups whose page index is past the end of the open
// document. The markups are kept in the store and skipped when rendering.
type StaleError struct {
	Count     int   // number of stale markups
	Pages     []int // distinct stale page indexes, ascending
	PageCount int
}

func (e *StaleError) Error() string {
	pages := make([]string, len(e.Pages))
	for i, p := range e.Pages {
		pages[i] = fmt.Sprint(p + 1)
	}
	return fmt.Sprintf("%d markup(s) reference pages beyond the document's %d pages: %s",
		e.Count, e.PageCount, strings.Join(pages, ", "))
}
