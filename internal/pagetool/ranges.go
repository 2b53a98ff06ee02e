package pagetool

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ParseRanges validates a page range list such as "1-3,5,9-9" and returns
// its comma-separated items. Pages are 1-based. A positive pageCount also
// bounds the pages.
func ParseRanges(ranges string, pageCount int) ([]string, error) {
	ranges = strings.ReplaceAll(ranges, " ", "")
	if ranges == "" {
		return nil, errors.New("empty page range")
	}

	var items []string
	for _, item := range strings.Split(ranges, ",") {
		lo, hi, err := parseItem(item)
		if err != nil {
			return nil, errors.Wrapf(err, "page range %q", ranges)
		}
		if pageCount > 0 && hi > pageCount {
			return nil, errors.Errorf("page range %q: page %d is past the last page %d", ranges, hi, pageCount)
		}
		if lo == hi {
			items = append(items, strconv.Itoa(lo))
		} else {
			items = append(items, strconv.Itoa(lo)+"-"+strconv.Itoa(hi))
		}
	}
	return items, nil
}

func parseItem(item string) (lo, hi int, err error) {
	if item == "" {
		return 0, 0, errors.New("empty item")
	}
	from, to, isSpan := strings.Cut(item, "-")
	lo, err = parsePage(from)
	if err != nil {
		return 0, 0, err
	}
	hi = lo
	if isSpan {
		hi, err = parsePage(to)
		if err != nil {
			return 0, 0, err
		}
		if hi < lo {
			return 0, 0, errors.Errorf("%q runs backwards", item)
		}
	}
	return lo, hi, nil
}

func parsePage(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || strings.HasPrefix(s, "+") {
		return 0, errors.Errorf("%q is not a page number", s)
	}
	return n, nil
}
