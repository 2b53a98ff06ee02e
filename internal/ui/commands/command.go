package commands

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"pdfmark/internal/pagetool"
)

// Command is one parsed prompt line
type Command interface {
	Name() string
}

// GotoCommand jumps to a 1-based page
type GotoCommand struct {
	Page int
}

// OpenCommand replaces the open document
type OpenCommand struct {
	Path string
}

// CopyCommand saves a copy of the open document
type CopyCommand struct {
	Path string
}

// ToolCommand runs an external page operation
type ToolCommand struct {
	Op pagetool.Operation
}

// ZoomCommand sets the zoom in percent of fit-width
type ZoomCommand struct {
	Percent float64
}

// SaveCommand writes the sidecar
type SaveCommand struct{}

// LoadCommand reloads the sidecar
type LoadCommand struct{}

// CloseCommand closes the document
type CloseCommand struct{}

// QuitCommand leaves the program
type QuitCommand struct{}

func (GotoCommand) Name() string   { return "goto" }
func (OpenCommand) Name() string   { return "open" }
func (CopyCommand) Name() string   { return "copy" }
func (c ToolCommand) Name() string { return c.Op.Kind }
func (ZoomCommand) Name() string   { return "zoom" }
func (SaveCommand) Name() string   { return "save" }
func (LoadCommand) Name() string   { return "load" }
func (CloseCommand) Name() string  { return "close" }
func (QuitCommand) Name() string   { return "quit" }

// Usage lists the prompt grammar
const Usage = `goto <page>            jump to a page (also: a bare number)
open <file.pdf>        open another document
copy <file.pdf>        save a copy of the document
merge <out> <in>...    concatenate documents
extract <range> <out>  write the pages in range, e.g. 1-3,7
split <dir>            write one file per page into dir
zoom <percent>         set the zoom
save | load            write or reload the markups
close | quit`

// Parse reads one prompt line. Arguments are separated by spaces; double
// quotes keep a path with spaces together.
func Parse(line string) (Command, error) {
	args, err := splitArgs(line)
	if err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return nil, errors.New("empty command")
	}

	name, rest := strings.ToLower(args[0]), args[1:]
	if n, err := strconv.Atoi(name); err == nil && len(rest) == 0 {
		return GotoCommand{Page: n}, nil
	}

	switch name {
	case "goto", "g":
		if err := arity(name, rest, 1, 1); err != nil {
			return nil, err
		}
		n, err := strconv.Atoi(rest[0])
		if err != nil {
			return nil, errors.Errorf("goto: %q is not a page number", rest[0])
		}
		return GotoCommand{Page: n}, nil

	case "open", "o", "e", "edit":
		if err := arity(name, rest, 1, 1); err != nil {
			return nil, err
		}
		return OpenCommand{Path: rest[0]}, nil

	case "copy", "w":
		if err := arity(name, rest, 1, 1); err != nil {
			return nil, err
		}
		return CopyCommand{Path: rest[0]}, nil

	case "merge":
		if err := arity(name, rest, 2, -1); err != nil {
			return nil, err
		}
		return ToolCommand{Op: pagetool.Operation{Kind: "merge", Output: rest[0], Inputs: rest[1:]}}, nil

	case "extract":
		if err := arity(name, rest, 2, 2); err != nil {
			return nil, err
		}
		if _, err := pagetool.ParseRanges(rest[0], 0); err != nil {
			return nil, err
		}
		return ToolCommand{Op: pagetool.Operation{Kind: "extract", Ranges: rest[0], Output: rest[1]}}, nil

	case "split":
		if err := arity(name, rest, 1, 1); err != nil {
			return nil, err
		}
		return ToolCommand{Op: pagetool.Operation{Kind: "split", Output: rest[0]}}, nil

	case "zoom", "z":
		if err := arity(name, rest, 1, 1); err != nil {
			return nil, err
		}
		p, err := strconv.ParseFloat(strings.TrimSuffix(rest[0], "%"), 64)
		if err != nil || p <= 0 {
			return nil, errors.Errorf("zoom: %q is not a positive percentage", rest[0])
		}
		return ZoomCommand{Percent: p}, nil

	case "save":
		return SaveCommand{}, arity(name, rest, 0, 0)
	case "load", "reload":
		return LoadCommand{}, arity(name, rest, 0, 0)
	case "close":
		return CloseCommand{}, arity(name, rest, 0, 0)
	case "quit", "q":
		return QuitCommand{}, arity(name, rest, 0, 0)
	}
	return nil, errors.Errorf("unknown command %q", name)
}

// arity checks the argument count; max < 0 means unbounded
func arity(name string, args []string, minArgs, maxArgs int) error {
	switch {
	case len(args) < minArgs:
		return errors.Errorf("%s: expected at least %d argument(s), got %d", name, minArgs, len(args))
	case maxArgs >= 0 && len(args) > maxArgs:
		return errors.Errorf("%s: expected at most %d argument(s), got %d", name, maxArgs, len(args))
	}
	return nil
}

func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		inQuote bool
		started bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
			started = true
		case r == ' ' || r == '\t':
			if inQuote {
				cur.WriteRune(r)
				continue
			}
			if started {
				args = append(args, cur.String())
				cur.Reset()
				started = false
			}
		default:
			cur.WriteRune(r)
			started = true
		}
	}
	if inQuote {
		return nil, errors.New("unterminated quote")
	}
	if started {
		args = append(args, cur.String())
	}
	return args, nil
}
