package pagetool

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Qpdf runs the qpdf command-line tool
type Qpdf struct {
	path string
}

// NewQpdf creates a tool for the qpdf binary at path
func NewQpdf(path string) *Qpdf {
	return &Qpdf{path: path}
}

func (q *Qpdf) Name() string { return "qpdf" }

// Merge concatenates inputs: qpdf --empty --pages <inputs> -- <out>
func (q *Qpdf) Merge(ctx context.Context, inputs []string, out string) error {
	if len(inputs) == 0 {
		return errors.New("merge needs at least one input")
	}
	args := append([]string{"--empty", "--pages"}, inputs...)
	args = append(args, "--", out)
	return q.runTo(ctx, args, out)
}

// Extract copies the pages in ranges: qpdf --empty --pages <in> <ranges> -- <out>
func (q *Qpdf) Extract(ctx context.Context, in, ranges, out string) error {
	items, err := ParseRanges(ranges, 0)
	if err != nil {
		return err
	}
	return q.runTo(ctx, []string{"--empty", "--pages", in, strings.Join(items, ","), "--", out}, out)
}

// Split writes one file per page: qpdf --split-pages=1 <in> <outDir>/page-%d.pdf
func (q *Qpdf) Split(ctx context.Context, in, outDir string) error {
	return q.run(ctx, []string{"--split-pages=1", in, filepath.Join(outDir, "page-%d.pdf")})
}

// runTo is run for commands writing a single file. A failed run removes
// what it left at out, unless out existed before.
func (q *Qpdf) runTo(ctx context.Context, args []string, out string) error {
	_, statErr := os.Stat(out)
	existed := statErr == nil
	err := q.run(ctx, args)
	if err != nil && !existed {
		if rmErr := os.Remove(out); rmErr != nil && !os.IsNotExist(rmErr) {
			log.Warn().Err(rmErr).Str("path", out).Msg("failed to remove partial output")
		}
	}
	return err
}

func (q *Qpdf) run(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, q.path, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		log.Debug().Str("tool", "qpdf").Strs("args", args).Msg("page tool succeeded")
		return nil
	}

	te := &ToolError{Tool: q.Name(), Args: args, ExitCode: -1, Stderr: stderr.String(), Err: err}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		te.ExitCode = exitErr.ExitCode()
	}
	log.Warn().Str("tool", "qpdf").Strs("args", args).Int("exit", te.ExitCode).Msg("page tool failed")
	return te
}
