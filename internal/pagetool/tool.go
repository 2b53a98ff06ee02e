// Package pagetool runs structural page operations (merge, extract, split)
// through an external tool. qpdf is preferred; pdfcpu is the in-process
// fallback when qpdf is not installed.
package pagetool

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
)

// ErrToolNotFound is returned when no page tool is available
var ErrToolNotFound = errors.New("no page tool available: install qpdf or enable the pdfcpu fallback")

// Tool performs page operations on PDF files. Outputs are only valid when
// the call returns nil.
type Tool interface {
	Name() string
	Merge(ctx context.Context, inputs []string, out string) error
	Extract(ctx context.Context, in, ranges, out string) error
	Split(ctx context.Context, in, outDir string) error
}

// ToolError reports a failed tool run. Stderr is the tool's own output,
// unmodified.
type ToolError struct {
	Tool     string
	Args     []string
	ExitCode int // -1 when the process did not start or was killed
	Stderr   string
	Err      error
}

func (e *ToolError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.ExitCode >= 0 {
		return fmt.Sprintf("%s failed (exit %d): %s", e.Tool, e.ExitCode, msg)
	}
	return fmt.Sprintf("%s failed: %s", e.Tool, msg)
}

func (e *ToolError) Unwrap() error { return e.Err }

// Config selects the tool implementation
type Config struct {
	QpdfPath       string // name or path of the qpdf binary
	PdfcpuFallback bool
}

// New returns qpdf when it can be found, otherwise pdfcpu if allowed
func New(cfg Config) (Tool, error) {
	name := cfg.QpdfPath
	if name == "" {
		name = "qpdf"
	}
	if path, err := exec.LookPath(name); err == nil {
		return NewQpdf(path), nil
	}
	if cfg.PdfcpuFallback {
		return NewPdfcpu(), nil
	}
	return nil, ErrToolNotFound
}
