package pagetool

import (
	"context"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pkg/errors"
)

// Pdfcpu performs page operations in-process with pdfcpu
type Pdfcpu struct {
	conf *model.Configuration
}

// NewPdfcpu creates the in-process tool
func NewPdfcpu() *Pdfcpu {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &Pdfcpu{conf: conf}
}

func (p *Pdfcpu) Name() string { return "pdfcpu" }

func (p *Pdfcpu) Merge(ctx context.Context, inputs []string, out string) error {
	if len(inputs) == 0 {
		return errors.New("merge needs at least one input")
	}
	return p.run(ctx, func() error {
		return api.MergeCreateFile(inputs, out, false, p.conf)
	})
}

func (p *Pdfcpu) Extract(ctx context.Context, in, ranges, out string) error {
	items, err := ParseRanges(ranges, 0)
	if err != nil {
		return err
	}
	return p.run(ctx, func() error {
		return api.TrimFile(in, out, items, p.conf)
	})
}

func (p *Pdfcpu) Split(ctx context.Context, in, outDir string) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return errors.Wrap(err, "failed to create output directory")
	}
	return p.run(ctx, func() error {
		return api.SplitFile(in, outDir, 1, p.conf)
	})
}

// run executes fn unless ctx is already done. pdfcpu calls cannot be
// interrupted once started.
func (p *Pdfcpu) run(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := fn(); err != nil {
		return &ToolError{Tool: p.Name(), ExitCode: -1, Stderr: err.Error(), Err: err}
	}
	return nil
}
