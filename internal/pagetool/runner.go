package pagetool

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"pdfmark/internal/eventbus"
)

// Operation names a page operation and its arguments
type Operation struct {
	Kind   string // merge, extract or split
	Inputs []string
	Ranges string
	Output string
}

// Runner executes operations on a Tool one at a time and reports each
// outcome on the bus
type Runner struct {
	tool       Tool
	bus        eventbus.EventBus
	workerPool chan struct{}
}

// NewRunner creates a runner around tool
func NewRunner(tool Tool, bus eventbus.EventBus) *Runner {
	return &Runner{
		tool:       tool,
		bus:        bus,
		workerPool: make(chan struct{}, 1),
	}
}

// ToolName returns the name of the underlying tool
func (r *Runner) ToolName() string {
	return r.tool.Name()
}

// Run performs op and blocks until the tool finishes
func (r *Runner) Run(ctx context.Context, op Operation) error {
	select {
	case r.workerPool <- struct{}{}:
		defer func() { <-r.workerPool }()
	case <-ctx.Done():
		return ctx.Err()
	}

	start := time.Now()
	var err error
	switch op.Kind {
	case "merge":
		err = r.tool.Merge(ctx, op.Inputs, op.Output)
	case "extract":
		if len(op.Inputs) != 1 {
			err = errors.New("extract takes exactly one input")
			break
		}
		err = r.tool.Extract(ctx, op.Inputs[0], op.Ranges, op.Output)
	case "split":
		if len(op.Inputs) != 1 {
			err = errors.New("split takes exactly one input")
			break
		}
		err = r.tool.Split(ctx, op.Inputs[0], op.Output)
	default:
		err = errors.Errorf("unknown page operation %q", op.Kind)
	}

	duration := time.Since(start)
	ev := eventbus.PageToolCompletedEvent{
		Tool:      r.tool.Name(),
		Operation: op.Kind,
		Output:    op.Output,
		Success:   err == nil,
		Error:     err,
		Duration:  duration,
	}
	r.bus.Publish(ev)

	if err != nil {
		log.Warn().Err(err).Str("operation", op.Kind).Str("inputs", strings.Join(op.Inputs, " ")).Msg("page operation failed")
		return err
	}
	log.Info().Str("operation", op.Kind).Str("output", op.Output).Dur("duration", duration).Msg("page operation completed")
	return nil
}
