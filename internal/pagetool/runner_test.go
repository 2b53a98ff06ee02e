package pagetool

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfmark/internal/eventbus"
)

type fakeTool struct {
	calls []string
	err   error
}

func (f *fakeTool) Name() string { return "fake" }

func (f *fakeTool) Merge(_ context.Context, inputs []string, out string) error {
	f.calls = append(f.calls, "merge")
	return f.err
}

func (f *fakeTool) Extract(_ context.Context, in, ranges, out string) error {
	f.calls = append(f.calls, "extract "+ranges)
	return f.err
}

func (f *fakeTool) Split(_ context.Context, in, outDir string) error {
	f.calls = append(f.calls, "split")
	return f.err
}

func TestRunnerDispatchesAndReports(t *testing.T) {
	tool := &fakeTool{}
	bus := eventbus.NewRecorder()
	r := NewRunner(tool, bus)

	require.NoError(t, r.Run(context.Background(), Operation{Kind: "extract", Inputs: []string{"a.pdf"}, Ranges: "1-2", Output: "b.pdf"}))
	require.NoError(t, r.Run(context.Background(), Operation{Kind: "merge", Inputs: []string{"a.pdf", "b.pdf"}, Output: "c.pdf"}))
	assert.Equal(t, []string{"extract 1-2", "merge"}, tool.calls)

	events := bus.OfType(eventbus.EventPageToolCompleted)
	require.Len(t, events, 2)
	ev := events[0].(eventbus.PageToolCompletedEvent)
	assert.True(t, ev.Success)
	assert.Equal(t, "fake", ev.Tool)
	assert.Equal(t, "extract", ev.Operation)
	assert.Equal(t, "b.pdf", ev.Output)
}

func TestRunnerReportsFailure(t *testing.T) {
	boom := &ToolError{Tool: "fake", ExitCode: 3, Stderr: "broken xref"}
	tool := &fakeTool{err: boom}
	bus := eventbus.NewRecorder()

	err := NewRunner(tool, bus).Run(context.Background(), Operation{Kind: "split", Inputs: []string{"a.pdf"}, Output: "dir"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))

	ev := bus.OfType(eventbus.EventPageToolCompleted)[0].(eventbus.PageToolCompletedEvent)
	assert.False(t, ev.Success)
	assert.Equal(t, boom, ev.Error)
}

func TestRunnerRejectsMalformedOperations(t *testing.T) {
	r := NewRunner(&fakeTool{}, eventbus.NullBus{})
	assert.Error(t, r.Run(context.Background(), Operation{Kind: "rotate"}))
	assert.Error(t, r.Run(context.Background(), Operation{Kind: "split", Inputs: []string{"a", "b"}}))
}

func TestPdfcpuHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewPdfcpu().Merge(ctx, []string{"a.pdf"}, "b.pdf")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPdfcpuMissingInputIsToolError(t *testing.T) {
	err := NewPdfcpu().Extract(context.Background(), "/nonexistent/in.pdf", "1", t.TempDir()+"/out.pdf")
	var te *ToolError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "pdfcpu", te.Tool)
	assert.NotEmpty(t, te.Stderr)
}
