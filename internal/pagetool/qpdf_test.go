//go:build unix

package pagetool

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeQpdf installs a script that records its arguments and fails when
// the FAKE_QPDF_FAIL environment variable is set, first writing a partial
// file at the last argument when FAKE_QPDF_PARTIAL is set too
func fakeQpdf(t *testing.T) (path, argsFile string) {
	t.Helper()
	dir := t.TempDir()
	argsFile = filepath.Join(dir, "args")
	path = filepath.Join(dir, "qpdf")
	script := `#!/bin/sh
for a in "$@"; do echo "$a"; done > "` + argsFile + `"
if [ -n "$FAKE_QPDF_FAIL" ]; then
  for last; do :; done
  if [ -n "$FAKE_QPDF_PARTIAL" ]; then echo "%PDF-1.7 truncated" > "$last"; fi
  echo "qpdf: input.pdf: not a PDF file" >&2
  exit 2
fi
exit 0
`
	require.NoError(t, os.WriteFile(path, []byte(script), 0755))
	return path, argsFile
}

func recordedArgs(t *testing.T, argsFile string) []string {
	t.Helper()
	data, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

func TestQpdfArgumentGrammar(t *testing.T) {
	path, argsFile := fakeQpdf(t)
	q := NewQpdf(path)
	ctx := context.Background()

	require.NoError(t, q.Merge(ctx, []string{"a.pdf", "b.pdf"}, "out.pdf"))
	assert.Equal(t, []string{"--empty", "--pages", "a.pdf", "b.pdf", "--", "out.pdf"}, recordedArgs(t, argsFile))

	require.NoError(t, q.Extract(ctx, "in.pdf", "1-3, 5", "out.pdf"))
	assert.Equal(t, []string{"--empty", "--pages", "in.pdf", "1-3,5", "--", "out.pdf"}, recordedArgs(t, argsFile))

	require.NoError(t, q.Split(ctx, "in.pdf", "/tmp/pages"))
	assert.Equal(t, []string{"--split-pages=1", "in.pdf", "/tmp/pages/page-%d.pdf"}, recordedArgs(t, argsFile))
}

func TestQpdfFailureCarriesStderr(t *testing.T) {
	path, _ := fakeQpdf(t)
	t.Setenv("FAKE_QPDF_FAIL", "1")

	err := NewQpdf(path).Merge(context.Background(), []string{"input.pdf"}, "out.pdf")
	require.Error(t, err)

	var te *ToolError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, 2, te.ExitCode)
	assert.Equal(t, "qpdf: input.pdf: not a PDF file\n", te.Stderr)
	assert.Contains(t, err.Error(), "exit 2")
}

func TestQpdfFailureRemovesPartialOutput(t *testing.T) {
	path, _ := fakeQpdf(t)
	t.Setenv("FAKE_QPDF_FAIL", "1")
	t.Setenv("FAKE_QPDF_PARTIAL", "1")
	q := NewQpdf(path)
	ctx := context.Background()
	dir := t.TempDir()

	merged := filepath.Join(dir, "merged.pdf")
	require.Error(t, q.Merge(ctx, []string{"a.pdf", "b.pdf"}, merged))
	assert.NoFileExists(t, merged)

	part := filepath.Join(dir, "part.pdf")
	require.Error(t, q.Extract(ctx, "in.pdf", "1-2", part))
	assert.NoFileExists(t, part)

	// a file that was there before is left alone
	kept := filepath.Join(dir, "kept.pdf")
	require.NoError(t, os.WriteFile(kept, []byte("%PDF-1.4"), 0644))
	require.Error(t, q.Merge(ctx, []string{"a.pdf"}, kept))
	assert.FileExists(t, kept)
}

func TestQpdfStartFailure(t *testing.T) {
	err := NewQpdf(filepath.Join(t.TempDir(), "missing")).Split(context.Background(), "in.pdf", "out")
	var te *ToolError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, -1, te.ExitCode)
}

func TestQpdfRejectsBadRangeWithoutRunning(t *testing.T) {
	path, argsFile := fakeQpdf(t)
	err := NewQpdf(path).Extract(context.Background(), "in.pdf", "5-2", "out.pdf")
	require.Error(t, err)
	assert.NoFileExists(t, argsFile)
}

func TestNewPrefersQpdf(t *testing.T) {
	path, _ := fakeQpdf(t)

	tool, err := New(Config{QpdfPath: path})
	require.NoError(t, err)
	assert.Equal(t, "qpdf", tool.Name())

	missing := filepath.Join(t.TempDir(), "qpdf")
	tool, err = New(Config{QpdfPath: missing, PdfcpuFallback: true})
	require.NoError(t, err)
	assert.Equal(t, "pdfcpu", tool.Name())

	_, err = New(Config{QpdfPath: missing})
	assert.ErrorIs(t, err, ErrToolNotFound)
}
