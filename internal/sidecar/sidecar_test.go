package sidecar

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfmark/internal/domain"
)

func sampleMarkups() []domain.Markup {
	return []domain.Markup{
		{
			Page:  1,
			Kind:  domain.KindHighlight,
			Color: domain.DefaultColor,
			Quads: []domain.Rect{{X0: 100, Y0: 100, X1: 300, Y1: 120}},
		},
		{
			Page:  0,
			Kind:  domain.KindStrikeOut,
			Color: domain.Color{R: 224, A: 192},
			Quads: []domain.Rect{
				{X0: 72.125, Y0: 10.5, X1: 400.333, Y1: 22},
				{X0: 72, Y0: 24, X1: 0.1, Y1: 36},
			},
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.pdf"+Suffix)
	require.NoError(t, Save(path, sampleMarkups()))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, sampleMarkups(), got)
}

func TestSaveIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.json")
	second := filepath.Join(dir, "second.json")

	require.NoError(t, Save(first, sampleMarkups()))
	loaded, err := Load(first)
	require.NoError(t, err)
	require.NoError(t, Save(second, loaded))

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
	assert.True(t, strings.HasSuffix(string(a), "]\n"))
}

func TestSaveFormat(t *testing.T) {
	data, err := Encode(sampleMarkups()[:1])
	require.NoError(t, err)
	assert.Equal(t, `[
  {
    "page": 1,
    "kind": "Highlight",
    "color": [
      255,
      255,
      0,
      128
    ],
    "quads": [
      [
        100,
        100,
        300,
        120
      ]
    ]
  }
]
`, string(data))
}

func TestSaveEmptyWritesEmptyArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, Save(path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSaveReplacesAndLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.pdf"+Suffix)
	require.NoError(t, os.WriteFile(path, []byte("old"), 0644))

	require.NoError(t, Save(path, sampleMarkups()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "doc.pdf"+Suffix, entries[0].Name())
}

func TestSaveRejectsNonFinite(t *testing.T) {
	bad := sampleMarkups()
	bad[0].Quads[0].X1 = math.NaN()
	_, err := Encode(bad)
	assert.Error(t, err)
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	got, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLoadMalformed(t *testing.T) {
	valid := `{"page":0,"kind":"Underline","color":[1,2,3,4],"quads":[[0,0,10,10]]}`
	tests := []struct {
		name      string
		content   string
		wantIndex int
		reason    string
	}{
		{"empty file", "", -1, ""},
		{"not json", "hello", -1, ""},
		{"object instead of array", `{"page":0}`, -1, ""},
		{"null", "null", -1, ""},
		{"trailing data", "[] []", -1, ""},
		{"record not object", `[` + valid + `, 7]`, 1, ""},
		{"missing page", `[{"kind":"Highlight","color":[1,2,3,4],"quads":[[0,0,1,1]]}]`, 0, ""},
		{"negative page", `[{"page":-1,"kind":"Highlight","color":[1,2,3,4],"quads":[[0,0,1,1]]}]`, 0, ""},
		{"fractional page", `[{"page":1.5,"kind":"Highlight","color":[1,2,3,4],"quads":[[0,0,1,1]]}]`, 0, ""},
		{"string page", `[{"page":"1","kind":"Highlight","color":[1,2,3,4],"quads":[[0,0,1,1]]}]`, 0, ""},
		{"missing kind", `[{"page":0,"color":[1,2,3,4],"quads":[[0,0,1,1]]}]`, 0, ""},
		{"unknown kind", `[{"page":0,"kind":"Squiggly","color":[1,2,3,4],"quads":[[0,0,1,1]]}]`, 0, ""},
		{"three channels", `[{"page":0,"kind":"Highlight","color":[1,2,3],"quads":[[0,0,1,1]]}]`, 0, ""},
		{"channel out of range", `[` + valid + `,{"page":0,"kind":"Highlight","color":[1,2,3,256],"quads":[[0,0,1,1]]}]`, 1, ""},
		{"missing color", `[{"page":0,"kind":"Highlight","quads":[[0,0,1,1]]}]`, 0, ""},
		{"missing quads", `[{"page":0,"kind":"Highlight","color":[1,2,3,4]}]`, 0, ""},
		{"empty quads", `[{"page":0,"kind":"Highlight","color":[1,2,3,4],"quads":[]}]`, 0, ""},
		{"short quad", `[{"page":0,"kind":"Highlight","color":[1,2,3,4],"quads":[[0,0,1]]}]`, 0, ""},
		{"quad with string", `[{"page":0,"kind":"Highlight","color":[1,2,3,4],"quads":[[0,"a",1,1]]}]`, 0, ""},
		{"null color channel", `[{"page":0,"kind":"Highlight","color":[255,255,0,null],"quads":[[0,0,1,1]]}]`, 0, "color channel 3 is not a number"},
		{"null quad coordinate", `[` + valid + `,{"page":0,"kind":"Highlight","color":[1,2,3,4],"quads":[[1,null,3,4]]}]`, 1, "quad 0 coordinate 1 is not a number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			got, err := Load(path)
			require.Error(t, err)
			assert.Nil(t, got)
			assert.True(t, errors.Is(err, ErrMalformed))

			var me *MalformedError
			require.True(t, errors.As(err, &me))
			assert.Equal(t, tt.wantIndex, me.Index)
			assert.Equal(t, path, me.Path)
			if tt.reason != "" {
				assert.Equal(t, tt.reason, me.Reason)
			}
		})
	}
}

func TestLoadIgnoresUnknownFieldsAndKeepsStalePages(t *testing.T) {
	got, err := Decode("x", []byte(`[{"page":49,"kind":"StrikeOut","color":[0,0,0,255],"quads":[[1,2,3,4]],"note":"hi"}]`))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 49, got[0].Page)
	assert.Equal(t, domain.KindStrikeOut, got[0].Kind)
}

func TestPathFor(t *testing.T) {
	assert.Equal(t, "/docs/paper.pdf.markup.json", PathFor("/docs/paper.pdf", ""))

	a := PathFor("/docs/paper.pdf", "/var/marks")
	b := PathFor("/docs/paper.pdf", "/var/marks")
	c := PathFor("/docs/other.pdf", "/var/marks")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Equal(t, "/var/marks", filepath.Dir(a))
	assert.Len(t, filepath.Base(a), 64+len(".json"))
}
