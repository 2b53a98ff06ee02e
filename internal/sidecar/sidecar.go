// Package sidecar persists markups in a JSON file kept next to (or keyed
// by) the source document. The document itself is never modified.
//
// The file is a JSON array of records:
//
//	[
//	  {
//	    "page": 1,
//	    "kind": "Highlight",
//	    "color": [255, 255, 0, 128],
//	    "quads": [[100, 100, 300, 120]]
//	  }
//	]
package sidecar

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"pdfmark/internal/domain"
)

// Suffix is appended to the document path for sidecars stored alongside
const Suffix = ".markup.json"

// ErrMalformed matches every MalformedError with errors.Is
var ErrMalformed = errors.New("malformed sidecar")

// MalformedError reports a sidecar that does not have the expected
// structure. Index is the offending record, -1 for file-level problems.
type MalformedError struct {
	Path   string
	Index  int
	Reason string
	Err    error
}

func (e *MalformedError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("malformed sidecar %s: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("malformed sidecar %s: record %d: %s", e.Path, e.Index, e.Reason)
}

func (e *MalformedError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrMalformed) true
func (e *MalformedError) Is(target error) bool { return target == ErrMalformed }

// record is the on-disk form of a markup. Field order is the output order.
type record struct {
	Page  int          `json:"page"`
	Kind  string       `json:"kind"`
	Color [4]int       `json:"color"`
	Quads [][4]float64 `json:"quads"`
}

// rawRecord is decoded first so missing fields can be told apart from zero
// values
type rawRecord struct {
	Page  *float64      `json:"page"`
	Kind  *string       `json:"kind"`
	Color *[]*float64   `json:"color"`
	Quads *[][]*float64 `json:"quads"`
}

// PathFor returns the sidecar path of a document. With an empty dir the
// sidecar sits next to the document; otherwise it is named after the
// SHA-256 of the document's absolute path inside dir.
func PathFor(docPath, dir string) string {
	if dir == "" {
		return docPath + Suffix
	}
	abs, err := filepath.Abs(docPath)
	if err != nil {
		abs = docPath
	}
	sum := sha256.Sum256([]byte(abs))
	return filepath.Join(dir, hex.EncodeToString(sum[:])+".json")
}

// Encode renders markups in the sidecar format, trailing newline included
func Encode(markups []domain.Markup) ([]byte, error) {
	records := make([]record, 0, len(markups))
	for i, m := range markups {
		if !m.Kind.Valid() {
			return nil, errors.Errorf("markup %d: invalid kind %d", i, m.Kind)
		}
		r := record{
			Page:  m.Page,
			Kind:  m.Kind.String(),
			Color: [4]int{int(m.Color.R), int(m.Color.G), int(m.Color.B), int(m.Color.A)},
			Quads: make([][4]float64, len(m.Quads)),
		}
		for j, q := range m.Quads {
			for _, v := range []float64{q.X0, q.Y0, q.X1, q.Y1} {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					return nil, errors.Errorf("markup %d quad %d: non-finite coordinate", i, j)
				}
			}
			r.Quads[j] = [4]float64{q.X0, q.Y0, q.X1, q.Y1}
		}
		records = append(records, r)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal markups")
	}
	return append(data, '\n'), nil
}

// Save writes markups to path, replacing any previous file atomically
func Save(path string, markups []domain.Markup) error {
	data, err := Encode(markups)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "failed to create sidecar directory")
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "failed to create temp file")
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "failed to write sidecar")
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Wrap(err, "failed to sync sidecar")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "failed to close sidecar")
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return errors.Wrap(err, "failed to set sidecar permissions")
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.Wrapf(err, "failed to replace %s", path)
	}
	return nil
}

// Load reads markups from path. A missing file yields no markups and no
// error. Page numbers are not checked against any document here.
func Load(path string) ([]domain.Markup, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "failed to read sidecar %s", path)
	}
	return Decode(path, data)
}

// Decode parses sidecar content. path is only used in error messages.
func Decode(path string, data []byte) ([]domain.Markup, error) {
	malformed := func(index int, reason string, err error) error {
		return &MalformedError{Path: path, Index: index, Reason: reason, Err: err}
	}

	dec := json.NewDecoder(bytes.NewReader(data))

	var raws []json.RawMessage
	if err := dec.Decode(&raws); err != nil {
		if err == io.EOF {
			return nil, malformed(-1, "empty file", err)
		}
		return nil, malformed(-1, "not a JSON array of records", err)
	}
	if raws == nil {
		return nil, malformed(-1, "not a JSON array of records", nil)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, malformed(-1, "trailing data after array", nil)
	}

	markups := make([]domain.Markup, 0, len(raws))
	for i, raw := range raws {
		m, reason, err := decodeRecord(raw)
		if reason != "" {
			return nil, malformed(i, reason, err)
		}
		markups = append(markups, m)
	}
	return markups, nil
}

func decodeRecord(raw json.RawMessage) (domain.Markup, string, error) {
	var r rawRecord
	if err := json.Unmarshal(raw, &r); err != nil {
		return domain.Markup{}, "record is not an object with the expected field types", err
	}

	var m domain.Markup

	if r.Page == nil {
		return m, "missing page", nil
	}
	if !isInt(*r.Page, 0, math.MaxInt32) {
		return m, fmt.Sprintf("page %v is not a non-negative integer", *r.Page), nil
	}
	m.Page = int(*r.Page)

	if r.Kind == nil {
		return m, "missing kind", nil
	}
	kind, ok := parseKindTag(*r.Kind)
	if !ok {
		return m, fmt.Sprintf("unknown kind %q", *r.Kind), nil
	}
	m.Kind = kind

	if r.Color == nil {
		return m, "missing color", nil
	}
	if len(*r.Color) != 4 {
		return m, fmt.Sprintf("color has %d channels, want 4", len(*r.Color)), nil
	}
	var ch [4]uint8
	for i, v := range *r.Color {
		if v == nil {
			return m, fmt.Sprintf("color channel %d is not a number", i), nil
		}
		if !isInt(*v, 0, 255) {
			return m, fmt.Sprintf("color channel %d (%v) is not an integer in 0..255", i, *v), nil
		}
		ch[i] = uint8(*v)
	}
	m.Color = domain.Color{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}

	if r.Quads == nil {
		return m, "missing quads", nil
	}
	if len(*r.Quads) == 0 {
		return m, "quads is empty", nil
	}
	m.Quads = make([]domain.Rect, 0, len(*r.Quads))
	for i, q := range *r.Quads {
		if len(q) != 4 {
			return m, fmt.Sprintf("quad %d has %d numbers, want 4", i, len(q)), nil
		}
		var c [4]float64
		for j, v := range q {
			if v == nil {
				return m, fmt.Sprintf("quad %d coordinate %d is not a number", i, j), nil
			}
			c[j] = *v
		}
		m.Quads = append(m.Quads, domain.Rect{X0: c[0], Y0: c[1], X1: c[2], Y1: c[3]})
	}
	return m, "", nil
}

func isInt(v, lo, hi float64) bool {
	return v == math.Trunc(v) && v >= lo && v <= hi
}

// parseKindTag accepts exactly the tags Encode writes
func parseKindTag(s string) (domain.MarkupKind, bool) {
	for _, k := range domain.Kinds() {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}
