package coverage

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"

	"github.com/cockroachdb/errors"

	m "github.com/mouse-blink/goistanbul/internal/model"
)

// objectWriter emits a JSON object with keys in call order.
type objectWriter struct {
	buf bytes.Buffer
	n   int
	err error
}

func newObjectWriter() *objectWriter {
	w := &objectWriter{}
	w.buf.WriteByte('{')

	return w
}

func (w *objectWriter) field(key string, v any) {
	if w.err != nil {
		return
	}

	raw, err := json.Marshal(v)
	if err != nil {
		w.err = errors.Wrapf(err, "encode %s", key)
		return
	}

	w.rawField(key, raw)
}

func (w *objectWriter) rawField(key string, raw []byte) {
	if w.err != nil {
		return
	}

	if w.n > 0 {
		w.buf.WriteByte(',')
	}

	k, _ := json.Marshal(key)
	w.buf.Write(k)
	w.buf.WriteByte(':')
	w.buf.Write(raw)
	w.n++
}

// snapshot returns the object as written so far, closed.
func (w *objectWriter) snapshot() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}

	out := make([]byte, 0, w.buf.Len()+1)
	out = append(out, w.buf.Bytes()...)

	return append(out, '}'), nil
}

// indexed is a dense slice carried on the wire as {"0": v0, "1": v1, ...}.
type indexed[T any] []T

func (x indexed[T]) MarshalJSON() ([]byte, error) {
	w := newObjectWriter()
	for i, v := range x {
		w.field(strconv.Itoa(i), v)
	}

	return w.snapshot()
}

func (x *indexed[T]) UnmarshalJSON(data []byte) error {
	var raw map[string]T
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := make([]T, len(raw))

	for k, v := range raw {
		i, err := strconv.Atoi(k)
		if err != nil || i < 0 || i >= len(raw) || strconv.Itoa(i) != k {
			return errors.Wrapf(ErrMalformedCoverage, "index %q is not dense", k)
		}

		out[i] = v
	}

	*x = out

	return nil
}

// sparse carries the truthy counters, which exist only for some branches.
type sparse map[int][]uint32

func (x sparse) MarshalJSON() ([]byte, error) {
	keys := make([]int, 0, len(x))
	for k := range x {
		keys = append(keys, k)
	}

	sort.Ints(keys)

	w := newObjectWriter()
	for _, k := range keys {
		w.field(strconv.Itoa(k), nonNil(x[k]))
	}

	return w.snapshot()
}

func (x *sparse) UnmarshalJSON(data []byte) error {
	var raw map[string][]uint32
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := make(sparse, len(raw))

	for k, v := range raw {
		i, err := strconv.Atoi(k)
		if err != nil || i < 0 || strconv.Itoa(i) != k {
			return errors.Wrapf(ErrMalformedCoverage, "invalid branch key %q", k)
		}

		out[i] = nonNil(v)
	}

	*x = out

	return nil
}

func nonNil(hits []uint32) []uint32 {
	if hits == nil {
		return []uint32{}
	}

	return hits
}

// writeFields emits the record body in istanbul's key order.
func (fc *FileCoverage) writeFields(w *objectWriter) {
	b := make(indexed[[]uint32], len(fc.B))
	for i, paths := range fc.B {
		b[i] = nonNil(paths)
	}

	w.field("all", fc.All)
	w.field("path", fc.Path)
	w.field("statementMap", indexed[m.Range](fc.StatementMap))
	w.field("fnMap", indexed[m.FunctionMapping](fc.FnMap))
	w.field("branchMap", indexed[m.BranchMapping](fc.BranchMap))
	w.field("s", indexed[uint32](fc.S))
	w.field("f", indexed[uint32](fc.F))
	w.field("b", b)

	if fc.BT != nil {
		w.field("bT", sparse(fc.BT))
	}

	if fc.InputSourceMap != nil {
		w.field("inputSourceMap", fc.InputSourceMap)
	}
}

// MarshalJSON encodes the record without schema or hash fields.
func (fc *FileCoverage) MarshalJSON() ([]byte, error) {
	w := newObjectWriter()
	fc.writeFields(w)

	return w.snapshot()
}

type wireFileCoverage struct {
	All            bool                       `json:"all"`
	Path           string                     `json:"path"`
	StatementMap   indexed[m.Range]           `json:"statementMap"`
	FnMap          indexed[m.FunctionMapping] `json:"fnMap"`
	BranchMap      indexed[m.BranchMapping]   `json:"branchMap"`
	S              indexed[uint32]            `json:"s"`
	F              indexed[uint32]            `json:"f"`
	B              indexed[[]uint32]          `json:"b"`
	BT             *sparse                    `json:"bT"`
	InputSourceMap *m.SourceMap               `json:"inputSourceMap"`
	Schema         *string                    `json:"_coverageSchema"`
	Hash           string                     `json:"hash"`
}

// UnmarshalJSON decodes a record and checks that its parallel maps agree.
// Schema and hash fields are accepted and ignored; see DecodeRecord.
func (fc *FileCoverage) UnmarshalJSON(data []byte) error {
	_, err := fc.decode(data)

	return err
}

func (fc *FileCoverage) decode(data []byte) (wireFileCoverage, error) {
	var w wireFileCoverage
	if err := json.Unmarshal(data, &w); err != nil {
		if errors.Is(err, ErrMalformedCoverage) {
			return w, err
		}

		return w, errors.Mark(errors.Wrap(err, "decode coverage"), ErrMalformedCoverage)
	}

	out := FileCoverage{
		Path:           w.Path,
		All:            w.All,
		StatementMap:   nonNilSlice([]m.Range(w.StatementMap)),
		FnMap:          nonNilSlice([]m.FunctionMapping(w.FnMap)),
		BranchMap:      nonNilSlice([]m.BranchMapping(w.BranchMap)),
		S:              nonNilSlice([]uint32(w.S)),
		F:              nonNilSlice([]uint32(w.F)),
		B:              nonNilSlice([][]uint32(w.B)),
		InputSourceMap: w.InputSourceMap,
	}

	for i := range out.B {
		out.B[i] = nonNil(out.B[i])
	}

	for i := range out.BranchMap {
		out.BranchMap[i].Locations = nonNilSlice(out.BranchMap[i].Locations)
	}

	if w.BT != nil {
		out.BT = map[int][]uint32(*w.BT)
	}

	if err := out.validate(); err != nil {
		return w, err
	}

	*fc = out

	return w, nil
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}

	return s
}

func (fc *FileCoverage) validate() error {
	if len(fc.S) != len(fc.StatementMap) {
		return errors.Wrapf(ErrMalformedCoverage, "%s: %d statement counters for %d statements",
			fc.Path, len(fc.S), len(fc.StatementMap))
	}

	if len(fc.F) != len(fc.FnMap) {
		return errors.Wrapf(ErrMalformedCoverage, "%s: %d function counters for %d functions",
			fc.Path, len(fc.F), len(fc.FnMap))
	}

	if len(fc.B) != len(fc.BranchMap) {
		return errors.Wrapf(ErrMalformedCoverage, "%s: %d branch counters for %d branches",
			fc.Path, len(fc.B), len(fc.BranchMap))
	}

	for i, branch := range fc.BranchMap {
		if len(branch.Locations) != len(fc.B[i]) {
			return errors.Wrapf(ErrMalformedCoverage, "%s: branch %d has %d counters for %d locations",
				fc.Path, i, len(fc.B[i]), len(branch.Locations))
		}
	}

	for k, hits := range fc.BT {
		if k >= len(fc.B) || len(hits) != len(fc.B[k]) {
			return errors.Wrapf(ErrMalformedCoverage, "%s: truthy counters of branch %d do not match", fc.Path, k)
		}
	}

	return nil
}
