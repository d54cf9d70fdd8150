// Package covrt is linked into programs instrumented by goistanbul. Every
// instrumented file registers its zero-count coverage record at package
// initialization and bumps counters through the returned *File.
//
// The package depends on the standard library only, so instrumenting a
// project adds no modules to its build besides this one.
package covrt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

// OutputDirEnv names the directory Flush writes into.
const OutputDirEnv = "GOISTANBUL_OUTPUT_DIR"

// DefaultOutputDir is used when OutputDirEnv is unset.
const DefaultOutputDir = ".goistanbul_output"

var (
	mu       sync.Mutex
	registry = map[string]*File{}
	order    []string
	started  = time.Now().UnixNano()
)

// File holds the live counters of one instrumented source file.
type File struct {
	path string
	hash string
	all  bool

	statementMap   json.RawMessage
	fnMap          json.RawMessage
	branchMap      json.RawMessage
	inputSourceMap json.RawMessage
	schema         json.RawMessage

	s  []uint32
	f  []uint32
	b  [][]uint32
	bt map[int][]uint32
}

// Register returns the counters for path. A file registered earlier with the
// same hash is reused; a different hash means the file changed and its
// counters are replaced.
//
// data is the record produced by the instrumentor. Register panics when it
// cannot be decoded, since that means the instrumented code is corrupt.
func Register(path, hash, data string) *File {
	mu.Lock()
	defer mu.Unlock()

	if existing, ok := registry[path]; ok && existing.hash == hash {
		return existing
	}

	f, err := parse(path, hash, []byte(data))
	if err != nil {
		panic(fmt.Sprintf("goistanbul: invalid coverage record for %s: %v", path, err))
	}

	if _, ok := registry[path]; !ok {
		order = append(order, path)
	}

	registry[path] = f

	return f
}

// Stmt counts an execution of statement i.
func (f *File) Stmt(i int) {
	atomic.AddUint32(&f.s[i], 1)
}

// Func counts a call of function i.
func (f *File) Func(i int) {
	atomic.AddUint32(&f.f[i], 1)
}

// Branch counts path p of branch b.
func (f *File) Branch(b, p int) {
	atomic.AddUint32(&f.b[b][p], 1)
}

// Logic counts the evaluation of operand p of logical expression b and
// returns v unchanged.
func Logic[T ~bool](f *File, b, p int, v T) T {
	atomic.AddUint32(&f.b[b][p], 1)

	if v {
		if truthy, ok := f.bt[b]; ok {
			atomic.AddUint32(&truthy[p], 1)
		}
	}

	return v
}

// Reset zeroes every counter of every registered file.
func Reset() {
	mu.Lock()
	defer mu.Unlock()

	for _, f := range registry {
		for i := range f.s {
			atomic.StoreUint32(&f.s[i], 0)
		}

		for i := range f.f {
			atomic.StoreUint32(&f.f[i], 0)
		}

		for _, paths := range f.b {
			for i := range paths {
				atomic.StoreUint32(&paths[i], 0)
			}
		}

		for _, truthy := range f.bt {
			for i := range truthy {
				atomic.StoreUint32(&truthy[i], 0)
			}
		}
	}
}

// Snapshot renders the registered files as a coverage-final.json document.
func Snapshot() ([]byte, error) {
	mu.Lock()
	defer mu.Unlock()

	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, path := range order {
		if i > 0 {
			buf.WriteByte(',')
		}

		if err := writeString(&buf, path); err != nil {
			return nil, err
		}

		buf.WriteByte(':')

		if err := registry[path].writeJSON(&buf); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// OutputFile is where Flush writes in this process.
func OutputFile() string {
	dir := os.Getenv(OutputDirEnv)
	if dir == "" {
		dir = DefaultOutputDir
	}

	return filepath.Join(dir, fmt.Sprintf("coverage-%d-%d.json", os.Getpid(), started))
}

// Flush writes the current snapshot to OutputFile. Later flushes of the same
// process overwrite the file, so counts are never written twice.
func Flush() error {
	mu.Lock()
	empty := len(order) == 0
	mu.Unlock()

	if empty {
		return nil
	}

	data, err := Snapshot()
	if err != nil {
		return err
	}

	out := OutputFile()
	if err := os.MkdirAll(filepath.Dir(out), 0o750); err != nil {
		return err
	}

	tmp := out + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}

	return os.Rename(tmp, out)
}

// ExitCode flushes coverage and returns code, for use as os.Exit(ExitCode(code)).
func ExitCode(code int) int {
	if err := Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "goistanbul: flush coverage: %v\n", err)
	}

	return code
}

type record struct {
	All            bool                `json:"all"`
	StatementMap   json.RawMessage     `json:"statementMap"`
	FnMap          json.RawMessage     `json:"fnMap"`
	BranchMap      json.RawMessage     `json:"branchMap"`
	S              map[string]uint32   `json:"s"`
	F              map[string]uint32   `json:"f"`
	B              map[string][]uint32 `json:"b"`
	BT             map[string][]uint32 `json:"bT"`
	InputSourceMap json.RawMessage     `json:"inputSourceMap"`
	Schema         json.RawMessage     `json:"_coverageSchema"`
}

func parse(path, hash string, data []byte) (*File, error) {
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}

	f := &File{
		path:           path,
		hash:           hash,
		all:            rec.All,
		statementMap:   orEmpty(rec.StatementMap),
		fnMap:          orEmpty(rec.FnMap),
		branchMap:      orEmpty(rec.BranchMap),
		inputSourceMap: rec.InputSourceMap,
		schema:         rec.Schema,
	}

	var err error

	if f.s, err = dense(rec.S); err != nil {
		return nil, err
	}

	if f.f, err = dense(rec.F); err != nil {
		return nil, err
	}

	if f.b, err = dense(rec.B); err != nil {
		return nil, err
	}

	for i := range f.b {
		f.b[i] = make([]uint32, len(f.b[i]))
	}

	if rec.BT != nil {
		f.bt = make(map[int][]uint32, len(rec.BT))

		for k, v := range rec.BT {
			idx, err := strconv.Atoi(k)
			if err != nil || idx < 0 || idx >= len(f.b) || strconv.Itoa(idx) != k || len(v) != len(f.b[idx]) {
				return nil, fmt.Errorf("bad truthy counters %q", k)
			}

			f.bt[idx] = make([]uint32, len(v))
		}
	}

	return f, nil
}

func dense[T any](keyed map[string]T) ([]T, error) {
	out := make([]T, len(keyed))

	for k, v := range keyed {
		idx, err := strconv.Atoi(k)
		if err != nil || idx < 0 || idx >= len(keyed) || strconv.Itoa(idx) != k {
			return nil, fmt.Errorf("index %q is not dense", k)
		}

		out[idx] = v
	}

	return out, nil
}

func orEmpty(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 || string(raw) == "null" {
		return json.RawMessage("{}")
	}

	return raw
}

// writeJSON emits the record with live counters, in the field order used by
// the goistanbul coverage model.
func (f *File) writeJSON(buf *bytes.Buffer) error {
	buf.WriteString(`{"all":`)
	buf.WriteString(strconv.FormatBool(f.all))
	buf.WriteString(`,"path":`)

	if err := writeString(buf, f.path); err != nil {
		return err
	}

	buf.WriteString(`,"statementMap":`)
	buf.Write(f.statementMap)
	buf.WriteString(`,"fnMap":`)
	buf.Write(f.fnMap)
	buf.WriteString(`,"branchMap":`)
	buf.Write(f.branchMap)
	buf.WriteString(`,"s":`)
	writeCounters(buf, f.s)
	buf.WriteString(`,"f":`)
	writeCounters(buf, f.f)
	buf.WriteString(`,"b":{`)

	for i, paths := range f.b {
		if i > 0 {
			buf.WriteByte(',')
		}

		fmt.Fprintf(buf, `"%d":`, i)
		writeArray(buf, paths)
	}

	buf.WriteByte('}')

	if f.bt != nil {
		buf.WriteString(`,"bT":{`)

		first := true

		for i := range f.b {
			truthy, ok := f.bt[i]
			if !ok {
				continue
			}

			if !first {
				buf.WriteByte(',')
			}

			first = false

			fmt.Fprintf(buf, `"%d":`, i)
			writeArray(buf, truthy)
		}

		buf.WriteByte('}')
	}

	if len(f.inputSourceMap) > 0 && string(f.inputSourceMap) != "null" {
		buf.WriteString(`,"inputSourceMap":`)
		buf.Write(f.inputSourceMap)
	}

	if len(f.schema) > 0 {
		buf.WriteString(`,"_coverageSchema":`)
		buf.Write(f.schema)
	}

	buf.WriteString(`,"hash":`)

	if err := writeString(buf, f.hash); err != nil {
		return err
	}

	buf.WriteByte('}')

	return nil
}

func writeCounters(buf *bytes.Buffer, counters []uint32) {
	buf.WriteByte('{')

	for i := range counters {
		if i > 0 {
			buf.WriteByte(',')
		}

		fmt.Fprintf(buf, `"%d":%d`, i, atomic.LoadUint32(&counters[i]))
	}

	buf.WriteByte('}')
}

func writeArray(buf *bytes.Buffer, counters []uint32) {
	buf.WriteByte('[')

	for i := range counters {
		if i > 0 {
			buf.WriteByte(',')
		}

		buf.WriteString(strconv.FormatUint(uint64(atomic.LoadUint32(&counters[i])), 10))
	}

	buf.WriteByte(']')
}

func writeString(buf *bytes.Buffer, s string) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}

	buf.Write(raw)

	return nil
}
