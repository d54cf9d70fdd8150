package domain

import (
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mouse-blink/goistanbul/internal/adapter"
	m "github.com/mouse-blink/goistanbul/internal/model"
)

func instrumentSource(t *testing.T, opts InstrumentOptions, src string) InstrumentResult {
	t.Helper()

	in := NewInstrumentor(adapter.NewLocalGoFileAdapter(), opts)
	source := m.Source{Origin: &m.File{Path: "/project/sample.go"}}

	res, err := in.Instrument(source, []byte(src))
	require.NoError(t, err)

	if !res.Ignored {
		_, err = parser.ParseFile(token.NewFileSet(), "out.go", res.Output, parser.ParseComments)
		require.NoError(t, err, "instrumented output must parse:\n%s", res.Output)
	}

	return res
}

func startLines(ranges []m.Range) []uint32 {
	lines := make([]uint32, 0, len(ranges))
	for _, r := range ranges {
		lines = append(lines, r.Start.Line)
	}

	return lines
}

func TestInstrument_IfElseChain(t *testing.T) {
	const src = `package sample

func classify(n int) string {
	if n < 0 {
		return "negative"
	} else if n == 0 {
		return "zero"
	}
	return "positive"
}
`
	res := instrumentSource(t, InstrumentOptions{}, src)
	fc := res.Coverage

	assert.Equal(t, []uint32{4, 5, 6, 7, 9}, startLines(fc.StatementMap))
	require.Len(t, fc.FnMap, 1)
	assert.Equal(t, "classify", fc.FnMap[0].Name)
	assert.Equal(t, uint32(3), fc.FnMap[0].Line)

	require.Len(t, fc.BranchMap, 2)
	assert.Equal(t, m.BranchIf, fc.BranchMap[0].Type)
	assert.Equal(t, m.BranchElseIf, fc.BranchMap[1].Type)
	assert.Equal(t, [][]uint32{{0, 0}, {0, 0}}, fc.B)

	// the implicit else of the inner if spans the whole if statement
	assert.Equal(t, *fc.BranchMap[1].Loc, fc.BranchMap[1].Locations[1])

	out := string(res.Output)
	assert.Contains(t, out, `goistanbulcovrt "`+RuntimeImportPath+`"`)
	assert.Contains(t, out, "goistanbulcovrt.Register(")
	assert.Equal(t, 5, strings.Count(out, ".Stmt("))
	assert.Equal(t, 1, strings.Count(out, ".Func("))
	assert.Equal(t, 4, strings.Count(out, ".Branch("))
	assert.NotEmpty(t, res.Hash)
	assert.False(t, fc.ReportLogic())
}

func TestInstrument_KeepsCommentsAndLines(t *testing.T) {
	const src = `package sample

// Abs returns the magnitude of n.
func Abs(n int) int {
	/* flip negatives */
	if n < 0 { // negative
		return -n // flipped
	}
	// already positive
	return n
}

func Either(a, b bool) bool {
	return a && // left
		b /* right */ || !a
}
`
	res := instrumentSource(t, InstrumentOptions{}, src)
	fc := res.Coverage

	assert.Equal(t, []uint32{6, 7, 10, 14}, startLines(fc.StatementMap))
	assert.Equal(t, [][]uint32{{0, 0}, {0, 0, 0}}, fc.B)

	lines := strings.Split(string(res.Output), "\n")
	for line, want := range map[int]string{
		3:  "// Abs returns the magnitude of n.",
		5:  "/* flip negatives */",
		6:  "// negative",
		7:  "return -n // flipped",
		9:  "// already positive",
		10: "return n",
		14: "// left",
		15: "/* right */",
	} {
		assert.Contains(t, lines[line-1], want, "line %d", line)
	}

	assert.Contains(t, lines[7], "} else { ")
}

func TestInstrument_SwitchAndSelect(t *testing.T) {
	const src = `package sample

func kind(v any) int {
	switch v.(type) {
	case int:
		return 1
	case string:
		return 2
	default:
		return 0
	}
}

func pick(ch chan int, n int) int {
	select {
	case x := <-ch:
		return x
	default:
	}
	switch {
	case n > 1:
		return n
	}
	return -1
}
`
	fc := instrumentSource(t, InstrumentOptions{}, src).Coverage

	require.Len(t, fc.BranchMap, 3)

	for _, b := range fc.BranchMap {
		assert.Equal(t, m.BranchSwitch, b.Type)
	}

	assert.Equal(t, [][]uint32{{0, 0, 0}, {0, 0}, {0}}, fc.B)
	assert.Len(t, fc.S, 9)
	assert.Len(t, fc.F, 2)
}

func TestInstrument_LogicalExpressions(t *testing.T) {
	const src = `package sample

const debug = true && false

func ok(a, b, c bool) bool {
	return a && (b || c)
}
`
	res := instrumentSource(t, InstrumentOptions{ReportLogic: true}, src)
	fc := res.Coverage

	require.Len(t, fc.BranchMap, 1)
	assert.Equal(t, m.BranchBinaryExpr, fc.BranchMap[0].Type)
	assert.Len(t, fc.BranchMap[0].Locations, 3)
	assert.Equal(t, map[int][]uint32{0: {0, 0, 0}}, fc.BT)

	// leaves in source order: a, b, c
	assert.Equal(t, uint32(8), fc.BranchMap[0].Locations[0].Start.Column)
	assert.Equal(t, uint32(14), fc.BranchMap[0].Locations[1].Start.Column)
	assert.Equal(t, uint32(19), fc.BranchMap[0].Locations[2].Start.Column)

	out := string(res.Output)
	assert.Equal(t, 3, strings.Count(out, "goistanbulcovrt.Logic("))
	assert.Contains(t, out, "const debug = true && false")
}

func TestInstrument_FunctionNames(t *testing.T) {
	const src = `package sample

type Server struct{}

func (s *Server) Start() {
	run := func() {}
	run()
}

func Map[T any](xs []T) {}
`
	fc := instrumentSource(t, InstrumentOptions{}, src).Coverage

	require.Len(t, fc.FnMap, 3)
	assert.Equal(t, "Server.Start", fc.FnMap[0].Name)
	assert.Equal(t, "(anonymous_1)", fc.FnMap[1].Name)
	assert.Equal(t, "Map", fc.FnMap[2].Name)
}

func TestInstrument_IgnoreHints(t *testing.T) {
	const src = `package sample

// istanbul ignore next
func skipped() int {
	return 1
}

func partial(n int) int {
	/* istanbul ignore if */
	if n > 0 {
		return n
	}
	// istanbul ignore else
	if n < -10 {
		n = -10
	} else {
		n++
	}
	x := n // istanbul ignore next
	return x
}
`
	fc := instrumentSource(t, InstrumentOptions{}, src).Coverage

	require.Len(t, fc.FnMap, 1)
	assert.Equal(t, "partial", fc.FnMap[0].Name)
	assert.Equal(t, []uint32{10, 14, 15, 20}, startLines(fc.StatementMap))
	assert.Equal(t, [][]uint32{{0}, {0}}, fc.B)
}

func TestInstrument_IgnoreFile(t *testing.T) {
	const src = `// istanbul ignore file

package sample

func f() {}
`
	res := instrumentSource(t, InstrumentOptions{}, src)

	assert.True(t, res.Ignored)
	assert.True(t, res.Coverage.All)
	assert.Equal(t, src, string(res.Output))
	assert.Empty(t, res.Coverage.FnMap)
}

func TestInstrument_FlushMain(t *testing.T) {
	const src = `package main

import "os"

func main() {
	if len(os.Args) > 5 {
		os.Exit(2)
	}
}
`
	out := string(instrumentSource(t, InstrumentOptions{FlushMain: true}, src).Output)

	assert.Contains(t, out, "defer goistanbulcovrt.Flush()")
	assert.Contains(t, out, "os.Exit(goistanbulcovrt.ExitCode(2))")

	out = string(instrumentSource(t, InstrumentOptions{}, src).Output)
	assert.NotContains(t, out, "goistanbulcovrt.Flush()")
}

func TestInstrument_CoverageVariable(t *testing.T) {
	const src = "package sample\n\nfunc f() {}\n"

	out := string(instrumentSource(t, InstrumentOptions{CoverageVariable: "cov"}, src).Output)
	name := coverageVariable("cov", "/project/sample.go")

	assert.Contains(t, out, "var "+name+" = goistanbulcovrt.Register(")
	assert.Contains(t, out, name+".Func(0)")
	assert.Equal(t, name, coverageVariable("cov", "/project/sample.go"))
	assert.NotEqual(t, name, coverageVariable("cov", "/project/other.go"))
	assert.True(t, strings.HasPrefix(coverageVariable("9-x", "a.go"), defaultCoverageVariable))
}

func TestInstrument_MissingOrigin(t *testing.T) {
	in := NewInstrumentor(adapter.NewLocalGoFileAdapter(), InstrumentOptions{})

	_, err := in.Instrument(m.Source{}, []byte("package p"))
	assert.Error(t, err)
}

func TestInstrument_ParseError(t *testing.T) {
	in := NewInstrumentor(adapter.NewLocalGoFileAdapter(), InstrumentOptions{})

	_, err := in.Instrument(m.Source{Origin: &m.File{Path: "broken.go"}}, []byte("package p\nfunc"))
	assert.Error(t, err)
}

func TestInstrumentTestMain(t *testing.T) {
	in := NewInstrumentor(adapter.NewLocalGoFileAdapter(), InstrumentOptions{})

	const withMain = `package sample

import (
	"os"
	"testing"
)

func TestMain(m *testing.M) {
	os.Exit(m.Run())
}
`
	out, ok, err := in.InstrumentTestMain("main_test.go", []byte(withMain))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, string(out), "os.Exit(goistanbulcovrt.ExitCode(m.Run()))")
	assert.Contains(t, string(out), RuntimeImportPath)

	const withoutMain = "package sample\n\nimport \"testing\"\n\nfunc TestX(t *testing.T) {}\n"
	out, ok, err = in.InstrumentTestMain("x_test.go", []byte(withoutMain))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, withoutMain, string(out))
}

func TestFlushTestMain(t *testing.T) {
	src := FlushTestMain("sample_test")

	file, err := parser.ParseFile(token.NewFileSet(), "flush_test.go", src, 0)
	require.NoError(t, err)
	assert.Equal(t, "sample_test", file.Name.Name)
	assert.Contains(t, string(src), "ExitCode(m.Run())")
}
