package domain

import (
	"fmt"
	"go/ast"
	"go/token"
	"strconv"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/errors"
	"golang.org/x/tools/go/ast/astutil"

	"github.com/mouse-blink/goistanbul/internal/adapter"
	"github.com/mouse-blink/goistanbul/internal/coverage"
	m "github.com/mouse-blink/goistanbul/internal/model"
)

// RuntimeImportPath is the package every instrumented file imports.
const RuntimeImportPath = "github.com/mouse-blink/goistanbul/pkg/covrt"

const (
	runtimeAlias            = "goistanbulcovrt"
	defaultCoverageVariable = "__coverage__"
)

// InstrumentOptions tunes what the instrumentor records and injects.
type InstrumentOptions struct {
	// ReportLogic keeps truthy counters for every && and || operand.
	ReportLogic bool
	// FlushMain makes main() of package main write coverage on return.
	FlushMain bool
	// CoverageVariable prefixes the generated per-file counter variable.
	CoverageVariable string
}

// InstrumentResult is the outcome of instrumenting one file.
type InstrumentResult struct {
	// Coverage is the baseline record with all counters at zero.
	Coverage *coverage.FileCoverage
	Output   []byte
	Hash     string
	// Ignored is set when the file carries an ignore-file hint; Output is
	// then the unchanged source.
	Ignored bool
}

// Instrumentor rewrites Go sources so that running them counts executed
// statements, functions and branch paths.
type Instrumentor interface {
	Instrument(source m.Source, src []byte) (InstrumentResult, error)
	// InstrumentTestMain makes an existing TestMain flush coverage. It
	// reports false when src declares no TestMain.
	InstrumentTestMain(path m.Path, src []byte) ([]byte, bool, error)
}

type instrumentor struct {
	goAdapter adapter.GoFileAdapter
	opts      InstrumentOptions
}

// NewInstrumentor creates an Instrumentor that parses and prints through goAdapter.
func NewInstrumentor(goAdapter adapter.GoFileAdapter, opts InstrumentOptions) Instrumentor {
	if opts.CoverageVariable == "" {
		opts.CoverageVariable = defaultCoverageVariable
	}

	return &instrumentor{goAdapter: goAdapter, opts: opts}
}

func (in *instrumentor) Instrument(source m.Source, src []byte) (InstrumentResult, error) {
	if source.Origin == nil || source.Origin.Path == "" {
		return InstrumentResult{}, errors.New("missing source origin")
	}

	path := string(source.Origin.Path)
	fset := token.NewFileSet()

	file, err := in.goAdapter.Parse(fset, path, src)
	if err != nil {
		return InstrumentResult{}, err
	}

	hints := buildIgnoreIndex(file, fset, src)
	sc := coverage.NewSourceCoverage(path, in.opts.ReportLogic)

	if hints.file {
		sc.MarkAll()
		fc := sc.Snapshot()

		hash, err := coverage.ContentHash(fc)
		if err != nil {
			return InstrumentResult{}, err
		}

		return InstrumentResult{Coverage: fc, Output: src, Hash: hash, Ignored: true}, nil
	}

	v := newVisitor(fset, file, hints, sc, coverageVariable(in.opts.CoverageVariable, path))
	astutil.Apply(file, v.pre, v.post)

	if in.opts.FlushMain && file.Name.Name == "main" {
		v.edits = append(v.edits, flushEdits(v.tf, file, "main")...)
	}

	fc := sc.Snapshot()

	data, hash, err := coverage.EncodeRecord(fc)
	if err != nil {
		return InstrumentResult{}, err
	}

	v.edits = append(v.edits,
		importEdit(v.tf, file),
		adapter.Insertion{Offset: len(src), Text: registration(v.covVar, path, hash, data)},
	)

	out, err := in.rewrite(path, src, v.edits)
	if err != nil {
		return InstrumentResult{}, err
	}

	return InstrumentResult{Coverage: fc, Output: out, Hash: hash}, nil
}

// rewrite applies edits to src and checks that the result is still Go.
func (in *instrumentor) rewrite(path string, src []byte, edits []adapter.Insertion) ([]byte, error) {
	out, err := in.goAdapter.Insert(src, edits)
	if err != nil {
		return nil, errors.Wrapf(err, "rewrite %s", path)
	}

	if _, err := in.goAdapter.Parse(token.NewFileSet(), path, out); err != nil {
		return nil, errors.Wrapf(err, "instrumented %s", path)
	}

	return out, nil
}

func (in *instrumentor) InstrumentTestMain(path m.Path, src []byte) ([]byte, bool, error) {
	fset := token.NewFileSet()

	file, err := in.goAdapter.Parse(fset, string(path), src)
	if err != nil {
		return nil, false, err
	}

	tf := fset.File(file.Package)

	edits := flushEdits(tf, file, "TestMain")
	if edits == nil {
		return src, false, nil
	}

	out, err := in.rewrite(string(path), src, append(edits, importEdit(tf, file)))
	if err != nil {
		return nil, false, err
	}

	return out, true, nil
}

// FlushTestMain returns a test file declaring a TestMain that flushes coverage
// after the tests of pkg ran.
func FlushTestMain(pkg string) []byte {
	return []byte(fmt.Sprintf(`package %s

import (
	"os"
	"testing"

	%s %q
)

func TestMain(m *testing.M) {
	os.Exit(%s.ExitCode(m.Run()))
}
`, pkg, runtimeAlias, RuntimeImportPath, runtimeAlias))
}

// coverageVariable derives a stable identifier for the counters of path.
func coverageVariable(prefix, path string) string {
	clean := strings.Map(func(r rune) rune {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}

		return -1
	}, prefix)

	if clean == "" || unicode.IsDigit([]rune(clean)[0]) {
		clean = defaultCoverageVariable + clean
	}

	return fmt.Sprintf("%s%016x", clean, xxhash.Sum64String(path))
}

// visitor carries the state of one astutil.Apply pass. The tree is never
// modified; counters are collected as insertions into the source text.
type visitor struct {
	fset   *token.FileSet
	tf     *token.File
	hints  ignoreIndex
	sc     *coverage.SourceCoverage
	covVar string
	edits  []adapter.Insertion

	skip    map[ast.Node]bool
	elseIfs map[*ast.IfStmt]bool
	chained map[*ast.BinaryExpr]bool
	// wrapped holds the end offset of an else-if that got braces around it.
	wrapped map[*ast.IfStmt]int
}

func newVisitor(fset *token.FileSet, file *ast.File, hints ignoreIndex, sc *coverage.SourceCoverage, covVar string) *visitor {
	return &visitor{
		fset:    fset,
		tf:      fset.File(file.Package),
		hints:   hints,
		sc:      sc,
		covVar:  covVar,
		skip:    map[ast.Node]bool{},
		elseIfs: map[*ast.IfStmt]bool{},
		chained: map[*ast.BinaryExpr]bool{},
		wrapped: map[*ast.IfStmt]int{},
	}
}

func (v *visitor) pre(c *astutil.Cursor) bool {
	n := c.Node()
	if n == nil || v.skip[n] {
		return n == nil
	}

	switch node := n.(type) {
	case *ast.GenDecl:
		// constant expressions cannot hold counter calls
		if node.Tok == token.CONST {
			return false
		}
	case *ast.FuncDecl:
		if node.Body == nil || v.ignored(node.Pos()) {
			return false
		}

		v.function(funcName(node), v.span(node.Pos(), node.Type.End()), node.Body)
	case *ast.FuncLit:
		if v.ignored(node.Pos()) {
			return false
		}

		v.function("", v.rangeOf(node.Type), node.Body)
	}

	if stmt, ok := n.(ast.Stmt); ok && isListedStmt(c, stmt) {
		if v.ignored(stmt.Pos()) {
			return false
		}

		idx := v.sc.NewStatement(v.rangeOf(stmt))
		v.insert(stmt.Pos(), v.counter("Stmt", idx))
	}

	switch node := n.(type) {
	case *ast.IfStmt:
		v.ifBranch(node)
	case *ast.SwitchStmt:
		v.clauses(node, node.Body)
	case *ast.TypeSwitchStmt:
		v.clauses(node, node.Body)
	case *ast.SelectStmt:
		v.clauses(node, node.Body)
	case *ast.BinaryExpr:
		if isLogical(node) && !v.chained[node] {
			if v.ignored(node.Pos()) {
				return false
			}

			v.logical(node)
		}
	}

	return true
}

// post closes the braces opened around an else-if once everything nested in
// it, including its own implicit else, has been emitted.
func (v *visitor) post(c *astutil.Cursor) bool {
	if node, ok := c.Node().(*ast.IfStmt); ok {
		if end, ok := v.wrapped[node]; ok {
			v.edits = append(v.edits, adapter.Insertion{Offset: end, Text: " }"})
		}
	}

	return true
}

func (v *visitor) ignored(pos token.Pos) bool {
	return v.hints.at(v.fset, pos).has(ignoreNext)
}

func (v *visitor) function(name string, decl m.Range, body *ast.BlockStmt) {
	idx := v.sc.NewFunction(name, decl, v.rangeOf(body))
	v.prepend(body, v.counter("Func", idx))
}

func (v *visitor) ifBranch(node *ast.IfStmt) {
	kind := m.BranchIf
	if v.elseIfs[node] {
		kind = m.BranchElseIf
	}

	hint := v.hints.at(v.fset, node.Pos())
	b := v.sc.NewBranch(kind, v.rangeOf(node), false)

	if hint.has(ignoreIf) {
		v.skip[node.Body] = true
	} else {
		p := v.sc.AddBranchPath(b, v.rangeOf(node.Body))
		v.prepend(node.Body, v.counter("Branch", b, p))
	}

	if hint.has(ignoreElse) {
		if node.Else != nil {
			v.skip[node.Else] = true
		}

		return
	}

	switch els := node.Else.(type) {
	case nil:
		// the implicit else shares the location of the whole statement
		p := v.sc.AddBranchPath(b, v.rangeOf(node))
		v.insert(node.End(), " else { "+v.counter("Branch", b, p)+"}")
	case *ast.BlockStmt:
		p := v.sc.AddBranchPath(b, v.rangeOf(els))
		v.prepend(els, v.counter("Branch", b, p))
	case *ast.IfStmt:
		p := v.sc.AddBranchPath(b, v.rangeOf(els))
		v.elseIfs[els] = true
		v.insert(els.Pos(), "{ "+v.counter("Branch", b, p))
		v.wrapped[node] = v.offset(els.End())
	}
}

// clauses registers one path per case or comm clause of a switch, type
// switch or select.
func (v *visitor) clauses(node ast.Stmt, body *ast.BlockStmt) {
	b := v.sc.NewBranch(m.BranchSwitch, v.rangeOf(node), false)

	for _, s := range body.List {
		if v.ignored(s.Pos()) {
			v.skip[s] = true
			continue
		}

		p := v.sc.AddBranchPath(b, v.rangeOf(s))

		switch clause := s.(type) {
		case *ast.CaseClause:
			v.insertAt(v.offset(clause.Colon)+1, " "+v.counter("Branch", b, p))
		case *ast.CommClause:
			v.insertAt(v.offset(clause.Colon)+1, " "+v.counter("Branch", b, p))
		}
	}
}

func (v *visitor) logical(root *ast.BinaryExpr) {
	b := v.sc.NewBranch(m.BranchBinaryExpr, v.rangeOf(root), true)

	var leaves []ast.Expr

	v.collectLeaves(root, &leaves)

	for _, leaf := range leaves {
		p := v.sc.AddBranchPath(b, v.rangeOf(leaf))
		v.insert(leaf.Pos(), fmt.Sprintf("%s.Logic(%s, %d, %d, ", runtimeAlias, v.covVar, b, p))
		v.insert(leaf.End(), ")")
	}
}

// collectLeaves flattens a chain of && and || operators, looking through
// parentheses, into its operands in source order.
func (v *visitor) collectLeaves(e ast.Expr, out *[]ast.Expr) {
	switch x := e.(type) {
	case *ast.BinaryExpr:
		if isLogical(x) {
			v.chained[x] = true
			v.collectLeaves(x.X, out)
			v.collectLeaves(x.Y, out)

			return
		}
	case *ast.ParenExpr:
		if inner, ok := astutil.Unparen(x).(*ast.BinaryExpr); ok && isLogical(inner) {
			v.collectLeaves(inner, out)
			return
		}
	}

	*out = append(*out, e)
}

// prepend inserts text right after the opening brace of block.
func (v *visitor) prepend(block *ast.BlockStmt, text string) {
	v.insertAt(v.offset(block.Lbrace)+1, text)
}

func (v *visitor) insert(pos token.Pos, text string) {
	v.insertAt(v.offset(pos), text)
}

func (v *visitor) insertAt(offset int, text string) {
	v.edits = append(v.edits, adapter.Insertion{Offset: offset, Text: text})
}

func (v *visitor) offset(pos token.Pos) int {
	return v.tf.Offset(pos)
}

// counter renders the statement covVar.method(args...); followed by a space.
func (v *visitor) counter(method string, args ...int) string {
	values := make([]string, len(args))
	for i, a := range args {
		values[i] = strconv.Itoa(a)
	}

	return fmt.Sprintf("%s.%s(%s); ", v.covVar, method, strings.Join(values, ", "))
}

func (v *visitor) rangeOf(n ast.Node) m.Range {
	return v.span(n.Pos(), n.End())
}

func (v *visitor) span(from, to token.Pos) m.Range {
	start := v.fset.PositionFor(from, false)
	end := v.fset.PositionFor(to, false)

	return m.NewRange(uint32(start.Line), column(start), uint32(end.Line), column(end))
}

func column(p token.Position) uint32 {
	if p.Column < 1 {
		return 0
	}

	return uint32(p.Column - 1)
}

// isListedStmt reports whether the cursor sits on a statement of a block or
// clause body, where a counter can be inserted in front of it.
func isListedStmt(c *astutil.Cursor, stmt ast.Stmt) bool {
	if c.Index() < 0 {
		return false
	}

	switch stmt.(type) {
	case *ast.CaseClause, *ast.CommClause, *ast.EmptyStmt:
		return false
	}

	switch c.Parent().(type) {
	case *ast.BlockStmt:
		return c.Name() == "List"
	case *ast.CaseClause, *ast.CommClause:
		return c.Name() == "Body"
	}

	return false
}

func isLogical(e *ast.BinaryExpr) bool {
	return e.Op == token.LAND || e.Op == token.LOR
}

func funcName(fd *ast.FuncDecl) string {
	if fd.Recv == nil || len(fd.Recv.List) == 0 {
		return fd.Name.Name
	}

	return receiverName(fd.Recv.List[0].Type) + "." + fd.Name.Name
}

func receiverName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return receiverName(t.X)
	case *ast.IndexExpr:
		return receiverName(t.X)
	case *ast.IndexListExpr:
		return receiverName(t.X)
	case *ast.ParenExpr:
		return receiverName(t.X)
	case *ast.Ident:
		return t.Name
	default:
		return "?"
	}
}

// flushEdits makes the top-level function fnName flush coverage both when it
// returns and before any os.Exit it calls. It returns nil when fnName does
// not exist.
func flushEdits(tf *token.File, file *ast.File, fnName string) []adapter.Insertion {
	var target *ast.FuncDecl

	for _, decl := range file.Decls {
		if fd, ok := decl.(*ast.FuncDecl); ok && fd.Recv == nil && fd.Name.Name == fnName && fd.Body != nil {
			target = fd
			break
		}
	}

	if target == nil {
		return nil
	}

	edits := []adapter.Insertion{{
		Offset: tf.Offset(target.Body.Lbrace) + 1,
		Text:   fmt.Sprintf("defer %s.Flush(); ", runtimeAlias),
	}}

	if osName := importName(file, "os"); osName != "" {
		ast.Inspect(target.Body, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok || len(call.Args) != 1 {
				return true
			}

			sel, ok := call.Fun.(*ast.SelectorExpr)
			if !ok || sel.Sel.Name != "Exit" {
				return true
			}

			if pkg, ok := sel.X.(*ast.Ident); ok && pkg.Name == osName {
				edits = append(edits,
					adapter.Insertion{Offset: tf.Offset(call.Args[0].Pos()), Text: runtimeAlias + ".ExitCode("},
					adapter.Insertion{Offset: tf.Offset(call.Args[0].End()), Text: ")"},
				)
			}

			return true
		})
	}

	return edits
}

// importEdit imports the runtime right after the package clause, keeping
// every following line where it was.
func importEdit(tf *token.File, file *ast.File) adapter.Insertion {
	return adapter.Insertion{
		Offset: tf.Offset(file.Name.End()),
		Text:   fmt.Sprintf("; import %s %q", runtimeAlias, RuntimeImportPath),
	}
}

// importName returns the local name under which file imports path, or "" if
// it is not imported by name.
func importName(file *ast.File, path string) string {
	for _, imp := range file.Imports {
		p, err := strconv.Unquote(imp.Path.Value)
		if err != nil || p != path {
			continue
		}

		if imp.Name == nil {
			return path[strings.LastIndex(path, "/")+1:]
		}

		if imp.Name.Name == "_" || imp.Name.Name == "." {
			return ""
		}

		return imp.Name.Name
	}

	return ""
}

// registration declares var covVar = goistanbulcovrt.Register(path, hash, data)
// on its own lines after the end of the file.
func registration(covVar, path, hash string, data []byte) string {
	return fmt.Sprintf("\nvar %s = %s.Register(%s, %s, %s)\n",
		covVar, runtimeAlias, strconv.Quote(path), strconv.Quote(hash), strconv.Quote(string(data)))
}
