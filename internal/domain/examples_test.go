package domain_test

import (
	"bytes"
	"context"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mouse-blink/goistanbul/internal/adapter"
	adaptermocks "github.com/mouse-blink/goistanbul/internal/adapter/mocks"
	"github.com/mouse-blink/goistanbul/internal/controller"
	"github.com/mouse-blink/goistanbul/internal/coverage"
	"github.com/mouse-blink/goistanbul/internal/domain"
	"github.com/mouse-blink/goistanbul/internal/logger"
	m "github.com/mouse-blink/goistanbul/internal/model"
)

// instrumentExample runs the instrument workflow over an example module with
// every collaborator real except the go toolchain.
func instrumentExample(t *testing.T, name string, opts domain.InstrumentOptions) (string, *coverage.CoverageMap, string) {
	t.Helper()

	src, err := filepath.Abs(filepath.Join("..", "..", "examples", name))
	require.NoError(t, err)

	var buf bytes.Buffer

	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	fs := adapter.NewLocalSourceFSAdapter()
	goAdapter := adapter.NewLocalGoFileAdapter()
	store := adapter.NewCoverageStore()
	instrumentor := domain.NewInstrumentor(goAdapter, opts)
	log := logger.NewLogger("error", "examples-test")
	orchestrator := domain.NewOrchestrator(fs, goAdapter, adaptermocks.NewMockTestRunnerAdapter(t), instrumentor, "", log)

	wf := domain.NewWorkflow(fs, goAdapter, store, controller.NewSimpleUI(cmd), orchestrator, instrumentor, log)

	out := filepath.Join(t.TempDir(), name)
	require.NoError(t, wf.Instrument(context.Background(), domain.InstrumentArgs{
		Paths:   []m.Path{m.Path(src + "/...")},
		Output:  m.Path(out),
		Threads: 4,
	}))

	baseline, _, err := store.Load(m.Path(filepath.Join(out, domain.BaselineFile)))
	require.NoError(t, err)

	return out, baseline, buf.String()
}

func assertParses(t *testing.T, dir string) {
	t.Helper()

	matches, err := filepath.Glob(filepath.Join(dir, "*.go"))
	require.NoError(t, err)
	require.NotEmpty(t, matches)

	for _, path := range matches {
		_, err := parser.ParseFile(token.NewFileSet(), path, nil, parser.ParseComments)
		assert.NoError(t, err, "instrumented %s must parse", path)
	}
}

func branchTypes(fc *coverage.FileCoverage) map[string]int {
	types := make(map[string]int)
	for _, b := range fc.BranchMap {
		types[b.Type.String()]++
	}

	return types
}

func TestExamples_Shapes(t *testing.T) {
	out, baseline, shown := instrumentExample(t, "shapes", domain.InstrumentOptions{ReportLogic: true})
	assertParses(t, out)

	require.Equal(t, 1, baseline.Len())
	assert.Contains(t, shown, "shapes.go")

	fc, ok := baseline.CoverageForFile(baseline.Files()[0])
	require.True(t, ok)

	names := make([]string, 0, len(fc.FnMap))
	for _, fn := range fc.FnMap {
		names = append(names, fn.Name)
	}

	assert.Equal(t, []string{"Circle.Area", "Rect.Area", "Parse", "Largest", "Describe", "Total", "(anonymous_6)"}, names)

	types := branchTypes(fc)
	assert.Equal(t, 3, types["switch"], "expression, type and select switches")
	assert.Equal(t, 5, types["if"], "if statements and the else-if link")
	assert.Equal(t, 2, types["binary-expr"])
	assert.NotEmpty(t, fc.BT, "report logic keeps truthy counters")

	for _, hits := range fc.S {
		assert.Zero(t, hits)
	}

	_, err := os.Stat(filepath.Join(out, domain.FlushTestFile))
	require.NoError(t, err)
}

func TestExamples_Ignore(t *testing.T) {
	out, baseline, shown := instrumentExample(t, "ignore", domain.InstrumentOptions{FlushMain: true})
	assertParses(t, out)

	assert.Contains(t, shown, "generated.go")
	assert.Contains(t, shown, "(ignored)")

	var main *coverage.FileCoverage

	for _, path := range baseline.Files() {
		fc, _ := baseline.CoverageForFile(path)
		if strings.HasSuffix(path, "generated.go") {
			assert.True(t, fc.All)
			assert.Empty(t, fc.StatementMap)

			continue
		}

		main = fc
	}

	require.NotNil(t, main)

	// fatal is ignored entirely.
	for _, fn := range main.FnMap {
		assert.NotEqual(t, "fatal", fn.Name)
	}

	instrumented, err := os.ReadFile(filepath.Join(out, "main.go"))
	require.NoError(t, err)
	assert.Contains(t, string(instrumented), "defer goistanbulcovrt.Flush()")
	assert.Contains(t, string(instrumented), "os.Exit(goistanbulcovrt.ExitCode(0))")

	generated, err := os.ReadFile(filepath.Join(out, "generated.go"))
	require.NoError(t, err)
	assert.NotContains(t, string(generated), "goistanbulcovrt")
}
