package domain_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mouse-blink/goistanbul/internal/adapter"
	adaptermocks "github.com/mouse-blink/goistanbul/internal/adapter/mocks"
	"github.com/mouse-blink/goistanbul/internal/domain"
	"github.com/mouse-blink/goistanbul/internal/logger"
	m "github.com/mouse-blink/goistanbul/internal/model"
	"github.com/mouse-blink/goistanbul/pkg/covrt"
)

const testMainSource = `package b_test

import (
	"os"
	"testing"
)

func TestMain(m *testing.M) {
	os.Exit(m.Run())
}
`

func newTestOrchestrator(t *testing.T, runtimeReplace string) (domain.Orchestrator, *adaptermocks.MockTestRunnerAdapter) {
	t.Helper()

	goAdapter := adapter.NewLocalGoFileAdapter()
	runner := adaptermocks.NewMockTestRunnerAdapter(t)

	return domain.NewOrchestrator(
		adapter.NewLocalSourceFSAdapter(),
		goAdapter,
		runner,
		domain.NewInstrumentor(goAdapter, domain.InstrumentOptions{}),
		runtimeReplace,
		logger.NewLogger("error", "orchestrator-test"),
	), runner
}

// hookedModule lays out three test packages: one without TestMain, one with
// TestMain in its second file, and one whose external test package sorts
// first.
func hookedModule(t *testing.T, modulePath string) string {
	t.Helper()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "go.mod"), "module "+modulePath+"\n\ngo 1.22\n")
	writeFile(t, filepath.Join(root, "a", "a.go"), "package a\n")
	writeFile(t, filepath.Join(root, "a", "a_test.go"), "package a\n")
	writeFile(t, filepath.Join(root, "b", "b_test.go"), "package b_test\n")
	writeFile(t, filepath.Join(root, "b", "main_test.go"), testMainSource)
	writeFile(t, filepath.Join(root, "c", "a_test.go"), "package c_test\n")
	writeFile(t, filepath.Join(root, "c", "z_test.go"), "package c\n")

	return root
}

func TestOrchestrator_InstallHooks(t *testing.T) {
	root := hookedModule(t, "example.com/app")
	orch, _ := newTestOrchestrator(t, "")

	require.NoError(t, orch.InstallHooks(context.Background(), m.Path(root)))

	flushA, err := os.ReadFile(filepath.Join(root, "a", domain.FlushTestFile))
	require.NoError(t, err)
	assert.Equal(t, string(domain.FlushTestMain("a")), string(flushA))

	flushC, err := os.ReadFile(filepath.Join(root, "c", domain.FlushTestFile))
	require.NoError(t, err)
	assert.Equal(t, string(domain.FlushTestMain("c")), string(flushC))

	// b already has a TestMain, which is rewritten in place.
	assert.NoFileExists(t, filepath.Join(root, "b", domain.FlushTestFile))

	mainTest, err := os.ReadFile(filepath.Join(root, "b", "main_test.go"))
	require.NoError(t, err)
	assert.Contains(t, string(mainTest), domain.RuntimeImportPath)
	assert.Contains(t, string(mainTest), "ExitCode(m.Run())")

	untouched, err := os.ReadFile(filepath.Join(root, "b", "b_test.go"))
	require.NoError(t, err)
	assert.Equal(t, "package b_test\n", string(untouched))
}

func TestOrchestrator_InstallHooks_SkipsHookedPackage(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "go.mod"), "module example.com/app\n")
	writeFile(t, filepath.Join(root, "a_test.go"), "package a\n")
	writeFile(t, filepath.Join(root, domain.FlushTestFile), "package a\n")

	orch, _ := newTestOrchestrator(t, "")
	require.NoError(t, orch.InstallHooks(context.Background(), m.Path(root)))

	flush, err := os.ReadFile(filepath.Join(root, domain.FlushTestFile))
	require.NoError(t, err)
	assert.Equal(t, "package a\n", string(flush))
}

func TestOrchestrator_InstallHooks_RuntimeReplace(t *testing.T) {
	root := hookedModule(t, "example.com/app")
	replace := t.TempDir()
	orch, runner := newTestOrchestrator(t, replace)

	runner.EXPECT().GoModEdit(mock.Anything, root,
		"-require="+domain.RuntimeModule+"@v0.0.0",
		"-replace="+domain.RuntimeModule+"="+replace,
	).Return(nil)

	require.NoError(t, orch.InstallHooks(context.Background(), m.Path(root)))
}

func TestOrchestrator_InstallHooks_RuntimeModuleItself(t *testing.T) {
	root := hookedModule(t, domain.RuntimeModule)
	orch, _ := newTestOrchestrator(t, t.TempDir())

	// No go mod edit is expected: the runtime is part of the module.
	require.NoError(t, orch.InstallHooks(context.Background(), m.Path(root)))
}

func TestOrchestrator_InstallHooks_MissingGoMod(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a_test.go"), "package a\n")

	orch, _ := newTestOrchestrator(t, "")
	require.Error(t, orch.InstallHooks(context.Background(), m.Path(root)))
}

func TestOrchestrator_InstallHooks_BrokenTestFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "go.mod"), "module example.com/app\n")
	writeFile(t, filepath.Join(root, "a_test.go"), "package\n")

	orch, _ := newTestOrchestrator(t, "")
	require.Error(t, orch.InstallHooks(context.Background(), m.Path(root)))
}

func TestOrchestrator_RunTests(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "runtime")

	t.Run("defaults to all packages", func(t *testing.T) {
		orch, runner := newTestOrchestrator(t, "")

		runner.EXPECT().RunGoTest(mock.Anything, dir, []string{covrt.OutputDirEnv + "=" + out}, "-mod=mod", "./...").
			Return([]byte("ok"), nil)

		output, err := orch.RunTests(context.Background(), m.Path(dir), m.Path(out), nil)
		require.NoError(t, err)
		assert.Equal(t, "ok", string(output))
	})

	t.Run("passes arguments through", func(t *testing.T) {
		orch, runner := newTestOrchestrator(t, "")

		runner.EXPECT().RunGoTest(mock.Anything, dir, mock.Anything, "-mod=mod", "-run", "TestX", "./pkg").
			Return([]byte("FAIL"), assert.AnError)

		output, err := orch.RunTests(context.Background(), m.Path(dir), m.Path(out), []string{"-run", "TestX", "./pkg"})
		require.ErrorIs(t, err, assert.AnError)
		assert.Equal(t, "FAIL", string(output))
	})
}
