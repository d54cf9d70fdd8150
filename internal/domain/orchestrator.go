package domain

import (
	"context"
	"go/token"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/op/go-logging"
	"golang.org/x/mod/modfile"

	"github.com/mouse-blink/goistanbul/internal/adapter"
	m "github.com/mouse-blink/goistanbul/internal/model"
	"github.com/mouse-blink/goistanbul/pkg/covrt"
)

// RuntimeModule is the module providing RuntimeImportPath.
const RuntimeModule = "github.com/mouse-blink/goistanbul"

// FlushTestFile is written next to tests that declare no TestMain.
const FlushTestFile = "goistanbul_flush_test.go"

// Orchestrator coordinates the test run of an instrumented project copy:
// test binaries are hooked to flush coverage, then go test runs with the
// runtime pointed at an output directory.
type Orchestrator interface {
	// InstallHooks makes every test binary under dir flush coverage when it
	// exits and makes the runtime package resolvable from dir's module.
	InstallHooks(ctx context.Context, dir m.Path) error
	// RunTests runs go test in dir with args (./... when empty). Coverage is
	// flushed into outputDir. The test output is returned even when tests fail.
	RunTests(ctx context.Context, dir, outputDir m.Path, args []string) ([]byte, error)
}

type orchestrator struct {
	fsAdapter    adapter.SourceFSAdapter
	goAdapter    adapter.GoFileAdapter
	testAdapter  adapter.TestRunnerAdapter
	instrumentor Instrumentor
	// runtimeReplace points RuntimeModule at a local checkout when set.
	runtimeReplace string
	log            *logging.Logger
}

// NewOrchestrator constructs an Orchestrator backed by the provided adapters.
func NewOrchestrator(
	fsAdapter adapter.SourceFSAdapter,
	goAdapter adapter.GoFileAdapter,
	testAdapter adapter.TestRunnerAdapter,
	instrumentor Instrumentor,
	runtimeReplace string,
	log *logging.Logger,
) Orchestrator {
	return &orchestrator{
		fsAdapter:      fsAdapter,
		goAdapter:      goAdapter,
		testAdapter:    testAdapter,
		instrumentor:   instrumentor,
		runtimeReplace: runtimeReplace,
		log:            log,
	}
}

func (o *orchestrator) InstallHooks(ctx context.Context, dir m.Path) error {
	tests, err := o.fsAdapter.TestFiles(dir)
	if err != nil {
		return errors.Wrapf(err, "list tests in %s", dir)
	}

	var dirs []string

	byDir := make(map[string][]m.Path)

	for _, test := range tests {
		d := filepath.Dir(string(test))
		if _, ok := byDir[d]; !ok {
			dirs = append(dirs, d)
		}

		byDir[d] = append(byDir[d], test)
	}

	for _, d := range dirs {
		if err := o.hookPackage(m.Path(d), byDir[d]); err != nil {
			return err
		}
	}

	return o.wireRuntime(ctx, dir)
}

// hookPackage makes the test binary built from files flush on exit: an
// existing TestMain is rewritten, otherwise one is added.
func (o *orchestrator) hookPackage(dir m.Path, files []m.Path) error {
	var pkg string

	for _, file := range files {
		if filepath.Base(string(file)) == FlushTestFile {
			return nil
		}

		src, err := o.fsAdapter.ReadFile(file)
		if err != nil {
			return errors.Wrapf(err, "read %s", file)
		}

		out, ok, err := o.instrumentor.InstrumentTestMain(file, src)
		if err != nil {
			return errors.Wrapf(err, "hook TestMain in %s", file)
		}

		if ok {
			o.log.Debugf("flush added to TestMain in %s", file)

			return errors.Wrapf(o.fsAdapter.WriteFile(file, out, 0o600), "write %s", file)
		}

		name, err := o.packageName(file, src)
		if err != nil {
			return err
		}

		// Prefer the package under test over its external _test package.
		if pkg == "" || (strings.HasSuffix(pkg, "_test") && !strings.HasSuffix(name, "_test")) {
			pkg = name
		}
	}

	target := o.fsAdapter.JoinPath(string(dir), FlushTestFile)
	o.log.Debugf("writing %s (package %s)", target, pkg)

	return errors.Wrapf(o.fsAdapter.WriteFile(target, FlushTestMain(pkg), 0o600), "write %s", target)
}

func (o *orchestrator) packageName(path m.Path, src []byte) (string, error) {
	file, err := o.goAdapter.Parse(token.NewFileSet(), string(path), src)
	if err != nil {
		return "", errors.Wrapf(err, "parse %s", path)
	}

	return file.Name.Name, nil
}

// wireRuntime adds the runtime requirement to dir's go.mod. Without a local
// replacement go test -mod=mod resolves the module itself.
func (o *orchestrator) wireRuntime(ctx context.Context, dir m.Path) error {
	goMod := o.fsAdapter.JoinPath(string(dir), "go.mod")

	data, err := o.fsAdapter.ReadFile(goMod)
	if err != nil {
		return errors.Wrapf(err, "read %s", goMod)
	}

	if modfile.ModulePath(data) == RuntimeModule {
		return nil
	}

	if o.runtimeReplace == "" {
		o.log.Warningf("runtime_replace is not set; %s is resolved through GOPROXY", RuntimeModule)
		return nil
	}

	replace, err := filepath.Abs(o.runtimeReplace)
	if err != nil {
		return errors.Wrapf(err, "resolve runtime_replace %s", o.runtimeReplace)
	}

	o.log.Debugf("replacing %s with %s", RuntimeModule, replace)

	return o.testAdapter.GoModEdit(ctx, string(dir),
		"-require="+RuntimeModule+"@v0.0.0",
		"-replace="+RuntimeModule+"="+replace,
	)
}

func (o *orchestrator) RunTests(ctx context.Context, dir, outputDir m.Path, args []string) ([]byte, error) {
	out, err := filepath.Abs(string(outputDir))
	if err != nil {
		return nil, errors.Wrapf(err, "resolve %s", outputDir)
	}

	if len(args) == 0 {
		args = []string{"./..."}
	}

	env := []string{covrt.OutputDirEnv + "=" + out}
	goArgs := append([]string{"-mod=mod"}, args...)

	o.log.Infof("running go test %s in %s", strings.Join(goArgs, " "), dir)

	return o.testAdapter.RunGoTest(ctx, string(dir), env, goArgs...)
}
