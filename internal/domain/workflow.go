package domain

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/op/go-logging"
	"golang.org/x/sync/errgroup"

	"github.com/mouse-blink/goistanbul/internal/adapter"
	"github.com/mouse-blink/goistanbul/internal/config"
	"github.com/mouse-blink/goistanbul/internal/controller"
	"github.com/mouse-blink/goistanbul/internal/coverage"
	"github.com/mouse-blink/goistanbul/internal/logger"
	m "github.com/mouse-blink/goistanbul/internal/model"
	"github.com/mouse-blink/goistanbul/internal/report"
)

const (
	// BaselineFile holds the zero-hit records of every instrumented file, so
	// files no test loaded still report as uncovered.
	BaselineFile = "coverage-baseline.json"
	// FinalFile is the merged coverage of a run.
	FinalFile = "coverage-final.json"

	runtimeDir = ".goistanbul_runtime"
)

// ErrTestsFailed is returned by Run after reporting when go test failed.
var ErrTestsFailed = errors.New("tests failed")

// InstrumentArgs selects the sources to instrument and where the instrumented
// copy of their module goes.
type InstrumentArgs struct {
	Paths   []m.Path
	Include []string
	Exclude []string
	Output  m.Path
	Threads int
	// Diff attaches a unified diff of every rewritten file to the UI output.
	Diff bool
}

// ReportArgs configures loading, filtering and rendering of coverage files.
type ReportArgs struct {
	Inputs     []m.Path
	Include    []string
	Exclude    []string
	Reporters  []string
	ReportDir  m.Path
	Root       m.Path
	Title      string
	Thresholds config.Thresholds
}

// RunArgs configures a full instrument, test and report cycle. Report.Inputs
// is ignored.
type RunArgs struct {
	InstrumentArgs
	Report ReportArgs
	// OutputDir receives FinalFile.
	OutputDir m.Path
	// TempDir is the parent of the instrumented copy, the system temp
	// directory when empty.
	TempDir string
	// KeepTemp leaves the instrumented copy on disk.
	KeepTemp bool
	TestArgs []string
}

// MergeArgs names coverage inputs and the file they are merged into.
type MergeArgs struct {
	Inputs []m.Path
	Output m.Path
	// Append merges into an existing Output instead of replacing it.
	Append bool
}

// Workflow drives the coverage commands.
type Workflow interface {
	Instrument(ctx context.Context, args InstrumentArgs) error
	Run(ctx context.Context, args RunArgs) error
	Report(args ReportArgs) error
	Merge(args MergeArgs) error
}

type workflow struct {
	fsAdapter    adapter.SourceFSAdapter
	goAdapter    adapter.GoFileAdapter
	store        adapter.CoverageStore
	ui           controller.UI
	orchestrator Orchestrator
	instrumentor Instrumentor
	log          *logging.Logger
}

// NewWorkflow creates a new Workflow instance with the provided collaborators.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	goAdapter adapter.GoFileAdapter,
	store adapter.CoverageStore,
	ui controller.UI,
	orchestrator Orchestrator,
	instrumentor Instrumentor,
	log *logging.Logger,
) Workflow {
	return &workflow{
		fsAdapter:    fsAdapter,
		goAdapter:    goAdapter,
		store:        store,
		ui:           ui,
		orchestrator: orchestrator,
		instrumentor: instrumentor,
		log:          log,
	}
}

func (w *workflow) Instrument(ctx context.Context, args InstrumentArgs) error {
	_, err := w.instrument(ctx, args)

	return err
}

// instrument writes the instrumented module copy and returns its baseline.
func (w *workflow) instrument(ctx context.Context, args InstrumentArgs) (*coverage.CoverageMap, error) {
	if args.Output == "" {
		return nil, errors.New("missing output directory")
	}

	filter, err := newPathFilter(args.Include, args.Exclude)
	if err != nil {
		return nil, err
	}

	sources, err := w.fsAdapter.Get(args.Paths)
	if err != nil {
		return nil, errors.Wrap(err, "get sources")
	}

	selected := make([]m.Source, 0, len(sources))

	for _, source := range sources {
		if filter.match(string(source.Origin.Path)) {
			selected = append(selected, source)
		}
	}

	if len(selected) == 0 {
		return nil, errors.Newf("no Go sources found in %v", args.Paths)
	}

	root, err := w.fsAdapter.FindProjectRoot(selected[0].Origin.Path)
	if err != nil {
		return nil, errors.Wrap(err, "find project root")
	}

	if err := w.fsAdapter.CopyDir(root, args.Output); err != nil {
		return nil, errors.Wrapf(err, "copy %s to %s", root, args.Output)
	}

	results, originals, err := w.instrumentAll(ctx, selected, args.Threads)
	if err != nil {
		return nil, err
	}

	baseline := coverage.NewCoverageMap()
	files := make([]m.InstrumentedFile, 0, len(selected))

	// Reduce in source order so the baseline is deterministic.
	for i, source := range selected {
		file, err := w.writeInstrumented(root, args, source, results[i], originals[i])
		if err != nil {
			return nil, err
		}

		if err := baseline.AddCoverageForFile(results[i].Coverage); err != nil {
			return nil, errors.Wrapf(err, "collect %s", source.Origin.Path)
		}

		files = append(files, file)
	}

	if err := w.orchestrator.InstallHooks(ctx, args.Output); err != nil {
		return nil, errors.Wrap(err, "install flush hooks")
	}

	if err := w.store.Save(w.fsAdapter.JoinPath(string(args.Output), BaselineFile), baseline); err != nil {
		return nil, errors.Wrap(err, "save baseline")
	}

	if err := w.ui.DisplayInstrumented(files); err != nil {
		return nil, err
	}

	return baseline, nil
}

func (w *workflow) instrumentAll(ctx context.Context, sources []m.Source, threads int) ([]InstrumentResult, [][]byte, error) {
	if threads <= 0 {
		threads = 1
	}

	results := make([]InstrumentResult, len(sources))
	originals := make([][]byte, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(threads)

	for i, source := range sources {
		i, source := i, source

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			src, err := w.fsAdapter.ReadFile(source.Origin.Path)
			if err != nil {
				return errors.Wrapf(err, "read %s", source.Origin.Path)
			}

			res, err := w.instrumentor.Instrument(source, src)
			if err != nil {
				return errors.Wrapf(err, "instrument %s", source.Origin.Path)
			}

			w.log.Debugf("instrumented %s: %d statements, %d functions, %d branches",
				source.Origin.Path, len(res.Coverage.StatementMap), len(res.Coverage.FnMap), len(res.Coverage.BranchMap))

			results[i] = res
			originals[i] = src

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return results, originals, nil
}

func (w *workflow) writeInstrumented(root m.Path, args InstrumentArgs, source m.Source, res InstrumentResult, original []byte) (m.InstrumentedFile, error) {
	rel, err := w.fsAdapter.RelPath(root, source.Origin.Path)
	if err != nil {
		return m.InstrumentedFile{}, errors.Wrapf(err, "locate %s", source.Origin.Path)
	}

	if strings.HasPrefix(string(rel), "..") {
		return m.InstrumentedFile{}, errors.Newf("%s is outside module %s", source.Origin.Path, root)
	}

	file := m.InstrumentedFile{
		Source:     source,
		Output:     w.fsAdapter.JoinPath(string(args.Output), string(rel)),
		Statements: len(res.Coverage.StatementMap),
		Functions:  len(res.Coverage.FnMap),
		Branches:   len(res.Coverage.BranchMap),
		Ignored:    res.Ignored,
	}

	if res.Ignored {
		w.log.Debugf("%s is ignored", source.Origin.Path)

		return file, nil
	}

	if err := w.fsAdapter.WriteFile(file.Output, res.Output, 0o600); err != nil {
		return m.InstrumentedFile{}, errors.Wrapf(err, "write %s", file.Output)
	}

	if args.Diff {
		if file.Diff, err = w.goAdapter.Diff(string(rel), original, res.Output); err != nil {
			return m.InstrumentedFile{}, err
		}
	}

	return file, nil
}

func (w *workflow) Run(ctx context.Context, args RunArgs) error {
	if args.OutputDir == "" {
		return errors.New("missing output directory")
	}

	tmp, err := w.fsAdapter.CreateTempDir(args.TempDir, "goistanbul-run-*")
	if err != nil {
		return errors.Wrap(err, "create temp dir")
	}

	if args.KeepTemp {
		w.log.Infof("instrumented copy kept in %s", tmp)
	} else {
		defer func() {
			if err := w.fsAdapter.RemoveAll(tmp); err != nil {
				w.log.Warningf("failed to remove %s: %v", tmp, err)
			}
		}()
	}

	instrumentArgs := args.InstrumentArgs
	instrumentArgs.Output = tmp

	baseline, err := w.instrument(ctx, instrumentArgs)
	if err != nil {
		return err
	}

	flushed := w.fsAdapter.JoinPath(string(tmp), runtimeDir)

	started := time.Now()
	out, testErr := w.orchestrator.RunTests(ctx, tmp, flushed, args.TestArgs)
	hours, minutes, seconds := logger.ParseTime(time.Since(started))
	w.log.Infof("go test finished in %02d:%02d:%02d", hours, minutes, seconds)

	if testErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return errors.Wrap(ctxErr, "go test")
		}

		w.log.Warningf("go test failed: %v\n%s", testErr, out)
	} else {
		w.log.Debugf("go test output:\n%s", out)
	}

	final := baseline

	if _, err := w.fsAdapter.FileInfo(flushed); err == nil {
		hits, discarded, err := w.store.Load(flushed)
		if err != nil {
			return errors.Wrap(err, "load test coverage")
		}

		w.warnDiscarded(discarded)

		if err := final.Merge(hits); err != nil {
			return errors.Wrap(err, "merge test coverage")
		}
	} else {
		w.log.Warning("no test binary wrote coverage")
	}

	if err := w.store.Save(w.fsAdapter.JoinPath(string(args.OutputDir), FinalFile), final); err != nil {
		return errors.Wrap(err, "save coverage")
	}

	if err := w.report(final, args.Report); err != nil {
		return err
	}

	if testErr != nil {
		return errors.Wrap(ErrTestsFailed, testErr.Error())
	}

	return nil
}

func (w *workflow) Report(args ReportArgs) error {
	if len(args.Inputs) == 0 {
		return errors.New("no coverage inputs")
	}

	cm, discarded, err := w.store.Load(args.Inputs...)
	if err != nil {
		return err
	}

	w.warnDiscarded(discarded)

	filter, err := newPathFilter(args.Include, args.Exclude)
	if err != nil {
		return err
	}

	cm.Filter(func(fc *coverage.FileCoverage) bool { return filter.match(fc.Path) })

	return w.report(cm, args)
}

// report renders cm with every configured reporter, then checks thresholds.
func (w *workflow) report(cm *coverage.CoverageMap, args ReportArgs) error {
	opts := report.Options{Root: string(args.Root), Title: args.Title}

	for _, name := range args.Reporters {
		r, err := report.New(name, opts)
		if err != nil {
			return err
		}

		if r.File() == "" {
			if err := w.ui.DisplayReport(r, cm); err != nil {
				return errors.Wrapf(err, "%s report", name)
			}

			continue
		}

		if err := w.writeReport(r, cm, args.ReportDir); err != nil {
			return err
		}
	}

	if err := w.ui.DisplaySummary(cm); err != nil {
		return err
	}

	return CheckThresholds(cm.CoverageSummary(), args.Thresholds)
}

func (w *workflow) writeReport(r report.Reporter, cm *coverage.CoverageMap, dir m.Path) error {
	path := w.fsAdapter.JoinPath(string(dir), r.File())

	var buf bytes.Buffer
	if err := r.Write(&buf, cm); err != nil {
		return errors.Wrapf(err, "%s report", r.Name())
	}

	if err := w.fsAdapter.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}

	w.log.Infof("%s report written to %s", r.Name(), path)

	return nil
}

func (w *workflow) Merge(args MergeArgs) error {
	if args.Output == "" {
		return errors.New("missing output file")
	}

	cm, discarded, err := w.store.Load(args.Inputs...)
	if err != nil {
		return err
	}

	w.warnDiscarded(discarded)

	if args.Append {
		err = w.store.MergeInto(args.Output, cm)
	} else {
		err = w.store.Save(args.Output, cm)
	}

	if err != nil {
		return err
	}

	w.log.Infof("merged %d files into %s", cm.Len(), args.Output)

	return nil
}

func (w *workflow) warnDiscarded(paths []string) {
	for _, path := range paths {
		w.log.Warningf("discarding coverage of %s: written under a different schema", path)
	}
}

// pathFilter selects paths by include and exclude regular expressions. With
// no include patterns every path not excluded matches.
type pathFilter struct {
	include []*regexp.Regexp
	exclude []*regexp.Regexp
}

func newPathFilter(include, exclude []string) (pathFilter, error) {
	inc, err := config.CompilePatterns(include)
	if err != nil {
		return pathFilter{}, errors.Wrap(err, "include")
	}

	exc, err := config.CompilePatterns(exclude)
	if err != nil {
		return pathFilter{}, errors.Wrap(err, "exclude")
	}

	return pathFilter{include: inc, exclude: exc}, nil
}

func (f pathFilter) match(path string) bool {
	for _, re := range f.exclude {
		if re.MatchString(path) {
			return false
		}
	}

	if len(f.include) == 0 {
		return true
	}

	for _, re := range f.include {
		if re.MatchString(path) {
			return true
		}
	}

	return false
}
