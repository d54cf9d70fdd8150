// Package cmd provides the root command and CLI setup for goistanbul.
package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/cockroachdb/errors"
	"github.com/op/go-logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mouse-blink/goistanbul/internal/adapter"
	"github.com/mouse-blink/goistanbul/internal/config"
	"github.com/mouse-blink/goistanbul/internal/controller"
	"github.com/mouse-blink/goistanbul/internal/domain"
	"github.com/mouse-blink/goistanbul/internal/logger"
	m "github.com/mouse-blink/goistanbul/internal/model"
)

var cfg config.Config
var log *logging.Logger
var workflow domain.Workflow

var configFlag string
var logLevelFlag string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goistanbul",
		Short: "Istanbul-compatible code coverage for Go",
		Long: `goistanbul instruments Go sources so that running them records statement,
function and branch coverage in the Istanbul coverage-final.json format, and
renders that coverage with Istanbul's reporters.

Supports Go-style path patterns:
  - ./...          recursively scan current directory
  - ./pkg/...      recursively scan pkg directory
  - ./cmd ./pkg    scan multiple directories`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setup(cmd)
		},
	}
	cmd.PersistentFlags().StringVar(&configFlag, "config", "", "config file (default .goistanbul.yaml)")
	cmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "info", "log level: debug, info, warning, error")

	return cmd
}

// setup loads the configuration seen by cmd and wires the workflow unless
// one was provided already.
func setup(cmd *cobra.Command) error {
	v := config.New()

	if err := config.BindFlags(v, cmd.Flags()); err != nil {
		return err
	}

	if err := bindThresholdFlags(v, cmd.Flags()); err != nil {
		return err
	}

	loaded, err := config.Load(v, configFlag)
	if err != nil {
		return err
	}

	cfg = loaded
	log = logger.NewLogger(cfg.LogLevel, "goistanbul")

	if workflow == nil {
		workflow = newWorkflow(cmd.Root(), cfg, log)
	}

	return nil
}

func newWorkflow(root *cobra.Command, cfg config.Config, log *logging.Logger) domain.Workflow {
	fsAdapter := adapter.NewLocalSourceFSAdapter()
	goFileAdapter := adapter.NewLocalGoFileAdapter()
	testAdapter := adapter.NewLocalTestRunnerAdapter()
	instrumentor := domain.NewInstrumentor(goFileAdapter, domain.InstrumentOptions{
		ReportLogic:      cfg.ReportLogic,
		FlushMain:        cfg.FlushMain,
		CoverageVariable: cfg.CoverageVariable,
	})
	orchestrator := domain.NewOrchestrator(fsAdapter, goFileAdapter, testAdapter, instrumentor, cfg.RuntimeReplace, log)

	return domain.NewWorkflow(
		fsAdapter,
		goFileAdapter,
		adapter.NewCoverageStore(),
		controller.NewUI(root, controller.IsTTY(os.Stdout)),
		orchestrator,
		instrumentor,
		log,
	)
}

// Main runs the root command with os.Args and returns the exit code.
func Main() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		return 1
	}

	return 0
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if code := Main(); code != 0 {
		os.Exit(code)
	}
}

func parsePaths(args []string) []m.Path {
	if len(args) == 0 {
		return []m.Path{"./..."}
	}

	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}

func addFilterFlags(flags *pflag.FlagSet) {
	flags.StringArrayP("include", "i", nil, "only cover files matching regex (can be repeated)")
	flags.StringArrayP("exclude", "x", nil, "exclude files matching regex (can be repeated)")
}

func addReportFlags(flags *pflag.FlagSet) {
	flags.StringArrayP("reporters", "r", nil, "reporters to run: text, text-summary, json, json-summary, yaml-summary, lcov, cobertura, html")
	flags.String("report-dir", "", "directory for file reports")
	flags.Float64("statements", 0, "minimum statement coverage in percent")
	flags.Float64("branches", 0, "minimum branch coverage in percent")
	flags.Float64("functions", 0, "minimum function coverage in percent")
	flags.Float64("lines", 0, "minimum line coverage in percent")
}

func addInstrumentFlags(flags *pflag.FlagSet) {
	addFilterFlags(flags)
	flags.IntP("parallel", "p", 0, "number of files instrumented in parallel (default GOMAXPROCS)")
	flags.Bool("report-logic", false, "count truthy evaluations of && and || operands")
	flags.String("coverage-variable", "", "prefix of the generated counter variables")
	flags.Bool("flush-main", true, "flush coverage when main returns")
}

// bindThresholdFlags maps --statements and friends onto thresholds.*.
func bindThresholdFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for _, name := range []string{"statements", "branches", "functions", "lines"} {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}

		if err := v.BindPFlag("thresholds."+name, f); err != nil {
			return errors.Wrapf(err, "bind flag %s", name)
		}
	}

	return nil
}

func reportArgs(cmd *cobra.Command) domain.ReportArgs {
	root, _ := cmd.Flags().GetString("root")
	title, _ := cmd.Flags().GetString("title")

	return domain.ReportArgs{
		Include:    cfg.Include,
		Exclude:    cfg.Exclude,
		Reporters:  cfg.Reporters,
		ReportDir:  m.Path(cfg.ReportDir),
		Root:       m.Path(root),
		Title:      title,
		Thresholds: cfg.Thresholds,
	}
}
