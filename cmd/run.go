package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mouse-blink/goistanbul/internal/domain"
	m "github.com/mouse-blink/goistanbul/internal/model"
)

const runLongDescription = `Run instruments the module containing the given sources in a temporary
copy, runs go test ./... there and reports the merged coverage.

Arguments after -- are passed to go test in place of ./...:
  goistanbul run ./... -- -run TestParse ./parser

Instrumented code imports github.com/mouse-blink/goistanbul/pkg/covrt. Without
--runtime-replace, go test resolves that module through GOPROXY, which only
works for a published release. From a local checkout pass its directory:
  goistanbul run --runtime-replace ~/src/goistanbul ./...

coverage-final.json is written to --output-dir. The command fails when the
tests fail or a --statements, --branches, --functions or --lines minimum is
not met, after reporting.`

var runKeepTempFlag bool

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [paths...] [-- go test args]",
		Short: "Instrument, test and report in one step",
		Long:  runLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, testArgs := args, []string(nil)
			if dash := cmd.ArgsLenAtDash(); dash >= 0 {
				paths, testArgs = args[:dash], args[dash:]
			}

			return workflow.Run(cmd.Context(), domain.RunArgs{
				InstrumentArgs: domain.InstrumentArgs{
					Paths:   parsePaths(paths),
					Include: cfg.Include,
					Exclude: cfg.Exclude,
					Threads: cfg.Parallel,
				},
				Report:    reportArgs(cmd),
				OutputDir: m.Path(cfg.OutputDir),
				TempDir:   cfg.TempDir,
				KeepTemp:  runKeepTempFlag,
				TestArgs:  testArgs,
			})
		},
	}
	addInstrumentFlags(cmd.Flags())
	addReportFlags(cmd.Flags())
	cmd.Flags().String("output-dir", "", "directory receiving coverage-final.json")
	cmd.Flags().String("temp-dir", "", "parent of the instrumented copy")
	cmd.Flags().String("runtime-replace", "", "local goistanbul checkout providing the coverage runtime (default: resolve through GOPROXY)")
	cmd.Flags().BoolVar(&runKeepTempFlag, "keep-temp", false, "keep the instrumented copy")

	return cmd
}

func init() {
	rootCmd.AddCommand(runCmd)
}
