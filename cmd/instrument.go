package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mouse-blink/goistanbul/internal/domain"
	m "github.com/mouse-blink/goistanbul/internal/model"
)

var instrumentOutFlag string
var instrumentDiffFlag bool

// instrumentCmd represents the instrument command.
var instrumentCmd = newInstrumentCmd()

func newInstrumentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "instrument [paths...]",
		Short: "Write an instrumented copy of a module",
		Long: `Instrument copies the module containing the given sources into --out and
rewrites every selected file so that running it counts statements, functions
and branches. Test packages get a TestMain that flushes coverage on exit, and
coverage-baseline.json records every instrumented file with zero hits.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.Instrument(cmd.Context(), domain.InstrumentArgs{
				Paths:   parsePaths(args),
				Include: cfg.Include,
				Exclude: cfg.Exclude,
				Output:  m.Path(instrumentOutFlag),
				Threads: cfg.Parallel,
				Diff:    instrumentDiffFlag,
			})
		},
	}
	addInstrumentFlags(cmd.Flags())
	cmd.Flags().StringVarP(&instrumentOutFlag, "out", "o", "", "directory receiving the instrumented module")
	cmd.Flags().BoolVar(&instrumentDiffFlag, "diff", false, "print a diff of every instrumented file")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func init() {
	rootCmd.AddCommand(instrumentCmd)
}
