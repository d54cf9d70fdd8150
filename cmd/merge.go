package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mouse-blink/goistanbul/internal/domain"
	m "github.com/mouse-blink/goistanbul/internal/model"
)

var mergeOutFlag string
var mergeAppendFlag bool

// mergeCmd represents the merge command.
var mergeCmd = newMergeCmd()

func newMergeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge <coverage files or directories...>",
		Short: "Merge coverage files into one",
		Long: `Merge adds up the hit counts of every input and writes one coverage-final
file. With --append the inputs are merged into the existing output under a
file lock, so concurrent test processes can share one output.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return workflow.Merge(domain.MergeArgs{
				Inputs: parsePaths(args),
				Output: m.Path(mergeOutFlag),
				Append: mergeAppendFlag,
			})
		},
	}
	cmd.Flags().StringVarP(&mergeOutFlag, "out", "o", "", "merged coverage file (.json or .json.gz)")
	cmd.Flags().BoolVar(&mergeAppendFlag, "append", false, "merge into an existing output")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func init() {
	rootCmd.AddCommand(mergeCmd)
}
