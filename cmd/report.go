package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mouse-blink/goistanbul/internal/domain"
)

// reportCmd represents the report command.
var reportCmd = newReportCmd()

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report [coverage files or directories...]",
		Short: "Render coverage files",
		Long: `Report merges coverage files, directories of *.json and *.json.gz files
included, and renders them with the configured reporters. Without arguments
the coverage-final.json of --output-dir is used.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{filepath.Join(cfg.OutputDir, domain.FinalFile)}
			}

			opts := reportArgs(cmd)
			opts.Inputs = parsePaths(args)

			return workflow.Report(opts)
		},
	}
	addFilterFlags(cmd.Flags())
	addReportFlags(cmd.Flags())
	cmd.Flags().String("output-dir", "", "directory holding coverage-final.json")
	cmd.Flags().String("root", "", "directory file paths are shown relative to")
	cmd.Flags().String("title", "", "title of the html report")

	return cmd
}

func init() {
	rootCmd.AddCommand(reportCmd)
}
