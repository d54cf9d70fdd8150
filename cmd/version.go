package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mouse-blink/goistanbul/internal/version"
)

// versionCmd represents the version command.
var versionCmd = newVersionCmd()

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the goistanbul version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "goistanbul %s\n", version.String())
			return err
		},
	}
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
