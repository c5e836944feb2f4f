package commands

import (
	"github.com/spf13/cobra"

	"github.com/artifactgraph/depcollect/cmd/depcollect/cli"
	"github.com/artifactgraph/depcollect/cmd/depcollect/output"
)

// NewVersionCommand builds the `depcollect version` subcommand, kept as
// a top-level verb alongside --version.
func NewVersionCommand(console *output.Console) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			console.Println(cli.FullVersion())
			return nil
		},
	}
}
