// Package cli provides the depcollect CLI application framework: the
// root command, global flags, and version metadata.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/artifactgraph/depcollect/cmd/depcollect/output"
)

var rootCmd = &cobra.Command{
	Use:   "depcollect",
	Short: "Dependency collection core CLI",
	Long: `depcollect walks the transitive dependency graph induced by an
artifact's descriptor and reports the resulting dependency tree.

Complete documentation is available at https://github.com/artifactgraph/depcollect`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		raw, err := cmd.Flags().GetString("verbosity")
		if err != nil {
			return err
		}
		v, err := parseVerbosity(raw)
		if err != nil {
			return err
		}
		Console.SetVerbosity(v)
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

func parseVerbosity(raw string) (output.Verbosity, error) {
	switch raw {
	case "quiet":
		return output.VerbosityQuiet, nil
	case "normal":
		return output.VerbosityNormal, nil
	case "detailed":
		return output.VerbosityDetailed, nil
	case "diagnostic":
		return output.VerbosityDiagnostic, nil
	default:
		return output.VerbosityNormal, fmt.Errorf("invalid --verbosity %q: want quiet, normal, detailed, or diagnostic", raw)
	}
}

// Console is the global console subcommands print through.
var Console *output.Console

// Version/Commit/Date/BuiltBy are set via ldflags during build.
var (
	Version = "0.0.0-dev"
	Commit  = "unknown"
	Date    = "unknown"
	BuiltBy = "unknown"
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// AddCommand adds cmd to the root command.
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}

// GetRootCommand returns the root command.
func GetRootCommand() *cobra.Command {
	return rootCmd
}

// SetupVersion wires Version/Commit/Date/BuiltBy into the root command's
// --version output.
func SetupVersion() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate(FullVersion() + "\n")
}

// FullVersion renders the detailed, multi-line version string the
// "version" subcommand and --version flag both print.
func FullVersion() string {
	return "depcollect version " + Version + "\n" +
		"commit: " + Commit + "\n" +
		"built:  " + Date + "\n" +
		"by:     " + BuiltBy
}

func init() {
	Console = output.DefaultConsole()

	rootCmd.PersistentFlags().StringP("verbosity", "", "normal", "Display verbosity (quiet, normal, detailed, diagnostic)")
}
