package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
)

// Output formats the --format flag accepts.
const (
	formatText = "text"
	formatJSON = "json"
)

var outputFormats = []string{formatText, formatJSON}

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	Verbose bool
	Format  string
}

// NewRootCommand creates the root command for the seekql CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "seekql",
		Short: "Build and run keyset-paginated SQL queries",
		Long:  "seekql renders parameterized SQL from declarative query files and a table schema.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(outputFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, outputFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", formatText, "output format (json|text)")

	cmd.AddCommand(
		NewBuildCommand(opts),
		NewValidateCommand(opts),
		NewExecCommand(opts),
	)

	return cmd
}
