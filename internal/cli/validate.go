package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BuildOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <query-file>",
		Short: "Check a query file against the schema without printing SQL",
		Long: `Check that a query file names known tables and columns, uses
assignable literal types and well-formed pagination, and can be
rendered for the chosen dialect.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Schema, "schema", "", "path to the schema YAML file (required)")
	cmd.Flags().StringVar(&opts.Dialect, "dialect", "postgres", "target dialect (postgres|mysql|sqlite)")
	cmd.Flags().IntVar(&opts.MaxDepth, "max-depth", 0, "maximum filter nesting depth (0 = unlimited)")
	_ = cmd.MarkFlagRequired("schema")

	return cmd
}

func runValidate(opts *BuildOptions, queryFile string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	_, err := buildStatement(opts, queryFile, formatter)
	if formatter.Format == formatJSON {
		result := ValidationResult{Valid: err == nil}
		if err != nil {
			result.Error = err.Error()
		}
		if encErr := formatter.Success(result); encErr != nil {
			return encErr
		}
		return err
	}

	if err != nil {
		fmt.Fprintf(formatter.Writer, "invalid: %s\n", err)
		return err
	}
	fmt.Fprintln(formatter.Writer, "valid")
	return nil
}
