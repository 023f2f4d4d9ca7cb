package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/seekql/seekql/dialect/sql"
	"github.com/seekql/seekql/schema"
)

// BuildOptions holds flags for the build command.
type BuildOptions struct {
	*RootOptions
	Schema   string
	Dialect  string
	MaxDepth int
}

// BuildResult is the JSON payload for a rendered statement.
type BuildResult struct {
	Dialect string `json:"dialect"`
	SQL     string `json:"sql"`
	Args    []any  `json:"args"`
}

// NewBuildCommand creates the build command.
func NewBuildCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BuildOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "build <query-file>",
		Short: "Render a query file to SQL and arguments",
		Long: `Render a declarative YAML query file to a parameterized SQL
statement for the chosen dialect.

Example:
  seekql build --schema schema.yaml --dialect postgres query.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Schema, "schema", "", "path to the schema YAML file (required)")
	cmd.Flags().StringVar(&opts.Dialect, "dialect", "postgres", "target dialect (postgres|mysql|sqlite)")
	cmd.Flags().IntVar(&opts.MaxDepth, "max-depth", 0, "maximum filter nesting depth (0 = unlimited)")
	_ = cmd.MarkFlagRequired("schema")

	return cmd
}

func runBuild(opts *BuildOptions, queryFile string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	st, err := buildStatement(opts, queryFile, formatter)
	if err != nil {
		return formatter.Failure(err)
	}

	result := BuildResult{Dialect: opts.Dialect, SQL: st.SQL, Args: st.Args}
	if formatter.Format == formatJSON {
		return formatter.Success(result)
	}
	fmt.Fprintln(formatter.Writer, st.SQL)
	if len(st.Args) > 0 {
		parts := make([]string, len(st.Args))
		for i, a := range st.Args {
			parts[i] = fmt.Sprintf("%v", a)
		}
		fmt.Fprintf(formatter.Writer, "-- args: [%s]\n", strings.Join(parts, ", "))
	}
	return nil
}

// buildStatement loads the schema and query file and renders the
// statement for the given dialect.
func buildStatement(opts *BuildOptions, queryFile string, formatter *OutputFormatter) (*sql.Statement, error) {
	reg, err := schema.LoadFile(opts.Schema)
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}
	formatter.VerboseLog("loaded schema from %s", opts.Schema)

	req, err := LoadRequest(queryFile)
	if err != nil {
		return nil, err
	}
	formatter.VerboseLog("building %s statement against table %s", reqOp(req), req.Table)

	var builderOpts []sql.Option
	if opts.MaxDepth > 0 {
		builderOpts = append(builderOpts, sql.WithMaxFilterDepth(opts.MaxDepth))
	}
	b, err := sql.NewBuilder(opts.Dialect, reg, builderOpts...)
	if err != nil {
		return nil, err
	}
	return req.Statement(b)
}

func reqOp(r *Request) string {
	if r.Op == "" {
		return "select"
	}
	return r.Op
}
