package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"github.com/seekql/seekql/cursor"
	"github.com/seekql/seekql/dialect"
	"github.com/seekql/seekql/dialect/sql"
	"github.com/seekql/seekql/schema"
)

// ExecOptions holds flags for the exec command.
type ExecOptions struct {
	*RootOptions
	Schema   string
	Database string
}

// ExecResult is the JSON payload for an executed statement.
type ExecResult struct {
	Rows         []map[string]any `json:"rows,omitempty"`
	RowsAffected int64            `json:"rows_affected,omitempty"`
	PageInfo     *cursor.PageInfo `json:"page_info,omitempty"`
}

// NewExecCommand creates the exec command.
func NewExecCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExecOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "exec <query-file>",
		Short: "Run a query file against a SQLite database",
		Long: `Render a query file for the sqlite dialect and run it against the
given database file. Selects print their rows; for keyset requests the
page info and boundary cursors are printed too, so the next page can be
fetched by passing the end cursor back as "after".

Example:
  seekql exec --schema schema.yaml --db app.db query.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExec(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Schema, "schema", "", "path to the schema YAML file (required)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the SQLite database (required)")
	_ = cmd.MarkFlagRequired("schema")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runExec(opts *ExecOptions, queryFile string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	result, err := execRequest(opts, queryFile, cmd, formatter)
	if err != nil {
		return formatter.Failure(err)
	}

	if formatter.Format == formatJSON {
		return formatter.Success(result)
	}
	for _, row := range result.Rows {
		line, err := json.Marshal(row)
		if err != nil {
			return err
		}
		fmt.Fprintln(formatter.Writer, string(line))
	}
	if result.PageInfo != nil {
		fmt.Fprintf(formatter.Writer, "-- has next: %t, has prev: %t\n", result.PageInfo.HasNextPage, result.PageInfo.HasPrevPage)
		if result.PageInfo.Total != nil {
			fmt.Fprintf(formatter.Writer, "-- total: %d\n", *result.PageInfo.Total)
		}
		if result.PageInfo.EndCursor != "" {
			fmt.Fprintf(formatter.Writer, "-- end cursor: %s\n", result.PageInfo.EndCursor)
		}
	}
	if result.Rows == nil {
		fmt.Fprintf(formatter.Writer, "rows affected: %d\n", result.RowsAffected)
	}
	return nil
}

func execRequest(opts *ExecOptions, queryFile string, cmd *cobra.Command, formatter *OutputFormatter) (*ExecResult, error) {
	reg, err := schema.LoadFile(opts.Schema)
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}
	req, err := LoadRequest(queryFile)
	if err != nil {
		return nil, err
	}
	b, err := sql.NewBuilder(dialect.SQLite, reg)
	if err != nil {
		return nil, err
	}
	st, err := req.Statement(b)
	if err != nil {
		return nil, err
	}
	formatter.VerboseLog("%s", st.SQL)

	drv, err := sql.Open("sqlite", opts.Database)
	if err != nil {
		return nil, err
	}
	defer drv.Close()

	ctx := cmd.Context()
	switch reqOp(req) {
	case "select":
		return execSelect(ctx, drv, b, st, req)
	default:
		if len(req.Returning) > 0 {
			rows, err := queryRows(ctx, drv, st)
			if err != nil {
				return nil, err
			}
			return &ExecResult{Rows: rows}, nil
		}
		res, err := drv.Exec(ctx, st)
		if err != nil {
			return nil, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		return &ExecResult{RowsAffected: n}, nil
	}
}

func execSelect(ctx context.Context, drv *sql.Driver, b *sql.Builder, st *sql.Statement, req *Request) (*ExecResult, error) {
	rows, err := queryRows(ctx, drv, st)
	if err != nil {
		return nil, err
	}
	if !req.pagination().IsCursor() {
		return &ExecResult{Rows: rows}, nil
	}

	keys, err := sql.ParseSortString(req.Sort)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.Field
	}
	page := req.pagination()
	trimmed, info, err := cursor.Page(rows, page.Limit(), page.Direction(), req.After != "" || req.Before != "", names,
		func(row map[string]any) []any {
			vs := make([]any, len(names))
			for i, name := range names {
				vs[i] = row[name]
			}
			return vs
		})
	if err != nil {
		return nil, err
	}

	// A companion count tells the caller how many rows the filter
	// matches across all pages.
	q, err := req.query()
	if err != nil {
		return nil, err
	}
	cnt, err := b.Count(q)
	if err != nil {
		return nil, err
	}
	total, err := queryCount(ctx, drv, cnt)
	if err != nil {
		return nil, err
	}
	info.Total = &total
	return &ExecResult{Rows: trimmed, PageInfo: &info}, nil
}

func queryCount(ctx context.Context, drv *sql.Driver, st *sql.Statement) (int64, error) {
	rs, err := drv.Query(ctx, st)
	if err != nil {
		return 0, err
	}
	defer rs.Close()
	var n int64
	if rs.Next() {
		if err := rs.Scan(&n); err != nil {
			return 0, err
		}
	}
	return n, rs.Err()
}

func queryRows(ctx context.Context, drv *sql.Driver, st *sql.Statement) ([]map[string]any, error) {
	rs, err := drv.Query(ctx, st)
	if err != nil {
		return nil, err
	}
	defer rs.Close()

	cols, err := rs.Columns()
	if err != nil {
		return nil, err
	}
	out := []map[string]any{}
	for rs.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rs.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(map[string]any, len(cols))
		for i, c := range cols {
			if b, ok := vals[i].([]byte); ok {
				vals[i] = string(b)
			}
			row[c] = vals[i]
		}
		out = append(out, row)
	}
	if err := rs.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
