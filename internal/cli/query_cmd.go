package cli

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/spf13/cobra"

	"sqlcanvas/internal/domain"
	"sqlcanvas/internal/engine"
)

func newQueryCmd() *cobra.Command {
	var (
		refsPath string
		dbPath   string
		timeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "query <sql>",
		Short: "Run a single query against node results from a file",
		Long:  "Execute a SQL statement, resolving {label} references against result sets loaded from a YAML file.",
		Example: `  # Plain query, no node references
  sqlcanvas query "SELECT 42 AS answer"

  # Query over cached node results
  sqlcanvas query "SELECT * FROM {sales} WHERE total > 60" --refs refs.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd.OutOrStdout(), args[0], refsPath, dbPath, timeout)
		},
	}

	cmd.Flags().StringVar(&refsPath, "refs", "", "YAML file with node result sets, keyed by label")
	cmd.Flags().StringVar(&dbPath, "db", "", "DuckDB database path (defaults to in-memory)")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Query timeout")

	return cmd
}

func runQuery(out io.Writer, query, refsPath, dbPath string, timeout time.Duration) error {
	refs := map[string]domain.ResultSet{}
	if refsPath != "" {
		data, err := os.ReadFile(refsPath)
		if err != nil {
			return fmt.Errorf("read refs file: %w", err)
		}
		refs, err = parseRefs(data)
		if err != nil {
			return fmt.Errorf("parse refs file: %w", err)
		}
	}

	db, err := sql.Open("duckdb", dbPath)
	if err != nil {
		return fmt.Errorf("open duckdb: %w", err)
	}
	defer db.Close() //nolint:errcheck

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	eng := engine.NewEngine(db, logger)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	result, err := eng.Run(ctx, query, domain.MapLookup(refs))
	if err != nil {
		return err
	}

	printResult(out, result)
	return nil
}

func printResult(out io.Writer, result *domain.QueryResult) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for i, col := range result.Columns {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, col)
	}
	fmt.Fprintln(w)

	for _, row := range result.Rows {
		for i, col := range result.Columns {
			if i > 0 {
				fmt.Fprint(w, "\t")
			}
			v, _ := row.Value(col)
			if v == nil {
				fmt.Fprint(w, "NULL")
			} else {
				fmt.Fprintf(w, "%v", v)
			}
		}
		fmt.Fprintln(w)
	}
	w.Flush() //nolint:errcheck

	fmt.Fprintf(out, "(%d rows)\n", result.RowCount)
}
