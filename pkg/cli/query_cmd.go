package cli

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"sre-dashboard/internal/domain"
	"sre-dashboard/pkg/cli/apiclient"
)

func newQueryCmd(client *apiclient.Client) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "query [SQL]",
		Short: "Run a SQL statement on the warehouse",
		Long: `Run a SQL statement through the dashboard's warehouse connection.

The statement is taken from the arguments, from --file, or from stdin
when no arguments are given and stdin is not a terminal.`,
		Example: `  sre query "SELECT * FROM main.monitoring.pipeline_logs LIMIT 10"
  sre query --file incidents.sql -o json
  echo "SELECT 1" | sre query`,
		RunE: func(cmd *cobra.Command, args []string) error {
			stmt, err := readStatement(cmd.InOrStdin(), args, file)
			if err != nil {
				return err
			}

			var result domain.QueryResult
			if err := client.Call(cmd.Context(), http.MethodPost, "/databricks/query", nil, map[string]string{"query": stmt}, &result); err != nil {
				return err
			}

			if jsonOutput(cmd) {
				return apiclient.PrintJSON(os.Stdout, result)
			}
			apiclient.PrintTable(os.Stdout, result.Columns, apiclient.ExtractRows(result.Rows, result.Columns))
			_, _ = fmt.Fprintf(os.Stderr, "(%d row(s))\n", len(result.Rows))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Read the statement from a file")

	return cmd
}

// readStatement resolves the SQL text from args, a file, or piped stdin.
func readStatement(stdin io.Reader, args []string, file string) (string, error) {
	var stmt string
	switch {
	case file != "" && len(args) > 0:
		return "", fmt.Errorf("pass the statement as an argument or with --file, not both")
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", file, err)
		}
		stmt = string(data)
	case len(args) > 0:
		stmt = strings.Join(args, " ")
	default:
		if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			return "", fmt.Errorf("no statement given: pass SQL as an argument, with --file, or on stdin")
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		stmt = string(data)
	}

	stmt = strings.TrimSpace(stmt)
	if stmt == "" {
		return "", fmt.Errorf("query is empty")
	}
	return stmt, nil
}
