package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// Values accepted by --output, SRE_OUTPUT and a profile's output field.
const (
	outputTable = "table"
	outputJSON  = "json"
)

// jsonOutput reports whether results should be printed as JSON.
func jsonOutput(cmd *cobra.Command) bool {
	v, _ := cmd.Root().PersistentFlags().GetString("output")
	return v == outputJSON
}

// parseOutputFormat normalizes an output format. Empty means table.
func parseOutputFormat(v string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(v)); f {
	case "", outputTable:
		return outputTable, nil
	case outputJSON:
		return outputJSON, nil
	default:
		return "", fmt.Errorf("unsupported output format %q: use %q or %q", v, outputTable, outputJSON)
	}
}
