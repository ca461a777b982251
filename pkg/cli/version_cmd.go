package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sre-dashboard/pkg/cli/apiclient"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the CLI version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if jsonOutput(cmd) {
				return apiclient.PrintJSON(os.Stdout, map[string]string{
					"version": version,
					"commit":  commit,
				})
			}
			_, _ = fmt.Fprintf(os.Stdout, "sre version %s (commit: %s)\n", version, commit)
			return nil
		},
	}
}
