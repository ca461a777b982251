package cli

import (
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"sre-dashboard/internal/domain"
	"sre-dashboard/pkg/cli/apiclient"
)

func newRedeployCmd(client *apiclient.Client) *cobra.Command {
	var req domain.RedeployRequest

	cmd := &cobra.Command{
		Use:     "redeploy",
		Short:   "Trigger the redeploy quick action for an incident",
		Example: `  sre redeploy --id inc-42 --failure-type OOM`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var result domain.RedeployResult
			if err := client.Call(cmd.Context(), http.MethodPost, "/redeploy", nil, req, &result); err != nil {
				return err
			}
			if jsonOutput(cmd) {
				return apiclient.PrintJSON(os.Stdout, result)
			}
			apiclient.PrintDetail(os.Stdout, map[string]any{
				"success": result.Success,
				"message": result.Message,
				"target":  result.Target,
			})
			return nil
		},
	}

	cmd.Flags().StringVar(&req.ID, "id", "", "Incident id")
	cmd.Flags().StringVar(&req.FailureType, "failure-type", "", "Incident failure type")

	return cmd
}
