package cli

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"sre-dashboard/internal/domain"
	"sre-dashboard/pkg/cli/apiclient"
)

type healthResponse struct {
	Status              string              `json:"status"`
	WarehouseConfigured bool                `json:"warehouse_configured"`
	Probe               *domain.ProbeStatus `json:"probe,omitempty"`
}

func newHealthCmd(client *apiclient.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check dashboard and warehouse health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var h healthResponse
			if err := client.Call(cmd.Context(), http.MethodGet, "/health", nil, nil, &h); err != nil {
				return err
			}
			if jsonOutput(cmd) {
				return apiclient.PrintJSON(os.Stdout, h)
			}

			fields := map[string]any{
				"status":               h.Status,
				"warehouse_configured": h.WarehouseConfigured,
			}
			if h.Probe != nil {
				fields["probe_ok"] = h.Probe.OK
				fields["probe_checked_at"] = h.Probe.CheckedAt.Format(time.RFC3339)
				fields["probe_latency"] = h.Probe.Latency.String()
				if h.Probe.Error != "" {
					fields["probe_error"] = h.Probe.Error
				}
			}
			apiclient.PrintDetail(os.Stdout, fields)
			if h.Status != "ok" {
				return fmt.Errorf("dashboard is %s", h.Status)
			}
			return nil
		},
	}
}
