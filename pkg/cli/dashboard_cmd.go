package cli

import (
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"sre-dashboard/internal/domain"
	"sre-dashboard/pkg/cli/apiclient"
)

func newDashboardCmd(client *apiclient.Client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Read dashboard panels",
	}

	cmd.AddCommand(newDashboardOverviewCmd(client))
	cmd.AddCommand(newDashboardMetricsCmd(client))
	cmd.AddCommand(newDashboardRemediationCmd(client))

	return cmd
}

func newDashboardOverviewCmd(client *apiclient.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Show health counters and the incident feed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var ov domain.Overview
			if err := client.Call(cmd.Context(), http.MethodGet, "/dashboard/overview", nil, nil, &ov); err != nil {
				return err
			}
			if jsonOutput(cmd) {
				return apiclient.PrintJSON(os.Stdout, ov)
			}

			if ov.HealthError != "" {
				_, _ = fmt.Fprintf(os.Stderr, "health: %s\n", ov.HealthError)
			}
			apiclient.PrintTable(os.Stdout, []string{"kind", "ok", "failed", "total"}, [][]string{
				{"pipelines", itoa(ov.Health.PipelinesOK), itoa(ov.Health.PipelinesFail), itoa(ov.Health.PipelinesTotal())},
				{"jobs", itoa(ov.Health.JobsOK), itoa(ov.Health.JobsFail), itoa(ov.Health.JobsTotal())},
			})
			_, _ = fmt.Fprintln(os.Stdout)

			if ov.IncidentsError != "" {
				_, _ = fmt.Fprintf(os.Stderr, "incidents: %s\n", ov.IncidentsError)
				return nil
			}
			if len(ov.Incidents) == 0 {
				_, _ = fmt.Fprintln(os.Stdout, "No recent incidents")
				return nil
			}
			rows := make([][]string, 0, len(ov.Incidents))
			for _, inc := range ov.Incidents {
				rows = append(rows, []string{inc.Timestamp, inc.Pipeline, inc.Status, inc.Message})
			}
			apiclient.PrintTable(os.Stdout, []string{"timestamp", "pipeline", "status", "message"}, rows)
			return nil
		},
	}
}

func newDashboardMetricsCmd(client *apiclient.Client) *cobra.Command {
	var spikesOnly bool

	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Show CPU and memory samples",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var m domain.Metrics
			if err := client.Call(cmd.Context(), http.MethodGet, "/dashboard/metrics", nil, nil, &m); err != nil {
				return err
			}
			if spikesOnly {
				kept := m.Points[:0]
				for _, p := range m.Points {
					if p.MemorySpike() {
						kept = append(kept, p)
					}
				}
				m.Points = kept
			}
			if jsonOutput(cmd) {
				return apiclient.PrintJSON(os.Stdout, m)
			}

			rows := make([][]string, 0, len(m.Points))
			for _, p := range m.Points {
				spike := ""
				if p.MemorySpike() {
					spike = "yes"
				}
				rows = append(rows, []string{p.Timestamp, pct(p.CPUPct), pct(p.MemPct), spike})
			}
			apiclient.PrintTable(os.Stdout, []string{"ts", "cpu_pct", "mem_pct", "spike"}, rows)
			s := m.Summary
			_, _ = fmt.Fprintf(os.Stderr, "%d sample(s), avg cpu %s, max mem %s, %d spike(s)\n",
				s.Count, pct(s.AvgCPU), pct(s.MaxMem), s.Spikes)
			return nil
		},
	}

	cmd.Flags().BoolVar(&spikesOnly, "spikes", false, "Only show samples above the memory spike threshold")

	return cmd
}

func newDashboardRemediationCmd(client *apiclient.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "remediation",
		Short: "List the incident knowledge base",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var rem domain.Remediation
			if err := client.Call(cmd.Context(), http.MethodGet, "/dashboard/remediation", nil, nil, &rem); err != nil {
				return err
			}
			if jsonOutput(cmd) {
				return apiclient.PrintJSON(os.Stdout, rem)
			}
			if len(rem.Items) == 0 {
				_, _ = fmt.Fprintln(os.Stdout, "No incidents in knowledge base")
				return nil
			}
			values := make([]map[string]any, 0, len(rem.Items))
			for _, item := range rem.Items {
				values = append(values, item.Values)
			}
			apiclient.PrintTable(os.Stdout, rem.Columns, apiclient.ExtractRows(values, rem.Columns))
			return nil
		},
	}
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }

func pct(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) }
