package cli

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"sre-dashboard/pkg/cli/apiclient"
)

func newChatCmd(client *apiclient.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "chat <message...>",
		Short: "Ask the ops assistant a question",
		Example: `  sre chat show failed pipelines
  sre chat "memory spikes"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp struct {
				Reply string `json:"reply"`
			}
			body := map[string]string{"message": strings.Join(args, " ")}
			if err := client.Call(cmd.Context(), http.MethodPost, "/chat", nil, body, &resp); err != nil {
				return err
			}
			if jsonOutput(cmd) {
				return apiclient.PrintJSON(os.Stdout, resp)
			}
			_, _ = fmt.Fprintln(os.Stdout, resp.Reply)
			return nil
		},
	}
}
