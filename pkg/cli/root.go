// Package cli implements the sre command-line client for the dashboard API.
package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"sre-dashboard/pkg/cli/apiclient"
)

var (
	version = "dev"
	commit  = "none"
)

const defaultHost = "http://localhost:8080"

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		output, _ := rootCmd.PersistentFlags().GetString("output")
		if output == "json" {
			errObj := map[string]any{
				"error": err.Error(),
			}
			var apiErr *apiclient.APIError
			if errors.As(err, &apiErr) {
				errObj["http_status"] = apiErr.HTTPStatus
				errObj["code"] = apiErr.Code
			}
			_ = apiclient.PrintJSON(os.Stdout, errObj)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var (
		host    string
		token   string
		output  string
		profile string
	)

	client := apiclient.NewClient(defaultHost, "")

	rootCmd := &cobra.Command{
		Use:           "sre",
		Short:         "SRE dashboard CLI",
		Long:          "Command-line interface for the SRE dashboard API.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := LoadUserConfig()
			if err != nil {
				// Config file is optional
				cfg = &UserConfig{
					CurrentProfile: "default",
					Profiles:       map[string]Profile{},
				}
			}

			p, err := cfg.ActiveProfile(profile)
			if err != nil {
				return err
			}

			// Apply precedence: flag > env > profile > default
			resolve := func(flag string, dst *string, env, fromProfile string) {
				if cmd.Flags().Changed(flag) {
					return
				}
				if v := os.Getenv(env); v != "" {
					*dst = v
				} else if fromProfile != "" {
					*dst = fromProfile
				}
			}
			resolve("host", &host, "SRE_HOST", p.Host)
			resolve("token", &token, "SRE_TOKEN", p.Token)
			resolve("output", &output, "SRE_OUTPUT", p.Output)

			if output, err = parseOutputFormat(output); err != nil {
				return err
			}
			baseURL, err := normalizeHostURL(host)
			if err != nil {
				return err
			}

			client.BaseURL = baseURL
			client.Token = token
			return nil
		},
	}

	// --failure_type and --failure-type are the same flag.
	rootCmd.SetGlobalNormalizationFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	rootCmd.PersistentFlags().StringVar(&host, "host", defaultHost, "Dashboard base URL")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "API token sent as a bearer credential")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "table", "Output format (table, json)")
	rootCmd.PersistentFlags().StringVarP(&profile, "profile", "p", "", "Config profile to use")

	rootCmd.AddCommand(newQueryCmd(client))
	rootCmd.AddCommand(newChatCmd(client))
	rootCmd.AddCommand(newRedeployCmd(client))
	rootCmd.AddCommand(newDashboardCmd(client))
	rootCmd.AddCommand(newHealthCmd(client))

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "completion [bash|zsh|fish|powershell]",
		Short:     "Generate shell completion scripts",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			default:
				return fmt.Errorf("unsupported shell: %s", args[0])
			}
		},
	}
}
