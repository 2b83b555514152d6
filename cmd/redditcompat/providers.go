package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/abdulachik/redditcompat/internal/app"
	"github.com/abdulachik/redditcompat/internal/config"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List text-generation providers and whether they are configured",
	Long: `List every supported provider with its tier, model and credential variable.
A provider is configured when its API key variable is set.`,
	Args: cobra.NoArgs,
	RunE: runProviders,
}

func init() {
	rootCmd.AddCommand(providersCmd)
}

func runProviders(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PROVIDER\tTIER\tMODEL\tKEY\tSTATUS")
	for _, s := range app.NewRegistry(cfg).List() {
		status := "not configured"
		if s.Configured {
			status = "configured"
		}
		name := s.Name
		if strings.EqualFold(name, strings.TrimSpace(cfg.LLMProvider)) {
			name += " (active)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", name, s.Tier, s.Model, s.CredentialEnv, status)
	}
	return w.Flush()
}
