package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show version and configuration of the connected shop",
		Long:  "Queries the _info endpoints of the admin API and prints the shop's version and config.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newAdminClient()
			if err != nil {
				return err
			}

			version, err := client.Get(cmd.Context(), "_info/version", nil, nil)
			if err != nil {
				return fmt.Errorf("querying shop version: %w", err)
			}
			info, err := client.Get(cmd.Context(), "_info/config", nil, nil)
			if err != nil {
				return fmt.Errorf("querying shop config: %w", err)
			}

			return printJSON(map[string]any{
				"version": version,
				"config":  info,
			})
		},
	}
}

func printJSON(doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		fmt.Println(string(raw))
		return nil
	}
	fmt.Println(pretty.String())
	return nil
}
