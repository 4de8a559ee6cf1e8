package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/groblegark/beacon/internal/client"
)

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Print the retained recent events",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		recent, err := client.New(serverURL).Recent(cmd.Context())
		if err != nil {
			return err
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(recent)
		}

		for _, ev := range recent {
			fmt.Printf("%s  #%d %-14s %s (%s)\n",
				ev.CreatedAt.Format("15:04:05"),
				ev.ID, ev.HookEventType, ev.SourceApp, ev.SessionID)
		}
		return nil
	},
}

func init() {
	recentCmd.Flags().Bool("json", false, "output as JSON")
}
