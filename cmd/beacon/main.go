package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var serverURL string

func defaultServerURL() string {
	if s := os.Getenv("BEACON_SERVER"); s != "" {
		return s
	}
	return "http://127.0.0.1:4000"
}

var rootCmd = &cobra.Command{
	Use:   "beacon <command>",
	Short: "Event-collection sidecar for the agent observability dashboard",
	Long: `beacon collects lifecycle events from AI coding-agent hook scripts over
HTTP, keeps a bounded recent history in memory, and forwards each event live
to the dashboard subscriber.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", defaultServerURL(), "sidecar base URL")
	rootCmd.AddCommand(serveCmd, emitCmd, watchCmd, recentCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
