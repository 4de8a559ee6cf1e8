package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/groblegark/beacon/internal/events"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream live notifications from the sidecar",
	Long: `Subscribes to the sidecar's notification stream and prints one line per
notification. Uses the NATS bus when --nats-url (or BEACON_NATS_URL) is set,
otherwise attaches to the SSE endpoint — note that SSE admits a single
subscriber, so watch competes with the dashboard for the slot.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		natsURL, _ := cmd.Flags().GetString("nats-url")
		if natsURL == "" {
			natsURL = os.Getenv("BEACON_NATS_URL")
		}
		if natsURL != "" {
			return watchNATS(ctx, natsURL)
		}
		return watchSSE(ctx)
	},
}

func init() {
	watchCmd.Flags().String("nats-url", "", "subscribe over NATS instead of SSE")
}

// watchNATS subscribes to every beacon subject and prints notifications
// until interrupted.
func watchNATS(ctx context.Context, natsURL string) error {
	sub, err := events.NewNATSSubscriber(natsURL)
	if err != nil {
		return fmt.Errorf("connecting to NATS: %w", err)
	}
	defer sub.Close()

	ch, cancel, err := sub.Subscribe("beacon.>")
	if err != nil {
		return fmt.Errorf("subscribing: %w", err)
	}
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case data, open := <-ch:
			if !open {
				return nil
			}
			printNotification(data)
		}
	}
}

// watchSSE attaches to GET /events/stream and prints each data line.
func watchSSE(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, serverURL+"/events/stream", nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusConflict {
		return fmt.Errorf("another subscriber is already attached (is the dashboard running?)")
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("stream returned %d", resp.StatusCode)
	}

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if data, ok := strings.CutPrefix(line, "data:"); ok {
			printNotification([]byte(data))
		}
	}
	if ctx.Err() != nil {
		return nil
	}
	return scanner.Err()
}

// printNotification renders one line per notification; unknown shapes are
// printed raw.
func printNotification(data []byte) {
	var n events.Notification
	if err := json.Unmarshal(data, &n); err == nil && n.Type != "" {
		switch n.Type {
		case events.TypeEvent:
			if n.Data != nil {
				fmt.Printf("%s  #%d %-14s %s (%s)\n",
					n.Data.CreatedAt.Format("15:04:05"),
					n.Data.ID, n.Data.HookEventType, n.Data.SourceApp, n.Data.SessionID)
				return
			}
		case events.TypeSessionDeleted:
			fmt.Printf("session deleted: %s\n", n.SessionID)
			return
		case events.TypeEventsCleared:
			fmt.Println("events cleared")
			return
		}
	}

	var status events.ServerStatus
	if err := json.Unmarshal(data, &status); err == nil && status.Status != "" {
		fmt.Printf("server %s (port %d)\n", status.Status, status.Port)
		return
	}

	fmt.Println(string(data))
}
