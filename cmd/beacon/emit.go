package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/groblegark/beacon/internal/client"
	"github.com/groblegark/beacon/internal/model"
)

// beacon emit --source-app my-agent --type PreToolUse
// Reads a Claude Code hook event JSON from stdin (tolerated absent), wraps it
// as the event payload, and posts it to the sidecar. A single-binary
// replacement for the bundled send_event hook script.
var emitCmd = &cobra.Command{
	Use:   "emit",
	Short: "Emit a hook event to the sidecar",
	Long: `Reads a hook event JSON document from stdin and posts it to the sidecar
as the event payload. Identity fields come from flags, falling back to the
stdin document's session_id / hook_event_name fields where present.

Typical hook configuration:

  beacon emit --source-app my-agent --type PreToolUse`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sourceApp, _ := cmd.Flags().GetString("source-app")
		sessionID, _ := cmd.Flags().GetString("session")
		hookType, _ := cmd.Flags().GetString("type")
		timestamp, _ := cmd.Flags().GetString("timestamp")

		// Read JSON from stdin (Claude Code hook event format).
		stdinDoc := map[string]any{}
		if err := json.NewDecoder(os.Stdin).Decode(&stdinDoc); err != nil {
			// stdin may be empty or non-JSON (e.g. called manually).
			// Treat as an empty document — flags carry the identity.
			stdinDoc = map[string]any{}
		}

		if sessionID == "" {
			sessionID, _ = stdinDoc["session_id"].(string)
		}
		if hookType == "" {
			hookType, _ = stdinDoc["hook_event_name"].(string)
		}
		if timestamp == "" {
			timestamp = time.Now().UTC().Format(time.RFC3339)
		}

		payload, err := json.Marshal(stdinDoc)
		if err != nil {
			return fmt.Errorf("encoding payload: %w", err)
		}

		stored, err := client.New(serverURL).Ingest(cmd.Context(), model.HookEvent{
			SourceApp:     sourceApp,
			SessionID:     sessionID,
			HookEventType: hookType,
			Timestamp:     timestamp,
			Payload:       payload,
		})
		if err != nil {
			return err
		}

		fmt.Printf("stored event %d (%s)\n", stored.ID, stored.HookEventType)
		return nil
	},
}

func init() {
	emitCmd.Flags().String("source-app", "beacon", "producer identity")
	emitCmd.Flags().String("session", "", "session ID (default: session_id from stdin)")
	emitCmd.Flags().String("type", "", "hook event type (default: hook_event_name from stdin)")
	emitCmd.Flags().String("timestamp", "", "producer timestamp (default: now, RFC3339)")
}
