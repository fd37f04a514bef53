package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ironhall/kiosk/internal/bridge"
	"github.com/ironhall/kiosk/internal/state"
)

func newWatchCmd() *cobra.Command {
	var sheetID string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow RFID scans in real time",
		Long: `Connect to the server's push channel and print each scan outcome as
members badge in.

Outcomes are:
  - scanning: a tag was presented and is being resolved
  - check-in: the tag matched a member (debt and expiry are flagged)
  - error: the tag did not match, or the lookup failed

Press Ctrl+C to disconnect.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return watch(cmd.Context(), sheetID, jsonOutput)
		},
	}

	cmd.Flags().StringVar(&sheetID, "sheet", "", "Select this sheet before watching")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output events as JSON lines")

	return cmd
}

// watchEvent is one printed line in JSON mode
type watchEvent struct {
	Time  time.Time `json:"time"`
	Event string    `json:"event"`
	Badge string    `json:"badge,omitempty"`
	Name  string    `json:"name,omitempty"`
	Error string    `json:"error,omitempty"`
	OK    *bool     `json:"ok,omitempty"`
}

func watch(ctx context.Context, sheetID string, jsonOutput bool) error {
	if sheetID != "" {
		actions.RequestSetSheet(ctx, sheetID)
		if store.State().SetSheet.ID == "" {
			return fmt.Errorf("sheet %q could not be selected", sheetID)
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Handle interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	// Print store transitions driven by push frames
	unsubscribe := store.Subscribe(func(ev state.Event) {
		printWatchEvent(ev, jsonOutput)
	})
	defer unsubscribe()

	b := bridge.New(bridge.Config{
		URL: bridge.WSURL(cfg.ServerURL, "/api/ws"),
		Jar: api.Jar(),
	}, actions, func(connected bool) {
		actions.SetWebSocket(connected)
		if !jsonOutput {
			if connected {
				fmt.Println("Connected")
			} else {
				fmt.Println("Disconnected")
			}
		}
	}, logger)

	b.Run(ctx)

	return nil
}

func printWatchEvent(ev state.Event, jsonOutput bool) {
	now := time.Now()

	switch e := ev.(type) {
	case state.ScanStatusSet:
		if !e.InFlight {
			return
		}
		emitWatchEvent(watchEvent{Time: now, Event: "scanning"}, jsonOutput, "scanning...")
	case state.ClientResolved:
		if e.InFlight || e.Client.BSID == "" {
			return
		}
		ok := e.Client.OK(now)
		line := fmt.Sprintf("check-in: %s (%s)", e.Client.Name, e.Client.BSID)
		if !ok {
			if e.Client.Debt {
				line += " [DEBT]"
			}
			if e.Client.Expired(now) {
				line += " [EXPIRED]"
			}
		}
		emitWatchEvent(watchEvent{
			Time:  now,
			Event: "check-in",
			Badge: e.Client.BSID,
			Name:  e.Client.Name,
			OK:    &ok,
		}, jsonOutput, line)
	case state.LookupFailed:
		emitWatchEvent(watchEvent{
			Time:  now,
			Event: "error",
			Error: e.Err,
		}, jsonOutput, "error: "+e.Err)
	}
}

func emitWatchEvent(ev watchEvent, jsonOutput bool, line string) {
	if jsonOutput {
		data, _ := json.Marshal(ev)
		fmt.Println(string(data))
		return
	}
	timestamp := ev.Time.Format("2006-01-02 15:04:05")
	// Keep single-line output even if an error message contains newlines
	line = strings.ReplaceAll(line, "\n", " ")
	fmt.Printf("[%s] %s\n", timestamp, line)
}
