package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Capture the next RFID tag presented to the reader",
		Long: `Ask the server to hold the next physical tag instead of resolving
it as a check-in. Use the captured tag id with 'kiosk user register --tag'.

The server waits a few seconds; present the tag promptly.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			actions.RequestScan(cmd.Context())

			ms := store.State().ManualScan
			if ms.Err != "" {
				return fmt.Errorf("%s", ms.Err)
			}

			out := NewOutput(cfg.Output)
			out.Print(ScanResult{ScanID: ms.ID, SheetID: store.State().SetSheet.ID})
			return nil
		},
	}
}
