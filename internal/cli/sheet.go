package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ironhall/kiosk/internal/model"
)

func newSheetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheet",
		Short: "Roster sheet commands",
	}

	cmd.AddCommand(newSheetListCmd())
	cmd.AddCommand(newSheetSelectCmd())

	return cmd
}

func newSheetListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available sheets",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result struct {
				Sheets []model.Sheet `json:"sheets"`
			}

			if err := api.Get(cmd.Context(), "/api/sheets", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result.Sheets)
			return nil
		},
	}
}

func newSheetSelectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "select <id>",
		Short: "Select the active sheet for this session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actions.RequestSetSheet(cmd.Context(), args[0])

			selected := store.State().SetSheet
			if selected.ID == "" {
				return fmt.Errorf("sheet %q could not be selected", args[0])
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Active sheet: " + selected.ID)
			return nil
		},
	}
}
