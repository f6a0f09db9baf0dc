package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewResetCommand creates the reset command
func NewResetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset <type>",
		Short: "Re-arm parked records of a record type for retry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stack, err := buildSyncStack()
			if err != nil {
				return err
			}
			defer stack.cleanup()

			resp, err := stack.service.ResetParked(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d parked record(s) re-armed\n", resp.RecordType, resp.Reset)
			return nil
		},
	}
}
