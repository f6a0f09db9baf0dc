package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewStatusCommand creates the status command
func NewStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the outbox backlog per record type",
		Args:  cobra.NoArgs,
		RunE:  runStatus,
	}
}

func runStatus(cmd *cobra.Command, args []string) error {
	stack, err := buildSyncStack()
	if err != nil {
		return err
	}
	defer stack.cleanup()

	statuses, err := stack.service.Status(cmd.Context())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TYPE\tDIRTY\tPARKED\tCLEAN")
	for _, s := range statuses {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\n", s.RecordType, s.Dirty, s.Parked, s.Clean)
	}
	return w.Flush()
}
