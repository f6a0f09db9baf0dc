package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	appsync "github.com/storelink/backend/internal/application/sync"
)

// pushDurationPrecision keeps pass durations readable in output
const pushDurationPrecision = time.Millisecond

// PushOptions holds flags for the push command
type PushOptions struct {
	Limit int
}

// NewPushCommand creates the push command
func NewPushCommand() *cobra.Command {
	opts := &PushOptions{}

	cmd := &cobra.Command{
		Use:   "push <type>",
		Short: "Run one sync pass for a record type",
		Long: `Run one bounded sync pass, pushing dirty records of the given type
to the remote store. Use "all" to run every registered type in
dependency order.

Exits non-zero when any record in the pass failed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPush(cmd, args[0], opts)
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "max records per type (0 uses the configured batch size)")

	return cmd
}

func runPush(cmd *cobra.Command, typeName string, opts *PushOptions) error {
	stack, err := buildSyncStack()
	if err != nil {
		return err
	}
	defer stack.cleanup()

	ctx := cmd.Context()

	var results []*appsync.BatchResultResponse
	if typeName == "all" {
		results, err = stack.service.RunAll(ctx, opts.Limit)
	} else {
		var result *appsync.BatchResultResponse
		result, err = stack.service.RunType(ctx, typeName, opts.Limit)
		if result != nil {
			results = append(results, result)
		}
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	failed := 0
	for _, r := range results {
		fmt.Fprintf(out, "%s: %d pushed, %d succeeded, %d failed (%s)\n",
			r.RecordType, r.Total, r.Succeeded, r.Failed,
			r.FinishedAt.Sub(r.StartedAt).Round(pushDurationPrecision))
		for _, f := range r.Failures {
			fmt.Fprintf(out, "  %s [%s] %s\n", f.RecordID, f.Kind, f.Message)
		}
		failed += r.Failed
	}

	if failed > 0 {
		return fmt.Errorf("%d record(s) failed to push", failed)
	}
	return nil
}
