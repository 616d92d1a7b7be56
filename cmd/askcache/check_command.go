package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"askcache/internal/daemonrun"
	"askcache/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var forcePolkit bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify the paths and binaries the daemon needs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			mode := daemonrun.DeliveryOptions(cfg, daemonrun.Options{ForcePolkit: forcePolkit}).Mode
			results := preflight.RunAll(cfg, mode)

			rows := make([][]string, 0, len(results))
			for _, result := range results {
				rows = append(rows, []string{result.Name, checkStatus(result), result.Detail})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Delivery mode: %s\n", mode)
			fmt.Fprintln(out, renderTable([]string{"Check", "Status", "Detail"}, rows, nil))

			if failed := preflight.Failed(results); len(failed) > 0 {
				return fmt.Errorf("%d required check(s) failed", len(failed))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&forcePolkit, "pk", false, "Check helper delivery requirements")
	return cmd
}

func checkStatus(result preflight.Result) string {
	switch {
	case result.Passed:
		return "ok"
	case result.Optional:
		return "warn"
	default:
		return "fail"
	}
}
