package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"askcache/internal/askfile"
	"askcache/internal/clock"
	"askcache/internal/procprobe"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show pending password requests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			entries, err := askfile.List(cfg.Paths.AskDir)
			if err != nil {
				return fmt.Errorf("list requests: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintf(out, "No pending requests in %s\n", cfg.Paths.AskDir)
				return nil
			}
			now, err := clock.Monotonic{}.NowMicros()
			if err != nil {
				return err
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Request", "PID", "Alive", "Expires", "Socket", "Message"},
				requestRows(entries, procprobe.Signal{}, now),
				[]columnAlignment{alignLeft, alignRight, alignLeft, alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}
}

func requestRows(entries []askfile.Entry, prober procprobe.Prober, now uint64) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Err != nil {
			rows = append(rows, []string{entry.Name, "-", "-", "-", "-", "invalid: " + entry.Err.Error()})
			continue
		}
		req := entry.Request
		alive := "?"
		if ok, err := prober.Alive(req.PID); err == nil {
			alive = yesNo(ok)
		}
		rows = append(rows, []string{
			req.Name,
			fmt.Sprintf("%d", req.PID),
			alive,
			formatExpiry(req, now),
			req.Socket,
			strings.TrimSpace(req.Message),
		})
	}
	return rows
}

func formatExpiry(req *askfile.Request, now uint64) string {
	switch {
	case req.NotAfter == 0:
		return "never"
	case req.Expired(now):
		return "expired"
	default:
		remaining := time.Duration(req.NotAfter-now) * time.Microsecond
		return "in " + remaining.Round(time.Second).String()
	}
}
