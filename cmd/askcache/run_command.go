package main

import (
	"github.com/spf13/cobra"

	"askcache/internal/daemonrun"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var forcePolkit bool
	var debug bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Watch the request directory and answer prompts until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			opts := daemonrun.Options{ForcePolkit: forcePolkit}
			if debug {
				opts.LogLevel = "debug"
			}
			return daemonrun.Run(cmd.Context(), cfg, opts)
		},
	}

	cmd.Flags().BoolVar(&forcePolkit, "pk", false, "Deliver answers through pkexec and the reply helper")
	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging")
	return cmd
}
