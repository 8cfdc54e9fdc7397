package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var logLevel string
	ctx := newCommandContext(&logLevel)
	return buildRootCommand(ctx, &logLevel)
}

func buildRootCommand(ctx *commandContext, logLevel *string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "triagectl",
		Short:         "Classify support tickets with the configured LLM providers",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			ctx.close(cmd.Context())
		},
	}

	rootCmd.PersistentFlags().StringVar(logLevel, "log-level", "error", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(newClassifyCommand(ctx))
	rootCmd.AddCommand(newProvidersCommand(ctx))
	rootCmd.AddCommand(newCostCommand())

	return rootCmd
}
