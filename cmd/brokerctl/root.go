package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var transportFlag string
	var socketFlag string
	var timeoutFlag int

	ctx := newCommandContext(&configFlag, &transportFlag, &socketFlag, &timeoutFlag)

	rootCmd := &cobra.Command{
		Use:           "brokerctl",
		Short:         "Identity broker control CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&transportFlag, "transport", "", "Transport to the privileged endpoint (bus or socket)")
	rootCmd.PersistentFlags().StringVar(&socketFlag, "socket", "", "Path to the broker socket")
	rootCmd.PersistentFlags().IntVar(&timeoutFlag, "timeout", 0, "Per-call timeout in seconds (0 uses the configured value)")

	rootCmd.AddCommand(newVersionCommand(ctx))
	rootCmd.AddCommand(newCallCommand(ctx))
	rootCmd.AddCommand(newAccountsCommand(ctx))
	rootCmd.AddCommand(newAuditCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
