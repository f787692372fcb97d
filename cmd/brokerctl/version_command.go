package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"brokerd/internal/broker"
	"brokerd/internal/proto"
)

func newVersionCommand(ctx *commandContext) *cobra.Command {
	var remote bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Report broker version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "brokerctl %s (protocol %s)\n", broker.Version, broker.ProtocolVersion)
			if !remote {
				return nil
			}

			r, err := ctx.dialRelay()
			if err != nil {
				return err
			}
			result, err := r.Call(cmd.Context(), proto.OpGetLinuxBrokerVersion, proto.Tuple{
				ProtocolVersion: broker.ProtocolVersion,
				CorrelationID:   uuid.NewString(),
				RequestJSON:     "{}",
			})
			if err != nil {
				return fmt.Errorf("query broker version: %w", err)
			}
			fmt.Fprintf(out, "broker: %s\n", result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&remote, "remote", false, "Also query the running broker for its version")
	return cmd
}
