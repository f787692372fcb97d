package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"brokerd/internal/broker"
	"brokerd/internal/proto"
)

func newCallCommand(ctx *commandContext) *cobra.Command {
	var requestJSON string
	var correlationID string
	var protocolVersion string

	cmd := &cobra.Command{
		Use:   "call <operation>",
		Short: "Invoke one broker operation and print the raw result",
		Long: "Invoke one broker operation against the privileged endpoint.\n" +
			"Known operations: " + strings.Join(proto.Operations(), ", "),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			op := strings.TrimSpace(args[0])
			if !proto.KnownOperation(op) {
				return fmt.Errorf("unknown operation %q (known: %s)", op, strings.Join(proto.Operations(), ", "))
			}

			cid := strings.TrimSpace(correlationID)
			if cid == "" {
				cid = uuid.NewString()
			}

			r, err := ctx.dialRelay()
			if err != nil {
				return err
			}

			result, err := r.Call(cmd.Context(), op, proto.Tuple{
				ProtocolVersion: protocolVersion,
				CorrelationID:   cid,
				RequestJSON:     requestJSON,
			})
			if err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&requestJSON, "request", "r", "{}", "Request payload as a JSON string")
	cmd.Flags().StringVar(&correlationID, "correlation-id", "", "Correlation id for tracing (random UUID when empty)")
	cmd.Flags().StringVar(&protocolVersion, "protocol-version", broker.ProtocolVersion, "Protocol version to send")
	return cmd
}
