package main

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"brokerd/internal/broker"
	"brokerd/internal/proto"
)

type accountsResult struct {
	Accounts []struct {
		Username      string `json:"username"`
		HomeAccountID string `json:"homeAccountId"`
		Environment   string `json:"environment"`
		Realm         string `json:"realm"`
	} `json:"accounts"`
}

func newAccountsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "List the accounts known to the broker",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := ctx.dialRelay()
			if err != nil {
				return err
			}

			result, err := r.Call(cmd.Context(), proto.OpGetAccounts, proto.Tuple{
				ProtocolVersion: broker.ProtocolVersion,
				CorrelationID:   uuid.NewString(),
				RequestJSON:     "{}",
			})
			if err != nil {
				return fmt.Errorf("get accounts: %w", err)
			}

			var parsed accountsResult
			if err := json.Unmarshal([]byte(result), &parsed); err != nil || len(parsed.Accounts) == 0 {
				// Unknown shape or empty listing: show the raw payload.
				fmt.Fprintln(cmd.OutOrStdout(), result)
				return nil
			}

			rows := make([][]string, 0, len(parsed.Accounts))
			for _, account := range parsed.Accounts {
				rows = append(rows, []string{
					account.Username,
					account.HomeAccountID,
					account.Environment,
					account.Realm,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Username", "Home Account ID", "Environment", "Realm"}, rows))
			return nil
		},
	}
}
