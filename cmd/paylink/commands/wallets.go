package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func walletsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "wallets",
		Short: "Refresh and print wallet balances",
		RunE: func(cmd *cobra.Command, args []string) error {
			wallets, err := appCtx.Dashboard.RefreshWallets(cmd.Context())
			if err != nil {
				return err
			}
			if len(wallets) == 0 {
				fmt.Println("No wallets.")
				return nil
			}
			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CURRENCY\tBALANCE\tLEDGER\tID")
			for _, w := range wallets {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", w.Currency, w.Balance, w.Ledger, w.ID)
			}
			return tw.Flush()
		},
	}
}
