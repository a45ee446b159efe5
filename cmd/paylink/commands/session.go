package commands

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"paylink/internal/domain"
	"paylink/internal/services/session"
)

func sessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect the cached session",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the cached session",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := appCtx.Session.GetUserData()
			if err != nil {
				return err
			}
			fmt.Printf("Device ID:  %s\n", data.DeviceID)
			fmt.Printf("Logged in:  %t\n", data.IsLoggedIn)
			if exp, ok := session.TokenExpiry(data.Authorization); ok {
				state := "valid"
				if !time.Now().Before(exp) {
					state = "expired"
				}
				fmt.Printf("Token:      %s until %s\n", state, exp.Local().Format(time.RFC1123))
			}
			if data.User != nil {
				fmt.Printf("User:       %s %s <%s>\n", data.User.FirstName, data.User.LastName, data.User.Email)
			}
			if data.Sender != nil {
				fmt.Printf("Sender:     %s (%s)\n", data.Sender.BusinessName, data.Sender.ID)
			}
			fmt.Printf("Wallets:    %d cached\n", len(data.Wallets))

			keys := make([]domain.StatusKey, 0, len(data.SendersTableData))
			for k := range data.SendersTableData {
				keys = append(keys, k)
			}
			sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
			for _, k := range keys {
				pg := data.SendersTableData[k]
				fmt.Printf("Senders:    %-9s page %d/%d (%d total)\n", k, pg.Page, pg.TotalPages, pg.Total)
			}
			if len(data.AddSender) > 0 {
				fmt.Println("Draft:      unsaved add-sender draft present")
			}
			return nil
		},
	})
	return cmd
}
