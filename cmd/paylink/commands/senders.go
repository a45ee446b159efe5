package commands

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"paylink/internal/domain"
	"paylink/internal/services/dashboard"
)

func sendersCmd() *cobra.Command {
	var (
		status string
		page   int
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "senders",
		Short: "Fetch one page of a sender list tab",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, applied, err := appCtx.Dashboard.FetchSenders(cmd.Context(), domain.SendersQuery{
				Status: domain.StatusKey(strings.ToUpper(status)),
				Page:   page,
				Limit:  limit,
			})
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tBUSINESS\tCOUNTRY\tSTATUS\tCREATED")
			for _, s := range res.Items {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", s.ID, s.BusinessName, s.Country, s.Status, s.CreatedAt)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Printf("%s: page %d of %d, %d total\n", res.Status, res.Page, res.TotalPages, res.Total)
			if !applied {
				fmt.Println("(a newer fetch of this tab already updated the cache)")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", dashboard.DefaultStatus.String(), "tab: ACTIVE, DRAFT, PENDING or REJECTED")
	cmd.Flags().IntVar(&page, "page", dashboard.DefaultPage, "page number")
	cmd.Flags().IntVar(&limit, "limit", dashboard.DefaultLimit, "page size")
	return cmd
}

func senderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sender",
		Short: "Work with a single sender profile",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "use <id>",
		Short: "Make a sender profile the active one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := appCtx.Dashboard.SelectSender(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Active sender: %s (%s, %s)\n", s.BusinessName, s.ID, s.Status)
			return nil
		},
	})
	return cmd
}
