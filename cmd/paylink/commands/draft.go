package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func draftCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Manage the add-sender draft",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "set <json>",
			Short: "Save the add-sender draft (a JSON object)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := appCtx.Dashboard.SaveSenderDraft(json.RawMessage(args[0])); err != nil {
					return err
				}
				fmt.Println("Draft saved.")
				return nil
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Print the add-sender draft",
			RunE: func(cmd *cobra.Command, args []string) error {
				data, err := appCtx.Session.GetUserData()
				if err != nil {
					return err
				}
				if len(data.AddSender) == 0 {
					fmt.Println("No draft.")
					return nil
				}
				fmt.Println(string(data.AddSender))
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Discard the add-sender draft",
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := appCtx.Dashboard.DiscardSenderDraft(); err != nil {
					return err
				}
				fmt.Println("Draft discarded.")
				return nil
			},
		},
	)
	return cmd
}
