package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"paylink/internal/crypto"
	"paylink/internal/domain"
)

func deviceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "device",
		Short: "Manage the device identity",
	}
	cmd.AddCommand(deviceInitCmd(), deviceShowCmd(), deviceResetCmd())
	return cmd
}

func deviceInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the device identity if it does not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := appCtx.Keys.Ensure()
			if err != nil {
				return err
			}
			printDevice(id)
			return nil
		},
	}
}

func deviceShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the device identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := appCtx.Keys.Get()
			if errors.Is(err, domain.ErrNotInitialized) {
				return fmt.Errorf("no device identity. run: paylink device init")
			}
			if err != nil {
				return err
			}
			printDevice(id)
			return nil
		},
	}
}

func deviceResetCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Discard the device identity and the session bound to it",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("this logs the device out and discards its keys; pass --yes to confirm")
			}
			if err := appCtx.Keys.Reset(); err != nil {
				return err
			}
			fmt.Println("Device identity discarded.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	return cmd
}

func printDevice(id domain.DeviceIdentity) {
	fmt.Printf("Device ID:   %s\n", id.DeviceID)
	fmt.Printf("Public key:  %s\n", id.PublicKey)
	fmt.Printf("Fingerprint: %s\n", crypto.Fingerprint(id.PublicKey))
	fmt.Printf("Created:     %s\n", time.Unix(id.CreatedUTC, 0).UTC().Format(time.RFC3339))
}
