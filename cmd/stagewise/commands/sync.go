// ABOUTME: Sync commands for the Charm-backed journal
// ABOUTME: Provides status, manual sync, and local wipe
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/stagewise/internal/charm"
)

var openCharm = func() (*charm.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return charm.NewClient(charm.ConfigFrom(cfg))
}

// NewSyncCmd creates the sync command group
func NewSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Manage Charm cloud synchronization of the journal",
		Long: `Manage synchronization of the journal with Charm cloud.

The journal is stored in a local Charm KV database and synced through
your Charm account using SSH keys, so history follows you across devices.`,
	}

	cmd.AddCommand(newSyncStatusCmd())
	cmd.AddCommand(newSyncNowCmd())
	cmd.AddCommand(newSyncWipeCmd())

	return cmd
}

func newSyncStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show sync status and connection info",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := openCharm()
			if err != nil {
				return fmt.Errorf("failed to connect to Charm: %w", err)
			}
			defer func() { _ = client.Close() }()

			w := cmd.OutOrStdout()
			id, err := client.ID()
			if err != nil {
				fmt.Fprintln(w, "Status: Not connected")
				fmt.Fprintln(w, "Check that an SSH key is available for Charm")
				return nil
			}

			fmt.Fprintln(w, "Status: Connected")
			fmt.Fprintf(w, "User ID: %s\n", id)
			fmt.Fprintf(w, "Host: %s\n", client.Host())
			return nil
		},
	}
}

func newSyncNowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "now",
		Short: "Force immediate sync with Charm cloud",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := openCharm()
			if err != nil {
				return fmt.Errorf("failed to connect to Charm: %w", err)
			}
			defer func() { _ = client.Close() }()

			fmt.Fprintln(cmd.OutOrStdout(), "Syncing...")
			if err := client.Sync(); err != nil {
				return fmt.Errorf("sync failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Sync complete")
			return nil
		},
	}
}

func newSyncWipeCmd() *cobra.Command {
	var confirm bool

	cmd := &cobra.Command{
		Use:   "wipe",
		Short: "Wipe the local journal copy",
		Long: `Delete the locally cached journal.

Cloud data remains intact and is re-synced on next access.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if !confirm {
				fmt.Fprintln(w, "This will wipe ALL local journal data!")
				fmt.Fprintln(w, "Run with --confirm to proceed")
				return nil
			}

			client, err := openCharm()
			if err != nil {
				return fmt.Errorf("failed to connect to Charm: %w", err)
			}
			defer func() { _ = client.Close() }()

			if err := client.Reset(); err != nil {
				return fmt.Errorf("failed to wipe data: %w", err)
			}
			fmt.Fprintln(w, "Local journal wiped")
			return nil
		},
	}

	cmd.Flags().BoolVar(&confirm, "confirm", false, "Confirm the wipe operation")

	return cmd
}
