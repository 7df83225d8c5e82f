package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newPlatformsCmd creates the 'platforms' command.
func newPlatformsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "platforms",
		Short: "List the platform directories on the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cfg, err := connect(GetLogger())
			if err != nil {
				return err
			}
			defer client.Close()

			names, err := client.Platforms(cfg.Connection.RemoteRoot)
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		},
	}
}
