package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/romferry/romferry/internal/version"
)

// newVersionCmd creates the 'version' command.
func newVersionCmd() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("romferry %s (built %s)\n", version.Version, version.BuildTime)
			if !check {
				return nil
			}

			res, err := version.CheckLatest(GetContext())
			if err != nil {
				return fmt.Errorf("update check failed: %w", err)
			}
			if res.UpToDate {
				fmt.Println("Up to date.")
			} else {
				fmt.Printf("Newer release available: %s\n  %s\n", res.Latest, res.URL)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "check for a newer release")

	return cmd
}
