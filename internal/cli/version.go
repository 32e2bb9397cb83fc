package cli

import (
	"github.com/spf13/cobra"

	"github.com/ltilibrary/lti-go/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printJSON(cmd.OutOrStdout(), version.Get())
	},
}
