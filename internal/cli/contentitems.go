package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ltilibrary/lti-go/internal/contentitem"
)

var contentItemsCmd = &cobra.Command{
	Use:   "contentitems",
	Short: "Work with content_items graphs",
}

var contentItemsDecodeCmd = &cobra.Command{
	Use:   "decode [file]",
	Short: "Decode and re-encode a content_items graph",
	Long: `Read the JSON-LD value of a content_items parameter from a file (or stdin), check every
item and print the graph in canonical form.

Items of an unknown @type are kept unchanged.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			data []byte
			err  error
		)
		if len(args) == 0 || args[0] == "-" {
			data, err = io.ReadAll(cmd.InOrStdin())
		} else {
			data, err = os.ReadFile(args[0])
		}
		if err != nil {
			return fmt.Errorf("failed to read content items: %w", err)
		}

		items, err := contentitem.Decode(data)
		if err != nil {
			return err
		}
		for i, item := range items {
			fmt.Fprintf(cmd.ErrOrStderr(), "item %d: %s\n", i, item.Type())
		}

		canonical, err := contentitem.EncodeString(items)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), canonical)
		return err
	},
}

func init() {
	contentItemsCmd.AddCommand(contentItemsDecodeCmd)
}
