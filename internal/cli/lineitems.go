package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ltilibrary/lti-go/internal/outcomesv2"
)

var lineItemsCmd = &cobra.Command{
	Use:     "lineitems",
	Aliases: []string{"lineitem"},
	Short:   "Outcomes Management line items",
	Long: `Manage the line items (gradebook columns) of a context.

The container url is the custom_lineitems_url of a launch.

Example:
  lti lineitems create https://lms.example/outcomes/v2/course-1/lineitems --label "Quiz 1" --maximum 10
  lti lineitems list https://lms.example/outcomes/v2/course-1/lineitems --activity-id quiz-1`,
}

var lineItemFlags struct {
	label      string
	activityID string
	resourceID string
	maximum    float64
	limit      int
}

var lineItemsListCmd = &cobra.Command{
	Use:   "list <container-url>",
	Short: "List every line item, following nextPage",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newOutcomesV2Client()
		if err != nil {
			return err
		}
		items, err := client.ListLineItems(cmd.Context(), args[0], outcomesv2.ListOptions{
			Limit:      lineItemFlags.limit,
			ActivityID: lineItemFlags.activityID,
		})
		if err != nil {
			return serviceError(cmd, err)
		}
		return printJSON(cmd.OutOrStdout(), items)
	},
}

var lineItemsGetCmd = &cobra.Command{
	Use:   "get <lineitem-url>",
	Short: "Get a line item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newOutcomesV2Client()
		if err != nil {
			return err
		}
		item, err := client.GetLineItem(cmd.Context(), args[0])
		if err != nil {
			return serviceError(cmd, err)
		}
		return printJSON(cmd.OutOrStdout(), item)
	},
}

var lineItemsCreateCmd = &cobra.Command{
	Use:   "create <container-url>",
	Short: "Create a line item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if lineItemFlags.label == "" {
			return fmt.Errorf("--label is required")
		}
		client, err := newOutcomesV2Client()
		if err != nil {
			return err
		}
		item := &outcomesv2.LineItem{ResourceLinkID: lineItemFlags.resourceID}
		applyLineItemFlags(cmd, item)

		created, err := client.CreateLineItem(cmd.Context(), args[0], item)
		if err != nil {
			return serviceError(cmd, err)
		}
		return printJSON(cmd.OutOrStdout(), created)
	},
}

var lineItemsUpdateCmd = &cobra.Command{
	Use:   "update <lineitem-url>",
	Short: "Change the label, activity or maximum of a line item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newOutcomesV2Client()
		if err != nil {
			return err
		}
		item, err := client.GetLineItem(cmd.Context(), args[0])
		if err != nil {
			return serviceError(cmd, err)
		}
		applyLineItemFlags(cmd, item)
		if err := client.UpdateLineItem(cmd.Context(), item); err != nil {
			return serviceError(cmd, err)
		}
		return printJSON(cmd.OutOrStdout(), item)
	},
}

var lineItemsDeleteCmd = &cobra.Command{
	Use:   "delete <lineitem-url>",
	Short: "Delete a line item and its results",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newOutcomesV2Client()
		if err != nil {
			return err
		}
		if err := client.DeleteLineItem(cmd.Context(), args[0]); err != nil {
			return serviceError(cmd, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
		return nil
	},
}

// applyLineItemFlags copies the flags the user set onto item.
func applyLineItemFlags(cmd *cobra.Command, item *outcomesv2.LineItem) {
	flags := cmd.Flags()
	if flags.Changed("label") {
		item.Label = lineItemFlags.label
	}
	if flags.Changed("activity-id") {
		item.AssignedActivity = &outcomesv2.Activity{ActivityID: lineItemFlags.activityID}
	}
	if flags.Changed("maximum") {
		maximum := lineItemFlags.maximum
		item.ScoreConstraints = &outcomesv2.ScoreConstraints{Type: "NumericLimits", NormalMaximum: &maximum}
	}
}

func newOutcomesV2Client() (*outcomesv2.Client, error) {
	t, err := newTransport()
	if err != nil {
		return nil, err
	}
	return outcomesv2.NewClient(t), nil
}

func init() {
	lineItemsCmd.AddCommand(lineItemsListCmd)
	lineItemsCmd.AddCommand(lineItemsGetCmd)
	lineItemsCmd.AddCommand(lineItemsCreateCmd)
	lineItemsCmd.AddCommand(lineItemsUpdateCmd)
	lineItemsCmd.AddCommand(lineItemsDeleteCmd)

	lineItemsListCmd.Flags().IntVar(&lineItemFlags.limit, "limit", 0, "page size to ask for")
	lineItemsListCmd.Flags().StringVar(&lineItemFlags.activityID, "activity-id", "", "only line items of this activity")

	for _, c := range []*cobra.Command{lineItemsCreateCmd, lineItemsUpdateCmd} {
		c.Flags().StringVar(&lineItemFlags.label, "label", "", "column label")
		c.Flags().StringVar(&lineItemFlags.activityID, "activity-id", "", "assignedActivity.activityId")
		c.Flags().Float64Var(&lineItemFlags.maximum, "maximum", 0, "scoreConstraints.normalMaximum")
	}
	lineItemsCreateCmd.Flags().StringVar(&lineItemFlags.resourceID, "resource-link-id", "", "resource link the column belongs to")
}
