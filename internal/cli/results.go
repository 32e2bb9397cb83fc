package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ltilibrary/lti-go/internal/outcomesv2"
)

var resultsCmd = &cobra.Command{
	Use:     "results",
	Aliases: []string{"result"},
	Short:   "Outcomes Management results",
	Long: `Manage the results (one learner's cell) of a line item.

The container url is the results url of a line item.

Example:
  lti results create https://lms.example/outcomes/v2/course-1/lineitems/7/results --user-id u-7 --sourced-id 42-7
  lti results update https://lms.example/outcomes/v2/course-1/lineitems/7/results/3 --score 8.5 --status Completed`,
}

var resultFlags struct {
	userID    string
	sourcedID string
	score     float64
	total     float64
	comment   string
	status    string
	limit     int
}

var resultsListCmd = &cobra.Command{
	Use:   "list <container-url>",
	Short: "List every result, following nextPage",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newOutcomesV2Client()
		if err != nil {
			return err
		}
		results, err := client.ListResults(cmd.Context(), args[0], outcomesv2.ListOptions{Limit: resultFlags.limit})
		if err != nil {
			return serviceError(cmd, err)
		}
		return printJSON(cmd.OutOrStdout(), results)
	},
}

var resultsGetCmd = &cobra.Command{
	Use:   "get <result-url>",
	Short: "Get a result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newOutcomesV2Client()
		if err != nil {
			return err
		}
		result, err := client.GetResult(cmd.Context(), args[0])
		if err != nil {
			return serviceError(cmd, err)
		}
		return printJSON(cmd.OutOrStdout(), result)
	},
}

var resultsCreateCmd = &cobra.Command{
	Use:   "create <container-url>",
	Short: "Create a result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newOutcomesV2Client()
		if err != nil {
			return err
		}
		result := &outcomesv2.Result{}
		applyResultFlags(cmd, result)

		created, err := client.CreateResult(cmd.Context(), args[0], result)
		if err != nil {
			return serviceError(cmd, err)
		}
		return printJSON(cmd.OutOrStdout(), created)
	},
}

var resultsUpdateCmd = &cobra.Command{
	Use:   "update <result-url>",
	Short: "Change the score, comment or status of a result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newOutcomesV2Client()
		if err != nil {
			return err
		}
		result, err := client.GetResult(cmd.Context(), args[0])
		if err != nil {
			return serviceError(cmd, err)
		}
		applyResultFlags(cmd, result)
		if err := client.UpdateResult(cmd.Context(), result); err != nil {
			return serviceError(cmd, err)
		}
		return printJSON(cmd.OutOrStdout(), result)
	},
}

var resultsDeleteCmd = &cobra.Command{
	Use:   "delete <result-url>",
	Short: "Delete a result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newOutcomesV2Client()
		if err != nil {
			return err
		}
		if err := client.DeleteResult(cmd.Context(), args[0]); err != nil {
			return serviceError(cmd, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
		return nil
	},
}

func applyResultFlags(cmd *cobra.Command, result *outcomesv2.Result) {
	flags := cmd.Flags()
	if flags.Changed("user-id") {
		result.ResultAgent = &outcomesv2.Agent{UserID: resultFlags.userID}
	}
	if flags.Changed("sourced-id") {
		result.SourcedID = resultFlags.sourcedID
	}
	if flags.Changed("score") {
		score := resultFlags.score
		result.ResultScore = &score
	}
	if flags.Changed("total-score") {
		total := resultFlags.total
		result.TotalScore = &total
	}
	if flags.Changed("comment") {
		result.Comment = resultFlags.comment
	}
	if flags.Changed("status") {
		result.ResultStatus = resultFlags.status
	}
}

func init() {
	resultsCmd.AddCommand(resultsListCmd)
	resultsCmd.AddCommand(resultsGetCmd)
	resultsCmd.AddCommand(resultsCreateCmd)
	resultsCmd.AddCommand(resultsUpdateCmd)
	resultsCmd.AddCommand(resultsDeleteCmd)

	resultsListCmd.Flags().IntVar(&resultFlags.limit, "limit", 0, "page size to ask for")

	for _, c := range []*cobra.Command{resultsCreateCmd, resultsUpdateCmd} {
		c.Flags().StringVar(&resultFlags.userID, "user-id", "", "resultAgent.userId")
		c.Flags().Float64Var(&resultFlags.score, "score", 0, "resultScore")
		c.Flags().Float64Var(&resultFlags.total, "total-score", 0, "totalScore")
		c.Flags().StringVar(&resultFlags.comment, "comment", "", "comment for the learner")
		c.Flags().StringVar(&resultFlags.status, "status", "", "resultStatus, e.g. Completed")
	}
	resultsCreateCmd.Flags().StringVar(&resultFlags.sourcedID, "sourced-id", "", "lis_result_sourcedid Basic Outcomes will use for this result")
}
