package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ltilibrary/lti-go/internal/outcomesv1"
)

var outcomesCmd = &cobra.Command{
	Use:   "outcomes",
	Short: "Basic Outcomes (POX) calls",
	Long: `Send Basic Outcomes requests to the lis_outcome_service_url of a launch.

Scores are decimals between 0.0 and 1.0.

Example:
  lti outcomes replace https://lms.example/outcomes 42-7 0.85`,
}

var outcomesReplaceCmd = &cobra.Command{
	Use:   "replace <service-url> <sourcedid> <score>",
	Short: "Replace the score of a result",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		score, err := strconv.ParseFloat(args[2], 64)
		if err != nil || score < 0 || score > 1 {
			return fmt.Errorf("score must be a number between 0.0 and 1.0, got %q", args[2])
		}
		client, err := newOutcomesClient()
		if err != nil {
			return err
		}
		if err := client.ReplaceResult(cmd.Context(), args[0], args[1], &score); err != nil {
			return serviceError(cmd, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "score of %s replaced with %s\n", args[1], outcomesv1.FormatScore(score))
		return nil
	},
}

var outcomesReadCmd = &cobra.Command{
	Use:   "read <service-url> <sourcedid>",
	Short: "Read the score of a result",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newOutcomesClient()
		if err != nil {
			return err
		}
		score, err := client.ReadResult(cmd.Context(), args[0], args[1])
		if err != nil {
			return serviceError(cmd, err)
		}
		if score == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "%s has no score\n", args[1])
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), outcomesv1.FormatScore(*score))
		return nil
	},
}

var outcomesDeleteCmd = &cobra.Command{
	Use:   "delete <service-url> <sourcedid>",
	Short: "Delete the score of a result",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newOutcomesClient()
		if err != nil {
			return err
		}
		if err := client.DeleteResult(cmd.Context(), args[0], args[1]); err != nil {
			return serviceError(cmd, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "score of %s deleted\n", args[1])
		return nil
	},
}

func newOutcomesClient() (*outcomesv1.Client, error) {
	t, err := newTransport()
	if err != nil {
		return nil, err
	}
	return outcomesv1.NewClient(t), nil
}

func init() {
	outcomesCmd.AddCommand(outcomesReplaceCmd)
	outcomesCmd.AddCommand(outcomesReadCmd)
	outcomesCmd.AddCommand(outcomesDeleteCmd)
}
