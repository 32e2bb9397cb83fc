package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ltilibrary/lti-go/internal/lti"
	"github.com/ltilibrary/lti-go/internal/membership"
)

var membershipFlags struct {
	rlid   string
	role   string
	limit  int
	asJSON bool
}

var membershipsCmd = &cobra.Command{
	Use:   "memberships <service-url>",
	Short: "List the members of a context",
	Long: `Read every page of the Membership service at custom_context_memberships_url.

Example:
  lti memberships https://lms.example/memberships/course-1 --role Learner`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := membership.Options{ResourceLinkID: membershipFlags.rlid, Limit: membershipFlags.limit}
		if membershipFlags.role != "" {
			role, ok := lti.ParseRole(membershipFlags.role)
			if !ok {
				return fmt.Errorf("unknown role %q", membershipFlags.role)
			}
			opts.Role = role
		}

		t, err := newTransport()
		if err != nil {
			return err
		}
		members, err := membership.NewClient(t).GetMemberships(cmd.Context(), args[0], opts)
		if err != nil {
			return serviceError(cmd, err)
		}

		if membershipFlags.asJSON {
			return printJSON(cmd.OutOrStdout(), members)
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "USER ID\tNAME\tSTATUS\tROLES\tRESULT SOURCEDID")
		for _, m := range members {
			status := m.Status
			if status == "" {
				status = membership.StatusActive
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
				m.Member.UserID, m.Member.Name, status, lti.FormatRoles(m.Roles()), m.Member.ResultSourcedID)
		}
		return tw.Flush()
	},
}

func init() {
	f := membershipsCmd.Flags()
	f.StringVar(&membershipFlags.rlid, "rlid", "", "only members with access to this resource link")
	f.StringVar(&membershipFlags.role, "role", "", "only members with this role")
	f.IntVar(&membershipFlags.limit, "limit", 0, "page size to ask for")
	f.BoolVar(&membershipFlags.asJSON, "json", false, "print the memberships as JSON")
}
