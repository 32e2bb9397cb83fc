// Package membership is a client for the LIS Membership service a Tool Consumer exposes to
// tools through the custom_context_memberships_url launch parameter.
//
// Memberships are returned in pages of an LISMembershipContainer. GetMemberships follows the
// nextPage links and returns every membership, stopping early if the consumer repeats a page.
package membership

import (
	"strings"

	"github.com/ltilibrary/lti-go/internal/lti"
)

const (
	MediaTypeMembershipContainer = "application/vnd.ims.lis.v2.membershipcontainer+json"
	ContextMembershipContainer   = "http://purl.imsglobal.org/ctx/lis/v2/MembershipContainer"
)

// Member status values.
const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
	StatusDeleted  = "Deleted"
)

// Person is the member of a membership.
type Person struct {
	Type       string `json:"@type,omitempty"`
	UserID     string `json:"userId,omitempty"`
	SourcedID  string `json:"sourcedId,omitempty"`
	Name       string `json:"name,omitempty"`
	GivenName  string `json:"givenName,omitempty"`
	FamilyName string `json:"familyName,omitempty"`
	Email      string `json:"email,omitempty"`
	Image      string `json:"img,omitempty"`

	// ResultSourcedID is only present when the request was filtered by resource link.
	ResultSourcedID string `json:"resultSourcedId,omitempty"`
}

// Message carries the launch parameters the member would receive for a resource link.
type Message struct {
	MessageType        string            `json:"message_type,omitempty"`
	ResultSourcedID    string            `json:"lis_result_sourcedid,omitempty"`
	Custom             map[string]string `json:"custom,omitempty"`
	ResourceLinkID     string            `json:"resource_link_id,omitempty"`
	ResourceLinkTitle  string            `json:"resource_link_title,omitempty"`
	ContextID          string            `json:"context_id,omitempty"`
	LaunchPresentation string            `json:"launch_presentation_return_url,omitempty"`
}

// Membership is one person's membership of the context.
type Membership struct {
	Status  string    `json:"status,omitempty"`
	Member  Person    `json:"member"`
	Role    []string  `json:"role,omitempty"`
	Message []Message `json:"message,omitempty"`
}

// Roles returns the recognised roles of the membership.
//
// Consumers send short names ("Learner"), LTI 1 URNs or LIS v2 vocabulary urls
// (".../membership#Learner"); all three resolve to the same role. Unknown roles are dropped.
func (m *Membership) Roles() []lti.Role {
	var roles []lti.Role
	seen := make(map[lti.Role]bool)
	for _, raw := range m.Role {
		role, ok := lti.ParseRole(raw)
		if !ok {
			if i := strings.LastIndex(raw, "#"); i >= 0 {
				role, ok = lti.ParseRole(raw[i+1:])
			}
		}
		if ok && !seen[role] {
			seen[role] = true
			roles = append(roles, role)
		}
	}
	return roles
}

// HasRole reports whether the membership includes role.
func (m *Membership) HasRole(role lti.Role) bool {
	for _, r := range m.Roles() {
		if r == role {
			return true
		}
	}
	return false
}

// Active reports whether the member is active. A missing status counts as active.
func (m *Membership) Active() bool {
	return m.Status == "" || m.Status == StatusActive
}

// Subject is the context whose memberships are listed.
type Subject struct {
	Type       string       `json:"@type,omitempty"`
	ContextID  string       `json:"contextId,omitempty"`
	Membership []Membership `json:"membership"`
}

// Container is the LISMembershipContainer a page belongs to.
type Container struct {
	Type                string  `json:"@type,omitempty"`
	MembershipPredicate string  `json:"membershipPredicate,omitempty"`
	MembershipSubject   Subject `json:"membershipSubject"`
}

// Page is one page of memberships.
type Page struct {
	Context     any       `json:"@context,omitempty"`
	Type        string    `json:"@type,omitempty"`
	ID          string    `json:"@id,omitempty"`
	Differences string    `json:"differences,omitempty"`
	NextPage    string    `json:"nextPage,omitempty"`
	PageOf      Container `json:"pageOf"`
}

func (p *Page) PageID() string      { return p.ID }
func (p *Page) NextPageURL() string { return p.NextPage }
