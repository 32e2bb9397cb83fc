// Package outcomesv2 implements LTI 2 Outcomes Management: the JSON-LD LineItem and Result
// resources with their paged containers, a client for a Tool Consumer's REST service, and the
// Tool Consumer side routes.
//
// List operations are paged. Each page carries its own @id and, unless it is the last, an
// absolute nextPage url. Client.ListLineItems and Client.ListResults follow nextPage until it
// is absent, stopping early if the server repeats a page.
package outcomesv2

// Media types
const (
	MediaTypeLineItem          = "application/vnd.ims.lis.v2.lineitem+json"
	MediaTypeLineItemContainer = "application/vnd.ims.lis.v2.lineitemcontainer+json"
	MediaTypeResult            = "application/vnd.ims.lis.v2.result+json"
	MediaTypeResultContainer   = "application/vnd.ims.lis.v2.resultcontainer+json"
)

// JSON-LD contexts
const (
	ContextLineItem          = "http://purl.imsglobal.org/ctx/lis/v2/LineItem"
	ContextLineItemContainer = "http://purl.imsglobal.org/ctx/lis/v2/outcomes/LineItemContainer"
	ContextResult            = "http://purl.imsglobal.org/ctx/lis/v2/Result"
	ContextResultContainer   = "http://purl.imsglobal.org/ctx/lis/v2/outcomes/ResultContainer"
)

// Activity is the assignedActivity of a line item.
type Activity struct {
	ID         string `json:"@id,omitempty"`
	ActivityID string `json:"activityId,omitempty"`
}

// ScoreConstraints bounds the scores of a line item. NormalMaximum is the maximum score.
type ScoreConstraints struct {
	Type               string   `json:"@type,omitempty"`
	NormalMaximum      *float64 `json:"normalMaximum,omitempty"`
	ExtraCreditMaximum *float64 `json:"extraCreditMaximum,omitempty"`
	TotalMaximum       *float64 `json:"totalMaximum,omitempty"`
}

// LineItem is a gradebook column.
type LineItem struct {
	Context          string            `json:"@context,omitempty"`
	Type             string            `json:"@type,omitempty"`
	ID               string            `json:"@id,omitempty"`
	Label            string            `json:"label,omitempty"`
	ReportingMethod  string            `json:"reportingMethod,omitempty"`
	AssignedActivity *Activity         `json:"assignedActivity,omitempty"`
	ScoreConstraints *ScoreConstraints `json:"scoreConstraints,omitempty"`

	// ResourceLinkID ties the column to the resource link it was created for.
	ResourceLinkID string `json:"resourceLinkId,omitempty"`

	// Results is the url of the line item's result container.
	Results string `json:"results,omitempty"`
}

// ActivityID returns assignedActivity.activityId, or "".
func (li *LineItem) ActivityID() string {
	if li.AssignedActivity == nil {
		return ""
	}
	return li.AssignedActivity.ActivityID
}

// Agent is the learner a result belongs to.
type Agent struct {
	UserID string `json:"userId,omitempty"`
}

// Result is one learner's cell in a line item. A nil ResultScore means no submission yet.
type Result struct {
	Context      string   `json:"@context,omitempty"`
	Type         string   `json:"@type,omitempty"`
	ID           string   `json:"@id,omitempty"`
	ResultOf     string   `json:"resultOf,omitempty"`
	ResultAgent  *Agent   `json:"resultAgent,omitempty"`
	ResultScore  *float64 `json:"resultScore,omitempty"`
	TotalScore   *float64 `json:"totalScore,omitempty"`
	Comment      string   `json:"comment,omitempty"`
	ResultStatus string   `json:"resultStatus,omitempty"`

	// SourcedID is the lis_result_sourcedid Basic Outcomes uses for the same cell.
	SourcedID string `json:"sourcedId,omitempty"`
}

// UserID returns resultAgent.userId, or "".
func (r *Result) UserID() string {
	if r.ResultAgent == nil {
		return ""
	}
	return r.ResultAgent.UserID
}

// LineItemSubject is the membershipSubject of a line item container.
type LineItemSubject struct {
	Type      string     `json:"@type,omitempty"`
	ContextID string     `json:"contextId,omitempty"`
	LineItems []LineItem `json:"lineItem"`
}

// LineItemContainer wraps the line items of one page.
type LineItemContainer struct {
	Type              string          `json:"@type,omitempty"`
	MembershipSubject LineItemSubject `json:"membershipSubject"`
}

// LineItemPage is one page of a line item container.
type LineItemPage struct {
	Context  string            `json:"@context,omitempty"`
	Type     string            `json:"@type,omitempty"`
	ID       string            `json:"@id,omitempty"`
	NextPage string            `json:"nextPage,omitempty"`
	PageOf   LineItemContainer `json:"pageOf"`
}

func (p *LineItemPage) PageID() string      { return p.ID }
func (p *LineItemPage) NextPageURL() string { return p.NextPage }

// ResultSubject is the membershipSubject of a result container.
type ResultSubject struct {
	Type    string   `json:"@type,omitempty"`
	Results []Result `json:"result"`
}

// ResultContainer wraps the results of one page.
type ResultContainer struct {
	Type              string        `json:"@type,omitempty"`
	MembershipSubject ResultSubject `json:"membershipSubject"`
}

// ResultPage is one page of a result container.
type ResultPage struct {
	Context  string          `json:"@context,omitempty"`
	Type     string          `json:"@type,omitempty"`
	ID       string          `json:"@id,omitempty"`
	NextPage string          `json:"nextPage,omitempty"`
	PageOf   ResultContainer `json:"pageOf"`
}

func (p *ResultPage) PageID() string      { return p.ID }
func (p *ResultPage) NextPageURL() string { return p.NextPage }
