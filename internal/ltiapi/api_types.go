package ltiapi

// these are the JSON bodies returned by the launch and content-item endpoints

// LaunchResponse summarises a verified launch.
type LaunchResponse struct {
	MessageType string `json:"messageType" example:"basic-lti-launch-request"`
	Version     string `json:"ltiVersion" example:"LTI-1p0"`
	ConsumerKey string `json:"consumerKey"`

	ResourceLinkID    string `json:"resourceLinkId,omitempty"`
	ResourceLinkTitle string `json:"resourceLinkTitle,omitempty"`
	ContextID         string `json:"contextId,omitempty"`
	ContextTitle      string `json:"contextTitle,omitempty"`
	UserID            string `json:"userId,omitempty"`

	// Roles are the URNs of the recognised roles. Unknown roles are dropped.
	Roles []string `json:"roles"`

	DocumentTarget string `json:"documentTarget,omitempty"`
	ReturnURL      string `json:"returnUrl,omitempty"`

	// Outcomes is present when the consumer accepts scores for this launch.
	Outcomes *LaunchOutcomes `json:"outcomes,omitempty"`

	// Services are the LTI 2 service urls the consumer advertised.
	Services *LaunchServices `json:"services,omitempty"`

	// Custom holds the custom_ and ext_ parameters.
	Custom map[string]string `json:"custom,omitempty"`
}

// LaunchOutcomes are the Basic Outcomes details of a launch.
type LaunchOutcomes struct {
	ServiceURL      string `json:"serviceUrl"`
	ResultSourcedID string `json:"resultSourcedId"`
}

// LaunchServices are the service urls a launch may carry.
type LaunchServices struct {
	LineItems   string `json:"lineItems,omitempty"`
	LineItem    string `json:"lineItem,omitempty"`
	Results     string `json:"results,omitempty"`
	Result      string `json:"result,omitempty"`
	Memberships string `json:"memberships,omitempty"`
}

// ContentItemsResponse summarises a ContentItemSelection return message.
type ContentItemsResponse struct {
	ConsumerKey string `json:"consumerKey"`

	// Data is echoed unchanged from the selection request.
	Data string `json:"data,omitempty"`

	Message string `json:"message,omitempty"`
	Log     string `json:"log,omitempty"`

	// Items is empty when nothing was selected.
	Items []ContentItemSummary `json:"items"`
}

// ContentItemSummary describes one returned item.
type ContentItemSummary struct {
	Type      string `json:"type" example:"LtiLinkItem"`
	ID        string `json:"id,omitempty"`
	URL       string `json:"url,omitempty"`
	MediaType string `json:"mediaType,omitempty"`
	Title     string `json:"title,omitempty"`

	// LineItemLabel is set when an LtiLinkItem asks for a gradebook column.
	LineItemLabel string `json:"lineItemLabel,omitempty"`
}
