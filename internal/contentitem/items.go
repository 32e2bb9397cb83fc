// Package contentitem encodes and decodes the JSON-LD graph carried in the content_items
// parameter of Content-Item selection messages.
//
// Items are a closed tagged union: every graph entry is one of LtiLinkItem, FileItem,
// ContentItem or, for @type values this package does not model, UnknownItem. The @type
// discriminator selects the shape during decode.
package contentitem

import (
	"encoding/json"
	"time"
)

// Context is the JSON-LD @context of a content_items document.
const Context = "http://purl.imsglobal.org/ctx/lti/v1/ContentItem"

// @type values.
const (
	TypeLtiLinkItem = "LtiLinkItem"
	TypeFileItem    = "FileItem"
	TypeContentItem = "ContentItem"

	// accepted on decode for compatibility with older consumers
	typeLtiLinkAlias = "LtiLink"
	typeLinkAlias    = "Link"
)

// Media types commonly offered in accept_media_types.
const (
	MediaTypeLtiLink = "application/vnd.ims.lti.v1.ltilink"
	MediaTypeHTML    = "text/html"
)

// Item is one entry of the graph. The set of implementations is closed.
type Item interface {
	// Type returns the @type discriminator.
	Type() string

	isItem()
}

// Image is an icon or thumbnail reference.
type Image struct {
	ID     string `json:"@id"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// PlacementAdvice tells the consumer how to present the item.
type PlacementAdvice struct {
	PresentationDocumentTarget string `json:"presentationDocumentTarget,omitempty"`
	DisplayWidth               int    `json:"displayWidth,omitempty"`
	DisplayHeight              int    `json:"displayHeight,omitempty"`
	WindowTarget               string `json:"windowTarget,omitempty"`
}

// Properties are shared by every item shape.
type Properties struct {
	ID              string           `json:"@id,omitempty"`
	URL             string           `json:"url,omitempty"`
	MediaType       string           `json:"mediaType,omitempty"`
	Title           string           `json:"title,omitempty"`
	Text            string           `json:"text,omitempty"`
	Icon            *Image           `json:"icon,omitempty"`
	Thumbnail       *Image           `json:"thumbnail,omitempty"`
	PlacementAdvice *PlacementAdvice `json:"placementAdvice,omitempty"`
}

// LineItem asks the consumer to create a gradebook column for an LtiLinkItem.
type LineItem struct {
	Type             string            `json:"@type,omitempty"`
	Label            string            `json:"label,omitempty"`
	ReportingMethod  string            `json:"reportingMethod,omitempty"`
	ScoreConstraints *ScoreConstraints `json:"scoreConstraints,omitempty"`
}

// ScoreConstraints bound the scores of a LineItem.
type ScoreConstraints struct {
	Type               string   `json:"@type,omitempty"`
	NormalMaximum      *float64 `json:"normalMaximum,omitempty"`
	ExtraCreditMaximum *float64 `json:"extraCreditMaximum,omitempty"`
	TotalMaximum       *float64 `json:"totalMaximum,omitempty"`
}

// LtiLinkItem is an LTI launch link to be placed in the consumer.
type LtiLinkItem struct {
	Properties
	Custom   map[string]string `json:"custom,omitempty"`
	LineItem *LineItem         `json:"lineItem,omitempty"`
}

// FileItem is a file the consumer may copy or link to.
type FileItem struct {
	Properties
	CopyAdvice bool       `json:"copyAdvice,omitempty"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
}

// ContentItem is a plain link or a fragment of HTML.
type ContentItem struct {
	Properties
}

// UnknownItem keeps a graph entry whose @type is not modelled here, unchanged.
type UnknownItem struct {
	TypeName string
	Raw      json.RawMessage
}

func (LtiLinkItem) Type() string   { return TypeLtiLinkItem }
func (FileItem) Type() string      { return TypeFileItem }
func (ContentItem) Type() string   { return TypeContentItem }
func (u UnknownItem) Type() string { return u.TypeName }

func (LtiLinkItem) isItem() {}
func (FileItem) isItem()    {}
func (ContentItem) isItem() {}
func (UnknownItem) isItem() {}

func (i LtiLinkItem) MarshalJSON() ([]byte, error) {
	type plain LtiLinkItem
	return json.Marshal(struct {
		Type string `json:"@type"`
		plain
	}{TypeLtiLinkItem, plain(i)})
}

func (i FileItem) MarshalJSON() ([]byte, error) {
	type plain FileItem
	return json.Marshal(struct {
		Type string `json:"@type"`
		plain
	}{TypeFileItem, plain(i)})
}

func (i ContentItem) MarshalJSON() ([]byte, error) {
	type plain ContentItem
	return json.Marshal(struct {
		Type string `json:"@type"`
		plain
	}{TypeContentItem, plain(i)})
}

// MarshalJSON replays the item as received; an item built without Raw is written as a bare
// typed node.
func (u UnknownItem) MarshalJSON() ([]byte, error) {
	if len(u.Raw) == 0 {
		return json.Marshal(struct {
			Type string `json:"@type"`
		}{u.TypeName})
	}
	return u.Raw, nil
}
