package contentitem

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/gowebpki/jcs"
)

type document struct {
	Context string            `json:"@context"`
	Graph   []json.RawMessage `json:"@graph"`
}

// Encode serializes items as a content_items document in RFC 8785 canonical form, so the same
// items always produce the same bytes inside a signed form.
func Encode(items []Item) ([]byte, error) {
	doc := document{Context: Context, Graph: make([]json.RawMessage, 0, len(items))}
	for i, item := range items {
		if item == nil {
			return nil, fmt.Errorf("content item %d is nil", i)
		}
		raw, err := json.Marshal(item)
		if err != nil {
			return nil, fmt.Errorf("failed to encode content item %d: %w", i, err)
		}
		doc.Graph = append(doc.Graph, raw)
	}

	encoded, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode content items: %w", err)
	}
	canonical, err := jcs.Transform(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to canonicalize content items: %w", err)
	}
	return canonical, nil
}

// EncodeString is Encode for use as a form parameter value.
func EncodeString(items []Item) (string, error) {
	encoded, err := Encode(items)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

// Decode parses a content_items document.
//
// Unknown fields are ignored and unknown @type values are returned as UnknownItem. A graph entry
// without an @type fails with ErrCodeMalformedContentItem. The @context is not checked, since
// consumers send it both as a string and as an array.
func Decode(data []byte) ([]Item, error) {
	var doc struct {
		Graph []json.RawMessage `json:"@graph"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, WrapMalformedContentItemError(err, -1, "content_items is not a JSON-LD document")
	}

	items := make([]Item, 0, len(doc.Graph))
	for i, raw := range doc.Graph {
		item, err := decodeItem(i, raw)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func decodeItem(index int, raw json.RawMessage) (Item, error) {
	var head struct {
		Type *string `json:"@type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, WrapMalformedContentItemError(err, index, fmt.Sprintf("content item %d is not an object", index))
	}
	if head.Type == nil || *head.Type == "" {
		return nil, NewMalformedContentItemError(index, fmt.Sprintf("content item %d has no @type", index))
	}

	var (
		item Item
		err  error
	)
	switch *head.Type {
	case TypeLtiLinkItem, typeLtiLinkAlias:
		var v LtiLinkItem
		err = json.Unmarshal(raw, &v)
		item = v
	case TypeFileItem:
		var v FileItem
		err = json.Unmarshal(raw, &v)
		item = v
	case TypeContentItem, typeLinkAlias:
		var v ContentItem
		err = json.Unmarshal(raw, &v)
		item = v
	default:
		item = UnknownItem{TypeName: *head.Type, Raw: bytes.Clone(raw)}
	}
	if err != nil {
		return nil, WrapMalformedContentItemError(err, index, fmt.Sprintf("content item %d is not a valid %s", index, *head.Type))
	}
	return item, nil
}
