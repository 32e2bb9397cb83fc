package contentitem

import "fmt"

type ErrorCode string

const (
	// ErrCodeMalformedContentItem indicates the content_items document could not be decoded
	// into items.
	ErrCodeMalformedContentItem ErrorCode = "malformed_content_item"
)

// ContentItemError represents a structured error from the contentitem package.
type ContentItemError struct {
	// code is the error code
	code ErrorCode

	// message is a human-readable error message
	message string

	// Index is the position in @graph of the offending item, or -1 for document level errors
	Index int

	// wrapped is the optional underlying error
	wrapped error
}

func (e *ContentItemError) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("%s: %v", e.message, e.wrapped)
	}
	return e.message
}

func (e *ContentItemError) Code() ErrorCode { return e.code }
func (e *ContentItemError) Unwrap() error   { return e.wrapped }

// NewMalformedContentItemError reports a problem with the graph entry at index
// (-1 for the document itself).
//
// The returned error will have code ErrCodeMalformedContentItem.
func NewMalformedContentItemError(index int, msg string) error {
	return &ContentItemError{code: ErrCodeMalformedContentItem, message: msg, Index: index}
}

// WrapMalformedContentItemError wraps a decoding error.
func WrapMalformedContentItemError(err error, index int, msg string) error {
	return &ContentItemError{code: ErrCodeMalformedContentItem, message: msg, Index: index, wrapped: err}
}
