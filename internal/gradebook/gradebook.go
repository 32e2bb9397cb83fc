// Package gradebook stores the line items and results behind the Tool Consumer outcome
// services.
//
// A Result doubles as the record a Basic Outcomes lis_result_sourcedid refers to: replaceResult,
// readResult and deleteResult act on the score of the result with that sourced id, so scores
// written through either outcome service are visible through both.
//
// Every record is scoped to the consumer key that created it.
//
// To add a storage backend:
//  1. Create a type that implements the Store interface
//  2. Select it in Open based on the configuration
package gradebook

import (
	"context"
	"errors"
	"time"
)

// Common errors
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// LineItem is a gradebook column.
type LineItem struct {
	ID                 string
	ConsumerKey        string
	ContextID          string
	ResourceLinkID     string
	ActivityID         string
	Label              string
	ReportingMethod    string
	NormalMaximum      *float64
	ExtraCreditMaximum *float64
	TotalMaximum       *float64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Result is one learner's result for a line item.
type Result struct {
	ID          string
	LineItemID  string
	ConsumerKey string

	// SourcedID is the lis_result_sourcedid handed to the tool at launch. Optional, but unique
	// per consumer key when set.
	SourcedID string

	UserID     string
	Score      *float64
	TotalScore *float64
	Comment    string
	Status     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// LineItemFilter narrows ListLineItems. Empty fields match everything.
type LineItemFilter struct {
	ContextID      string
	ResourceLinkID string
	ActivityID     string
}

// ListOptions selects a window of a listing ordered by creation time.
type ListOptions struct {
	Offset int
	Limit  int
}

// Store persists line items and results.
//
// Lookups of records that do not exist, or belong to another consumer key, return ErrNotFound.
type Store interface {
	CreateLineItem(ctx context.Context, item *LineItem) error
	GetLineItem(ctx context.Context, consumerKey, id string) (*LineItem, error)
	UpdateLineItem(ctx context.Context, item *LineItem) error
	DeleteLineItem(ctx context.Context, consumerKey, id string) error
	ListLineItems(ctx context.Context, consumerKey string, filter LineItemFilter, opts ListOptions) ([]LineItem, error)

	// CreateResult returns ErrNotFound when the line item does not exist and ErrConflict when
	// the sourced id is already in use.
	CreateResult(ctx context.Context, result *Result) error
	GetResult(ctx context.Context, consumerKey, lineItemID, id string) (*Result, error)
	UpdateResult(ctx context.Context, result *Result) error
	DeleteResult(ctx context.Context, consumerKey, lineItemID, id string) error
	ListResults(ctx context.Context, consumerKey, lineItemID string, opts ListOptions) ([]Result, error)

	// ReplaceScore, ReadScore and DeleteScore address a result by its sourced id.
	// DeleteScore clears the score and keeps the result.
	ReplaceScore(ctx context.Context, consumerKey, sourcedID string, score *float64) error
	ReadScore(ctx context.Context, consumerKey, sourcedID string) (*float64, error)
	DeleteScore(ctx context.Context, consumerKey, sourcedID string) error

	// Ping reports whether the store can serve requests.
	Ping(ctx context.Context) error
	Close()
}
