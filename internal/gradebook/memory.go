package gradebook

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps the gradebook in process memory. Its contents are lost on restart.
type MemoryStore struct {
	mu        sync.RWMutex
	lineItems []*LineItem
	results   []*Result
	now       func() time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (s *MemoryStore) CreateLineItem(_ context.Context, item *LineItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item.ID == "" {
		item.ID = uuid.NewString()
	} else if s.findLineItem(item.ConsumerKey, item.ID) != nil {
		return ErrConflict
	}
	item.CreatedAt = s.now().UTC()
	item.UpdatedAt = item.CreatedAt

	stored := *item
	s.lineItems = append(s.lineItems, &stored)
	return nil
}

func (s *MemoryStore) GetLineItem(_ context.Context, consumerKey, id string) (*LineItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item := s.findLineItem(consumerKey, id)
	if item == nil {
		return nil, ErrNotFound
	}
	found := *item
	return &found, nil
}

func (s *MemoryStore) UpdateLineItem(_ context.Context, item *LineItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := s.findLineItem(item.ConsumerKey, item.ID)
	if stored == nil {
		return ErrNotFound
	}
	item.CreatedAt = stored.CreatedAt
	item.UpdatedAt = s.now().UTC()
	*stored = *item
	return nil
}

func (s *MemoryStore) DeleteLineItem(_ context.Context, consumerKey, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findLineItem(consumerKey, id) == nil {
		return ErrNotFound
	}
	s.lineItems = slices.DeleteFunc(s.lineItems, func(li *LineItem) bool {
		return li.ConsumerKey == consumerKey && li.ID == id
	})
	s.results = slices.DeleteFunc(s.results, func(r *Result) bool {
		return r.ConsumerKey == consumerKey && r.LineItemID == id
	})
	return nil
}

func (s *MemoryStore) ListLineItems(_ context.Context, consumerKey string, filter LineItemFilter, opts ListOptions) ([]LineItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []LineItem
	for _, li := range s.lineItems {
		if li.ConsumerKey != consumerKey ||
			(filter.ContextID != "" && li.ContextID != filter.ContextID) ||
			(filter.ResourceLinkID != "" && li.ResourceLinkID != filter.ResourceLinkID) ||
			(filter.ActivityID != "" && li.ActivityID != filter.ActivityID) {
			continue
		}
		matched = append(matched, *li)
	}
	return window(matched, opts), nil
}

func (s *MemoryStore) CreateResult(_ context.Context, result *Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findLineItem(result.ConsumerKey, result.LineItemID) == nil {
		return ErrNotFound
	}
	if result.SourcedID != "" && s.findBySourcedID(result.ConsumerKey, result.SourcedID) != nil {
		return ErrConflict
	}
	if result.ID == "" {
		result.ID = uuid.NewString()
	} else if s.findResult(result.ConsumerKey, result.LineItemID, result.ID) != nil {
		return ErrConflict
	}
	result.CreatedAt = s.now().UTC()
	result.UpdatedAt = result.CreatedAt

	s.results = append(s.results, cloneResult(result))
	return nil
}

func (s *MemoryStore) GetResult(_ context.Context, consumerKey, lineItemID, id string) (*Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r := s.findResult(consumerKey, lineItemID, id)
	if r == nil {
		return nil, ErrNotFound
	}
	return cloneResult(r), nil
}

func (s *MemoryStore) UpdateResult(_ context.Context, result *Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := s.findResult(result.ConsumerKey, result.LineItemID, result.ID)
	if stored == nil {
		return ErrNotFound
	}
	if result.SourcedID != "" {
		if other := s.findBySourcedID(result.ConsumerKey, result.SourcedID); other != nil && other != stored {
			return ErrConflict
		}
	}
	result.CreatedAt = stored.CreatedAt
	result.UpdatedAt = s.now().UTC()
	*stored = *cloneResult(result)
	return nil
}

func (s *MemoryStore) DeleteResult(_ context.Context, consumerKey, lineItemID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findResult(consumerKey, lineItemID, id) == nil {
		return ErrNotFound
	}
	s.results = slices.DeleteFunc(s.results, func(r *Result) bool {
		return r.ConsumerKey == consumerKey && r.LineItemID == lineItemID && r.ID == id
	})
	return nil
}

func (s *MemoryStore) ListResults(_ context.Context, consumerKey, lineItemID string, opts ListOptions) ([]Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.findLineItem(consumerKey, lineItemID) == nil {
		return nil, ErrNotFound
	}
	var matched []Result
	for _, r := range s.results {
		if r.ConsumerKey == consumerKey && r.LineItemID == lineItemID {
			matched = append(matched, *cloneResult(r))
		}
	}
	return window(matched, opts), nil
}

func (s *MemoryStore) ReplaceScore(_ context.Context, consumerKey, sourcedID string, score *float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.findBySourcedID(consumerKey, sourcedID)
	if r == nil {
		return ErrNotFound
	}
	r.Score = copyScore(score)
	r.UpdatedAt = s.now().UTC()
	return nil
}

func (s *MemoryStore) ReadScore(_ context.Context, consumerKey, sourcedID string) (*float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r := s.findBySourcedID(consumerKey, sourcedID)
	if r == nil {
		return nil, ErrNotFound
	}
	return copyScore(r.Score), nil
}

func (s *MemoryStore) DeleteScore(ctx context.Context, consumerKey, sourcedID string) error {
	return s.ReplaceScore(ctx, consumerKey, sourcedID, nil)
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close() {}

func (s *MemoryStore) findLineItem(consumerKey, id string) *LineItem {
	for _, li := range s.lineItems {
		if li.ConsumerKey == consumerKey && li.ID == id {
			return li
		}
	}
	return nil
}

func (s *MemoryStore) findResult(consumerKey, lineItemID, id string) *Result {
	for _, r := range s.results {
		if r.ConsumerKey == consumerKey && r.LineItemID == lineItemID && r.ID == id {
			return r
		}
	}
	return nil
}

func (s *MemoryStore) findBySourcedID(consumerKey, sourcedID string) *Result {
	for _, r := range s.results {
		if r.ConsumerKey == consumerKey && r.SourcedID == sourcedID {
			return r
		}
	}
	return nil
}

func cloneResult(r *Result) *Result {
	c := *r
	c.Score, c.TotalScore = copyScore(r.Score), copyScore(r.TotalScore)
	return &c
}

func copyScore(score *float64) *float64 {
	if score == nil {
		return nil
	}
	v := *score
	return &v
}

func window[T any](items []T, opts ListOptions) []T {
	if opts.Offset >= len(items) {
		return nil
	}
	items = items[max(opts.Offset, 0):]
	if opts.Limit > 0 && opts.Limit < len(items) {
		items = items[:opts.Limit]
	}
	return items
}
