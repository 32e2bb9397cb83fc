package gradebook

import (
	"context"
	"errors"
	"testing"
)

func ptr(f float64) *float64 { return &f }

// runStoreTests exercises the Store contract; newStore must return an empty store.
func runStoreTests(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("line item lifecycle", func(t *testing.T) {
		s := newStore(t)
		li := &LineItem{ConsumerKey: "ck", ContextID: "ctx-1", Label: "Quiz 1", NormalMaximum: ptr(10)}
		if err := s.CreateLineItem(ctx, li); err != nil {
			t.Fatalf("CreateLineItem() returned error: %v", err)
		}
		if li.ID == "" || li.CreatedAt.IsZero() {
			t.Fatalf("CreateLineItem() did not assign id and timestamps: %+v", li)
		}

		got, err := s.GetLineItem(ctx, "ck", li.ID)
		if err != nil {
			t.Fatalf("GetLineItem() returned error: %v", err)
		}
		if got.Label != "Quiz 1" || got.NormalMaximum == nil || *got.NormalMaximum != 10 {
			t.Errorf("GetLineItem() = %+v", got)
		}

		got.Label = "Quiz 1 (revised)"
		if err := s.UpdateLineItem(ctx, got); err != nil {
			t.Fatalf("UpdateLineItem() returned error: %v", err)
		}
		again, _ := s.GetLineItem(ctx, "ck", li.ID)
		if again.Label != "Quiz 1 (revised)" {
			t.Errorf("label after update = %q", again.Label)
		}

		if err := s.DeleteLineItem(ctx, "ck", li.ID); err != nil {
			t.Fatalf("DeleteLineItem() returned error: %v", err)
		}
		if _, err := s.GetLineItem(ctx, "ck", li.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("GetLineItem() after delete = %v, want ErrNotFound", err)
		}
		if err := s.DeleteLineItem(ctx, "ck", li.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("second DeleteLineItem() = %v, want ErrNotFound", err)
		}
	})

	t.Run("records are scoped by consumer key", func(t *testing.T) {
		s := newStore(t)
		li := &LineItem{ConsumerKey: "ck", Label: "Essay"}
		if err := s.CreateLineItem(ctx, li); err != nil {
			t.Fatalf("CreateLineItem() returned error: %v", err)
		}
		if _, err := s.GetLineItem(ctx, "other", li.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("GetLineItem(other) = %v, want ErrNotFound", err)
		}
		items, err := s.ListLineItems(ctx, "other", LineItemFilter{}, ListOptions{})
		if err != nil {
			t.Fatalf("ListLineItems() returned error: %v", err)
		}
		if len(items) != 0 {
			t.Errorf("ListLineItems(other) returned %d items", len(items))
		}
	})

	t.Run("list filters and windows", func(t *testing.T) {
		s := newStore(t)
		for _, li := range []*LineItem{
			{ConsumerKey: "ck", ContextID: "a", Label: "1"},
			{ConsumerKey: "ck", ContextID: "b", Label: "2"},
			{ConsumerKey: "ck", ContextID: "a", Label: "3"},
			{ConsumerKey: "ck", ContextID: "a", Label: "4"},
		} {
			if err := s.CreateLineItem(ctx, li); err != nil {
				t.Fatalf("CreateLineItem() returned error: %v", err)
			}
		}

		tests := []struct {
			name   string
			filter LineItemFilter
			opts   ListOptions
			want   []string
		}{
			{"all", LineItemFilter{}, ListOptions{}, []string{"1", "2", "3", "4"}},
			{"by context", LineItemFilter{ContextID: "a"}, ListOptions{}, []string{"1", "3", "4"}},
			{"limit", LineItemFilter{ContextID: "a"}, ListOptions{Limit: 2}, []string{"1", "3"}},
			{"offset", LineItemFilter{ContextID: "a"}, ListOptions{Offset: 2, Limit: 2}, []string{"4"}},
			{"past the end", LineItemFilter{}, ListOptions{Offset: 10}, nil},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				items, err := s.ListLineItems(ctx, "ck", tt.filter, tt.opts)
				if err != nil {
					t.Fatalf("ListLineItems() returned error: %v", err)
				}
				var labels []string
				for _, li := range items {
					labels = append(labels, li.Label)
				}
				if len(labels) != len(tt.want) {
					t.Fatalf("labels = %v, want %v", labels, tt.want)
				}
				for i := range labels {
					if labels[i] != tt.want[i] {
						t.Errorf("labels = %v, want %v", labels, tt.want)
						break
					}
				}
			})
		}
	})

	t.Run("results and sourced ids", func(t *testing.T) {
		s := newStore(t)
		li := &LineItem{ConsumerKey: "ck", Label: "Quiz"}
		if err := s.CreateLineItem(ctx, li); err != nil {
			t.Fatalf("CreateLineItem() returned error: %v", err)
		}

		missing := &Result{ConsumerKey: "ck", LineItemID: "nope", SourcedID: "x"}
		if err := s.CreateResult(ctx, missing); !errors.Is(err, ErrNotFound) {
			t.Errorf("CreateResult() on missing line item = %v, want ErrNotFound", err)
		}

		r := &Result{ConsumerKey: "ck", LineItemID: li.ID, SourcedID: "42-7", UserID: "u1"}
		if err := s.CreateResult(ctx, r); err != nil {
			t.Fatalf("CreateResult() returned error: %v", err)
		}
		dup := &Result{ConsumerKey: "ck", LineItemID: li.ID, SourcedID: "42-7"}
		if err := s.CreateResult(ctx, dup); !errors.Is(err, ErrConflict) {
			t.Errorf("CreateResult() with duplicate sourced id = %v, want ErrConflict", err)
		}
		unsourced := []*Result{{ConsumerKey: "ck", LineItemID: li.ID}, {ConsumerKey: "ck", LineItemID: li.ID}}
		for _, u := range unsourced {
			if err := s.CreateResult(ctx, u); err != nil {
				t.Errorf("CreateResult() without sourced id returned error: %v", err)
			}
		}

		score, err := s.ReadScore(ctx, "ck", "42-7")
		if err != nil || score != nil {
			t.Fatalf("ReadScore() of unscored result = %v, %v", score, err)
		}
		if err := s.ReplaceScore(ctx, "ck", "42-7", ptr(0.85)); err != nil {
			t.Fatalf("ReplaceScore() returned error: %v", err)
		}
		score, err = s.ReadScore(ctx, "ck", "42-7")
		if err != nil || score == nil || *score != 0.85 {
			t.Fatalf("ReadScore() = %v, %v, want 0.85", score, err)
		}

		got, err := s.GetResult(ctx, "ck", li.ID, r.ID)
		if err != nil {
			t.Fatalf("GetResult() returned error: %v", err)
		}
		if got.Score == nil || *got.Score != 0.85 {
			t.Errorf("score written by sourced id is not visible on the result: %+v", got)
		}

		if err := s.DeleteScore(ctx, "ck", "42-7"); err != nil {
			t.Fatalf("DeleteScore() returned error: %v", err)
		}
		score, err = s.ReadScore(ctx, "ck", "42-7")
		if err != nil || score != nil {
			t.Errorf("ReadScore() after delete = %v, %v, want nil score", score, err)
		}

		if _, err := s.ReadScore(ctx, "other", "42-7"); !errors.Is(err, ErrNotFound) {
			t.Errorf("ReadScore() for another consumer = %v, want ErrNotFound", err)
		}
		if err := s.ReplaceScore(ctx, "ck", "unknown", ptr(1)); !errors.Is(err, ErrNotFound) {
			t.Errorf("ReplaceScore() of unknown sourced id = %v, want ErrNotFound", err)
		}

		results, err := s.ListResults(ctx, "ck", li.ID, ListOptions{})
		if err != nil {
			t.Fatalf("ListResults() returned error: %v", err)
		}
		if len(results) != 3 {
			t.Errorf("ListResults() returned %d results, want 3", len(results))
		}

		if err := s.DeleteLineItem(ctx, "ck", li.ID); err != nil {
			t.Fatalf("DeleteLineItem() returned error: %v", err)
		}
		if _, err := s.ReadScore(ctx, "ck", "42-7"); !errors.Is(err, ErrNotFound) {
			t.Errorf("result survived its line item: %v", err)
		}
		if _, err := s.ListResults(ctx, "ck", li.ID, ListOptions{}); !errors.Is(err, ErrNotFound) {
			t.Errorf("ListResults() of deleted line item = %v, want ErrNotFound", err)
		}
	})

	t.Run("update and delete result", func(t *testing.T) {
		s := newStore(t)
		li := &LineItem{ConsumerKey: "ck", Label: "Quiz"}
		if err := s.CreateLineItem(ctx, li); err != nil {
			t.Fatalf("CreateLineItem() returned error: %v", err)
		}
		a := &Result{ConsumerKey: "ck", LineItemID: li.ID, SourcedID: "a"}
		b := &Result{ConsumerKey: "ck", LineItemID: li.ID, SourcedID: "b"}
		for _, r := range []*Result{a, b} {
			if err := s.CreateResult(ctx, r); err != nil {
				t.Fatalf("CreateResult() returned error: %v", err)
			}
		}

		b.SourcedID = "a"
		if err := s.UpdateResult(ctx, b); !errors.Is(err, ErrConflict) {
			t.Errorf("UpdateResult() taking another sourced id = %v, want ErrConflict", err)
		}

		a.Comment = "well done"
		a.Score = ptr(0.5)
		if err := s.UpdateResult(ctx, a); err != nil {
			t.Fatalf("UpdateResult() returned error: %v", err)
		}
		got, _ := s.GetResult(ctx, "ck", li.ID, a.ID)
		if got.Comment != "well done" || got.Score == nil || *got.Score != 0.5 {
			t.Errorf("GetResult() after update = %+v", got)
		}

		if err := s.DeleteResult(ctx, "ck", li.ID, a.ID); err != nil {
			t.Fatalf("DeleteResult() returned error: %v", err)
		}
		if _, err := s.GetResult(ctx, "ck", li.ID, a.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("GetResult() after delete = %v, want ErrNotFound", err)
		}
	})
}
