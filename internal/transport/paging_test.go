package transport

import (
	"context"
	"errors"
	"testing"
)

type testPage struct {
	id   string
	next string
}

func (p testPage) PageID() string      { return p.id }
func (p testPage) NextPageURL() string { return p.next }

func fetchFrom(pages map[string]testPage, calls *int) func(context.Context, string) (testPage, error) {
	return func(_ context.Context, url string) (testPage, error) {
		*calls++
		page, ok := pages[url]
		if !ok {
			return testPage{}, errors.New("no such page " + url)
		}
		return page, nil
	}
}

func TestCollectPages(t *testing.T) {
	tests := []struct {
		name      string
		pages     map[string]testPage
		wantPages int
		wantCalls int
		wantErr   bool
	}{
		{
			name: "follows nextPage to the end",
			pages: map[string]testPage{
				"u1": {id: "p1", next: "u2"},
				"u2": {id: "p2", next: "u3"},
				"u3": {id: "p3"},
			},
			wantPages: 3,
			wantCalls: 3,
		},
		{
			name: "server repeats the same nextPage",
			pages: map[string]testPage{
				"u1": {id: "p1", next: "u2"},
				"u2": {id: "p2", next: "u2"},
			},
			wantPages: 2,
			wantCalls: 2,
		},
		{
			name: "server returns the same page id under a new url",
			pages: map[string]testPage{
				"u1": {id: "p1", next: "u2"},
				"u2": {id: "p1", next: "u3"},
				"u3": {id: "p3"},
			},
			wantPages: 1,
			wantCalls: 2,
		},
		{
			name: "nextPage points back to the first page",
			pages: map[string]testPage{
				"u1": {id: "p1", next: "u2"},
				"u2": {id: "p2", next: "u1"},
			},
			wantPages: 2,
			wantCalls: 2,
		},
		{
			name: "fetch error",
			pages: map[string]testPage{
				"u1": {id: "p1", next: "missing"},
			},
			wantPages: 1,
			wantCalls: 2,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			pages, err := CollectPages(t.Context(), "u1", fetchFrom(tt.pages, &calls))
			if (err != nil) != tt.wantErr {
				t.Fatalf("CollectPages() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(pages) != tt.wantPages {
				t.Errorf("len(pages) = %d, want %d", len(pages), tt.wantPages)
			}
			if calls != tt.wantCalls {
				t.Errorf("fetch called %d times, want %d", calls, tt.wantCalls)
			}
		})
	}
}
