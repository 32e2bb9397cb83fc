package transport

import (
	"context"
	"log/slog"

	"github.com/ltilibrary/lti-go/internal/logger"
)

// Page is one page of a paged container.
type Page interface {
	// PageID identifies the page (usually its @id).
	PageID() string

	// NextPageURL is the absolute url of the following page, or "" on the last page.
	NextPageURL() string
}

// CollectPages fetches firstURL and follows nextPage links until a page has none.
//
// Collection stops early, without error, when a server returns a page id or a nextPage url it
// has already returned, so a misbehaving server cannot keep the loop going.
func CollectPages[P Page](ctx context.Context, firstURL string, fetch func(ctx context.Context, url string) (P, error)) ([]P, error) {
	var pages []P
	seenIDs := make(map[string]bool)
	seenURLs := map[string]bool{firstURL: true}

	next := firstURL
	for next != "" {
		page, err := fetch(ctx, next)
		if err != nil {
			return pages, err
		}

		if id := page.PageID(); id != "" {
			if seenIDs[id] {
				logger.ContextRequestLogger(ctx).Warn("page repeated, stopping",
					slog.String("page_id", id),
				)
				break
			}
			seenIDs[id] = true
		}
		pages = append(pages, page)

		next = page.NextPageURL()
		if next != "" && seenURLs[next] {
			logger.ContextRequestLogger(ctx).Warn("nextPage repeated, stopping",
				slog.String("next_page", next),
			)
			break
		}
		seenURLs[next] = true
	}
	return pages, nil
}
