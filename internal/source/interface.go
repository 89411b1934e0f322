// Package source reads restaurant catalogue records from external datasets.
package source

import (
	"context"

	"github.com/savorly/recommender/internal/domain"
)

// Source defines the interface for restaurant catalogue sources.
type Source interface {
	// GetSourceID returns the unique identifier for this source.
	GetSourceID() string

	// FetchBatch fetches a batch of restaurants starting from the given cursor.
	// Parameters:
	//   - ctx: context for cancellation and deadlines.
	//   - cursor: pagination cursor or empty for first page.
	//   - limit: maximum number of items to fetch.
	// Returns:
	//   - items: batch of restaurants, IDs unset.
	//   - nextCursor: cursor for the next batch or empty if done.
	//   - err: non-nil if fetching fails.
	FetchBatch(ctx context.Context, cursor string, limit int) (items []domain.Restaurant, nextCursor string, err error)
}
