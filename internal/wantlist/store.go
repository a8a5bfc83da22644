package wantlist

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/longbox/internal/model"
	"github.com/rickgao/longbox/internal/source/marketplace"
)

// ErrNotFound is returned when a want-list item does not exist.
var ErrNotFound = errors.New("want-list item not found")

// Store is the durable want-list storage consumed by the matcher. Every
// operation is atomic at the single-row level.
type Store interface {
	// ActiveItems returns active items in insertion order.
	ActiveItems(ctx context.Context) ([]model.WantListItem, error)

	// GetItem returns ErrNotFound when id does not exist.
	GetItem(ctx context.Context, id uuid.UUID) (model.WantListItem, error)

	// UpsertMatch inserts m or, when (WantListItemID, ProviderItemID)
	// exists, updates only its price, total price, title, and deal score.
	// inserted reports whether a new row was created.
	UpsertMatch(ctx context.Context, m model.WantListMatch) (inserted bool, err error)

	// TouchLastChecked sets the item's last checked time.
	TouchLastChecked(ctx context.Context, id uuid.UUID, at time.Time) error
}

// Searcher finds marketplace listings. *marketplace.Client implements it.
type Searcher interface {
	Search(ctx context.Context, opts marketplace.SearchOptions) ([]model.Listing, error)
}

// HistoryProvider supplies price history for scoring. *pricing.Service
// implements it.
type HistoryProvider interface {
	History(ctx context.Context, series, issue string, grade *float64) (*model.PriceHistory, error)
}
