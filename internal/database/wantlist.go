package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rickgao/longbox/internal/model"
	"github.com/rickgao/longbox/internal/wantlist"
)

// WantListStore is the PostgreSQL want-list store.
type WantListStore struct {
	pool *pgxpool.Pool
}

var _ wantlist.Store = (*WantListStore)(nil)

// NewWantListStore creates a store over pool.
func NewWantListStore(pool *pgxpool.Pool) *WantListStore {
	return &WantListStore{pool: pool}
}

const itemColumns = `id, series_name, issue_number, issue_id, target_max_price,
	is_active, created_at, updated_at, last_checked_at`

func scanItem(row pgx.Row) (model.WantListItem, error) {
	var it model.WantListItem
	err := row.Scan(
		&it.ID,
		&it.SeriesName,
		&it.IssueNumber,
		&it.IssueID,
		&it.TargetMaxPrice,
		&it.IsActive,
		&it.CreatedAt,
		&it.UpdatedAt,
		&it.LastCheckedAt,
	)
	return it, err
}

// ActiveItems returns active items in insertion order.
func (s *WantListStore) ActiveItems(ctx context.Context) ([]model.WantListItem, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+itemColumns+`
		FROM want_list_items
		WHERE is_active
		ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("query active items: %w", err)
	}
	defer rows.Close()

	var items []model.WantListItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}

// GetItem returns wantlist.ErrNotFound for an unknown id.
func (s *WantListStore) GetItem(ctx context.Context, id uuid.UUID) (model.WantListItem, error) {
	it, err := scanItem(s.pool.QueryRow(ctx, `
		SELECT `+itemColumns+`
		FROM want_list_items
		WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.WantListItem{}, wantlist.ErrNotFound
	}
	if err != nil {
		return model.WantListItem{}, fmt.Errorf("select item: %w", err)
	}
	return it, nil
}

// CreateItem inserts a new item.
func (s *WantListStore) CreateItem(ctx context.Context, it model.WantListItem) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO want_list_items (id, series_name, issue_number, issue_id,
			target_max_price, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, it.ID, it.SeriesName, it.IssueNumber, it.IssueID,
		it.TargetMaxPrice, it.IsActive, it.CreatedAt, it.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// UpsertMatch inserts a match or updates price, total price, title, and
// deal score of the existing (item, provider item) row. xmax is zero only
// for a freshly inserted tuple.
func (s *WantListStore) UpsertMatch(ctx context.Context, m model.WantListMatch) (bool, error) {
	var score []byte
	if m.DealScore != nil {
		var err error
		if score, err = json.Marshal(m.DealScore); err != nil {
			return false, fmt.Errorf("encode deal score: %w", err)
		}
	}

	var inserted bool
	err := s.pool.QueryRow(ctx, `
		INSERT INTO want_list_matches (id, want_list_item_id, provider_item_id, title,
			price, total_price, currency, item_url, image_url, deal_score, is_new,
			found_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, TRUE, $11, $11)
		ON CONFLICT (want_list_item_id, provider_item_id) DO UPDATE SET
			price = EXCLUDED.price,
			total_price = EXCLUDED.total_price,
			title = EXCLUDED.title,
			deal_score = EXCLUDED.deal_score,
			updated_at = EXCLUDED.updated_at
		RETURNING (xmax = 0)
	`, m.ID, m.WantListItemID, m.ProviderItemID, m.Title,
		m.Price, m.TotalPrice, m.Currency, m.ItemURL, m.ImageURL, score,
		m.UpdatedAt,
	).Scan(&inserted)
	if err != nil {
		return false, fmt.Errorf("upsert match: %w", err)
	}
	return inserted, nil
}

// TouchLastChecked sets last_checked_at for id.
func (s *WantListStore) TouchLastChecked(ctx context.Context, id uuid.UUID, at time.Time) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE want_list_items SET last_checked_at = $2 WHERE id = $1
	`, id, at)
	if err != nil {
		return fmt.Errorf("update last checked: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return wantlist.ErrNotFound
	}
	return nil
}

// Matches returns the matches for an item, newest first.
func (s *WantListStore) Matches(ctx context.Context, itemID uuid.UUID) ([]model.WantListMatch, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, want_list_item_id, provider_item_id, title, price, total_price,
			currency, item_url, image_url, deal_score, is_new, found_at, updated_at
		FROM want_list_matches
		WHERE want_list_item_id = $1
		ORDER BY found_at DESC
	`, itemID)
	if err != nil {
		return nil, fmt.Errorf("query matches: %w", err)
	}
	defer rows.Close()

	var out []model.WantListMatch
	for rows.Next() {
		var (
			m     model.WantListMatch
			score []byte
		)
		if err := rows.Scan(&m.ID, &m.WantListItemID, &m.ProviderItemID, &m.Title,
			&m.Price, &m.TotalPrice, &m.Currency, &m.ItemURL, &m.ImageURL,
			&score, &m.IsNew, &m.FoundAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		if len(score) > 0 {
			var ds model.DealScore
			if err := json.Unmarshal(score, &ds); err != nil {
				return nil, fmt.Errorf("decode deal score: %w", err)
			}
			m.DealScore = &ds
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate matches: %w", err)
	}
	return out, nil
}
