package oracle

import (
	"context"

	"github.com/go-pg/pg/v10"

	"github.com/ammdex/amm-ledger/models"
)

type Repository struct {
	db *pg.DB
}

func NewRepository(db *pg.DB) *Repository {
	return &Repository{
		db: db,
	}
}

// FeedsSince returns the pool's observations with timestamp >= cutoff,
// newest first, capped at limit.
func (r *Repository) FeedsSince(ctx context.Context, poolID uint64, cutoff int64, limit int) ([]models.PriceFeed, error) {
	var feeds []models.PriceFeed
	err := r.db.ModelContext(ctx, &feeds).
		Where("pool_id = ? AND timestamp >= ?", poolID, cutoff).
		Order("timestamp DESC").
		Limit(limit).
		Select()
	if err != nil {
		return nil, err
	}
	return feeds, nil
}
