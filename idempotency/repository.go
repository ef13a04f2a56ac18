package idempotency

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

// FindByKey returns the stored record for the key on the given endpoint, or
// nil on a miss. The same key on another endpoint is a different record.
func (r *Repository) FindByKey(ctx context.Context, key, endpoint string) (*models.IdempotencyRecord, error) {
	record := &models.IdempotencyRecord{Key: key, Endpoint: endpoint}
	err := r.db.ModelContext(ctx, record).WherePK().Select()
	if err == pg.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *Repository) DeleteByKey(ctx context.Context, key, endpoint string) error {
	record := &models.IdempotencyRecord{Key: key, Endpoint: endpoint}
	_, err := r.db.ModelContext(ctx, record).WherePK().Delete()
	return err
}

// DeleteOlderThan removes every record created before the cutoff, given in
// unix milliseconds. Returns the number of rows removed.
func (r *Repository) DeleteOlderThan(ctx context.Context, cutoff int64) (int, error) {
	res, err := r.db.ModelContext(ctx, (*models.IdempotencyRecord)(nil)).
		Where("created_at < ?", cutoff).
		Delete()
	if err != nil {
		return 0, err
	}
	return res.RowsAffected(), nil
}
