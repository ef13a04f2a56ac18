package settlement

import (
	"context"

	"github.com/go-pg/pg/v10"

	"github.com/ammdex/amm-ledger/models"
	"github.com/ammdex/amm-ledger/token"
)

// Repository is the go-pg implementation of Storage. Pool and position rows
// are mutated only through version-matched conditional updates; the audit
// tables are append-only. Token lookups go through the registry's cache.
type Repository struct {
	db     *pg.DB
	tokens *token.Repository
}

func NewRepository(db *pg.DB, tokens *token.Repository) *Repository {
	return &Repository{
		db:     db,
		tokens: tokens,
	}
}

func (r *Repository) GetPool(ctx context.Context, id uint64) (*models.Pool, error) {
	pool := &models.Pool{Id: id}
	err := r.db.ModelContext(ctx, pool).WherePK().Select()
	if err == pg.ErrNoRows {
		return nil, NewError(CodeNotFound, "pool %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return pool, nil
}

func (r *Repository) GetToken(ctx context.Context, id uint64) (*models.Token, error) {
	t, err := r.tokens.FindById(ctx, id)
	if err == pg.ErrNoRows {
		return nil, NewError(CodeNotFound, "token %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *Repository) GetPosition(ctx context.Context, id uint64) (*models.Position, error) {
	position := &models.Position{Id: id}
	err := r.db.ModelContext(ctx, position).WherePK().Select()
	if err == pg.ErrNoRows {
		return nil, NewError(CodeNotFound, "position %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return position, nil
}

func (r *Repository) CommitSwap(ctx context.Context, c *SwapCommit) error {
	return r.db.RunInTransaction(ctx, func(tx *pg.Tx) error {
		res, err := tx.ModelContext(ctx, (*models.Pool)(nil)).
			Set("reserve_a = ?", c.NewReserveA).
			Set("reserve_b = ?", c.NewReserveB).
			Set("fee_per_share = ?", c.NewFeePerShare).
			Set("protocol_fees_a = ?", c.NewProtocolFeesA).
			Set("protocol_fees_b = ?", c.NewProtocolFeesB).
			Set("volume24h = ?", c.NewVolume24h).
			Set("version = ?", c.PrevVersion+1).
			Set("updated_at = ?", c.UpdatedAt).
			Where("id = ? AND version = ?", c.PoolID, c.PrevVersion).
			Update()
		if err != nil {
			return err
		}
		if res.RowsAffected() == 0 {
			return NewError(CodeConflict, "pool %d version %d was overtaken", c.PoolID, c.PrevVersion)
		}

		if _, err := tx.ModelContext(ctx, c.Swap).Insert(); err != nil {
			return err
		}
		if _, err := tx.ModelContext(ctx, c.PriceFeed).Insert(); err != nil {
			return err
		}
		return r.insertIdempotency(ctx, tx, c.Idempotency)
	})
}

func (r *Repository) CommitFeeClaim(ctx context.Context, c *FeeClaimCommit) error {
	return r.db.RunInTransaction(ctx, func(tx *pg.Tx) error {
		res, err := tx.ModelContext(ctx, (*models.Position)(nil)).
			Set("entry_fee_per_share = ?", c.NewEntryFeePerShare).
			Set("last_fee_claim = ?", c.LastFeeClaim).
			Set("version = ?", c.PrevVersion+1).
			Where("id = ? AND version = ?", c.PositionID, c.PrevVersion).
			Update()
		if err != nil {
			return err
		}
		if res.RowsAffected() == 0 {
			return NewError(CodeConflict, "position %d version %d was overtaken", c.PositionID, c.PrevVersion)
		}

		if _, err := tx.ModelContext(ctx, c.Claim).Insert(); err != nil {
			return err
		}
		return r.insertIdempotency(ctx, tx, c.Idempotency)
	})
}

func (r *Repository) CommitAddLiquidity(ctx context.Context, c *AddLiquidityCommit) error {
	return r.db.RunInTransaction(ctx, func(tx *pg.Tx) error {
		res, err := tx.ModelContext(ctx, (*models.Pool)(nil)).
			Set("reserve_a = ?", c.NewReserveA).
			Set("reserve_b = ?", c.NewReserveB).
			Set("total_shares = ?", c.NewTotalShares).
			Set("version = ?", c.PrevVersion+1).
			Set("updated_at = ?", c.UpdatedAt).
			Where("id = ? AND version = ?", c.PoolID, c.PrevVersion).
			Update()
		if err != nil {
			return err
		}
		if res.RowsAffected() == 0 {
			return NewError(CodeConflict, "pool %d version %d was overtaken", c.PoolID, c.PrevVersion)
		}

		_, err = tx.ModelContext(ctx, c.Position).Insert()
		return err
	})
}

func (r *Repository) CommitRemoveLiquidity(ctx context.Context, c *RemoveLiquidityCommit) error {
	return r.db.RunInTransaction(ctx, func(tx *pg.Tx) error {
		res, err := tx.ModelContext(ctx, (*models.Pool)(nil)).
			Set("reserve_a = ?", c.NewReserveA).
			Set("reserve_b = ?", c.NewReserveB).
			Set("total_shares = ?", c.NewTotalShares).
			Set("version = ?", c.PoolPrevVersion+1).
			Set("updated_at = ?", c.UpdatedAt).
			Where("id = ? AND version = ?", c.PoolID, c.PoolPrevVersion).
			Update()
		if err != nil {
			return err
		}
		if res.RowsAffected() == 0 {
			return NewError(CodeConflict, "pool %d version %d was overtaken", c.PoolID, c.PoolPrevVersion)
		}

		res, err = tx.ModelContext(ctx, (*models.Position)(nil)).
			Set("shares = ?", c.NewShares).
			Set("entry_fee_per_share = ?", c.NewEntryFeePerShare).
			Set("last_fee_claim = ?", c.LastFeeClaim).
			Set("version = ?", c.PositionPrevVersion+1).
			Where("id = ? AND version = ?", c.PositionID, c.PositionPrevVersion).
			Update()
		if err != nil {
			return err
		}
		if res.RowsAffected() == 0 {
			return NewError(CodeConflict, "position %d version %d was overtaken", c.PositionID, c.PositionPrevVersion)
		}

		if c.Claim != nil {
			if _, err := tx.ModelContext(ctx, c.Claim).Insert(); err != nil {
				return err
			}
		}
		return nil
	})
}

// insertIdempotency writes the result record inside the settlement
// transaction. Hitting the key's unique constraint rolls the whole
// settlement back; the caller replays the winner's stored result.
func (r *Repository) insertIdempotency(ctx context.Context, tx *pg.Tx, rec *models.IdempotencyRecord) error {
	if rec == nil {
		return nil
	}
	_, err := tx.ModelContext(ctx, rec).Insert()
	if pgErr, ok := err.(pg.Error); ok && pgErr.IntegrityViolation() {
		return errDuplicateIdempotencyKey
	}
	return err
}
