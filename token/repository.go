package token

import (
	"context"
	"sync"

	"github.com/go-pg/pg/v10"

	"github.com/ammdex/amm-ledger/models"
)

// Repository reads the token registry. Tokens are immutable once listed, so
// lookups are cached indefinitely.
type Repository struct {
	db    *pg.DB
	cache *sync.Map
}

func NewRepository(db *pg.DB) *Repository {
	return &Repository{
		db:    db,
		cache: new(sync.Map),
	}
}

func (r *Repository) FindById(ctx context.Context, id uint64) (*models.Token, error) {
	cached, ok := r.cache.Load(id)
	if ok {
		return cached.(*models.Token), nil
	}
	token := &models.Token{Id: id}
	err := r.db.ModelContext(ctx, token).WherePK().Select()
	if err != nil {
		return nil, err
	}
	r.cache.Store(id, token)
	return token, nil
}
