package idempotency

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ammdex/amm-ledger/models"
)

// TTL is how long a stored result stays replayable. Past it, the same key
// settles fresh.
const TTL = 24 * time.Hour

// Store is the persistence contract behind the cache. Records are keyed by
// (key, endpoint), so a key reused on another endpoint settles independently.
type Store interface {
	FindByKey(ctx context.Context, key, endpoint string) (*models.IdempotencyRecord, error)
	DeleteByKey(ctx context.Context, key, endpoint string) error
	DeleteOlderThan(ctx context.Context, cutoff int64) (int, error)
}

type Service struct {
	store  Store
	logger *logrus.Entry
	now    func() time.Time
}

func NewService(store Store, logger *logrus.Entry) *Service {
	return &Service{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Check returns the stored response for the key on the endpoint, or nil when
// there is none. Expired records are dropped lazily on the way out.
func (s *Service) Check(ctx context.Context, key, endpoint string) (json.RawMessage, error) {
	record, err := s.store.FindByKey(ctx, key, endpoint)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, nil
	}
	if s.expired(record) {
		if err := s.store.DeleteByKey(ctx, key, endpoint); err != nil {
			s.logger.Warn("failed to drop expired idempotency record: ", err)
		}
		return nil, nil
	}
	return json.RawMessage(record.Response), nil
}

func (s *Service) expired(record *models.IdempotencyRecord) bool {
	age := s.now().UnixMilli() - record.CreatedAt
	return age > TTL.Milliseconds()
}

// SweepWorker periodically clears expired records so lazy expiry is not the
// only path out of the table.
func (s *Service) SweepWorker() {
	for {
		time.Sleep(time.Hour)

		cutoff := s.now().Add(-TTL).UnixMilli()
		removed, err := s.store.DeleteOlderThan(context.Background(), cutoff)
		if err != nil {
			s.logger.Error("idempotency sweep failed: ", err)
			continue
		}
		if removed > 0 {
			s.logger.WithFields(logrus.Fields{
				"removed": removed,
			}).Info("swept expired idempotency records")
		}
	}
}
