// Package settlement implements the atomic settlement protocol: a
// version-checked read-modify-write cycle with bounded exponential-backoff
// retry, shared by swap, fee-claim and liquidity operations.
package settlement

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/ammdex/amm-ledger/metrics"
	"github.com/ammdex/amm-ledger/models"
)

// Outcome classifies one protocol attempt. Only OutcomeConflict re-enters
// the retry loop; OutcomeFatal aborts immediately.
type Outcome int

const (
	OutcomeOk Outcome = iota
	OutcomeConflict
	OutcomeFatal
)

// Storage is the transactional contract the protocol runs against. Reads are
// plain snapshots; Commit* methods run a single transaction whose conditional
// write matches on primary key and the previously read version. Zero rows
// affected surfaces as a CodeConflict error, an idempotency-key collision as
// errDuplicateIdempotencyKey, and in both cases nothing is persisted.
type Storage interface {
	GetPool(ctx context.Context, id uint64) (*models.Pool, error)
	GetToken(ctx context.Context, id uint64) (*models.Token, error)
	GetPosition(ctx context.Context, id uint64) (*models.Position, error)
	CommitSwap(ctx context.Context, c *SwapCommit) error
	CommitFeeClaim(ctx context.Context, c *FeeClaimCommit) error
	CommitAddLiquidity(ctx context.Context, c *AddLiquidityCommit) error
	CommitRemoveLiquidity(ctx context.Context, c *RemoveLiquidityCommit) error
}

// ResultCache is the read side of the idempotency store.
type ResultCache interface {
	Check(ctx context.Context, key, endpoint string) (json.RawMessage, error)
}

// Publisher fans committed state out to subscribers. Implementations own
// their failure handling; a publish must never fail a settlement that has
// already committed.
type Publisher interface {
	PublishPoolUpdate(poolID uint64, reserveA, reserveB, feePerShare string)
	PublishSwap(poolID uint64, amountIn, amountOut, trader string)
}

// Config bounds the retry loop and sets the protocol's cut of swap fees.
type Config struct {
	ProtocolFeeRate decimal.Decimal
	MaxRetries      int
	BaseBackoff     time.Duration
}

type Service struct {
	storage   Storage
	cache     ResultCache
	publisher Publisher
	metrics   *metrics.Metrics
	logger    *logrus.Entry
	cfg       Config
	now       func() time.Time
}

func NewService(storage Storage, cache ResultCache, publisher Publisher, m *metrics.Metrics, logger *logrus.Entry, cfg Config) *Service {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = 50 * time.Millisecond
	}
	return &Service{
		storage:   storage,
		cache:     cache,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
}

// run drives one settlement through the protocol cycle. attempt re-reads,
// re-computes and re-issues the conditional write on every call, so it is
// safe to invoke again after a conflict. The backoff sleep holds no
// transaction and no lock.
func (s *Service) run(ctx context.Context, operation string, attempt func() (Outcome, error)) error {
	for i := 0; i < s.cfg.MaxRetries; i++ {
		outcome, err := attempt()
		switch outcome {
		case OutcomeOk:
			s.metrics.SettlementsCommitted.WithLabelValues(operation).Inc()
			return nil
		case OutcomeConflict:
			s.metrics.VersionConflicts.WithLabelValues(operation).Inc()
			s.logger.WithFields(logrus.Fields{
				"operation": operation,
				"attempt":   i + 1,
			}).Debug("version conflict, retrying")
			if i < s.cfg.MaxRetries-1 {
				if err := s.backoff(ctx, i); err != nil {
					return err
				}
			}
		default:
			if !errors.Is(err, errDuplicateIdempotencyKey) {
				s.metrics.FatalRejections.WithLabelValues(string(CodeOf(err))).Inc()
			}
			return err
		}
	}
	s.metrics.RetriesExhausted.WithLabelValues(operation).Inc()
	return NewError(CodeRetriesExhausted, "%s lost %d version races, giving up", operation, s.cfg.MaxRetries)
}

func (s *Service) backoff(ctx context.Context, attempt int) error {
	delay := s.cfg.BaseBackoff * time.Duration(1<<uint(attempt+1))
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}

// replay fetches a previously stored result for the key. Lookup failures are
// logged and treated as a miss: settling twice is prevented by the unique
// constraint inside the commit, not by this read.
func (s *Service) replay(ctx context.Context, key, endpoint string) json.RawMessage {
	cached, err := s.cache.Check(ctx, key, endpoint)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"key":      key,
			"endpoint": endpoint,
		}).Warn("idempotency check failed: ", err)
		return nil
	}
	return cached
}
