package settlement

import (
	"time"

	"github.com/ammdex/amm-ledger/models"
)

// SwapCommit is everything one swap settlement writes atomically: the
// version-checked pool update, the audit row, the price observation and,
// when the request carried a key, the idempotency record.
type SwapCommit struct {
	PoolID      uint64
	PrevVersion uint64

	NewReserveA      string
	NewReserveB      string
	NewFeePerShare   string
	NewProtocolFeesA string
	NewProtocolFeesB string
	NewVolume24h     float64
	UpdatedAt        time.Time

	Swap        *models.Swap
	PriceFeed   *models.PriceFeed
	Idempotency *models.IdempotencyRecord
}

// FeeClaimCommit resets the position's fee entry point and appends the claim
// history row in one transaction.
type FeeClaimCommit struct {
	PositionID  uint64
	PrevVersion uint64

	NewEntryFeePerShare string
	LastFeeClaim        time.Time

	Claim       *models.FeeClaim
	Idempotency *models.IdempotencyRecord
}

// AddLiquidityCommit grows the pool reserves and inserts the new position.
// The position's Id is filled in by the insert.
type AddLiquidityCommit struct {
	PoolID      uint64
	PrevVersion uint64

	NewReserveA    string
	NewReserveB    string
	NewTotalShares string
	UpdatedAt      time.Time

	Position *models.Position
}

// RemoveLiquidityCommit shrinks the reserves, burns position shares and
// settles accrued fees, all under both version checks. Claim is nil when
// nothing had accrued.
type RemoveLiquidityCommit struct {
	PoolID          uint64
	PoolPrevVersion uint64

	NewReserveA    string
	NewReserveB    string
	NewTotalShares string
	UpdatedAt      time.Time

	PositionID          uint64
	PositionPrevVersion uint64
	NewShares           string
	NewEntryFeePerShare string
	LastFeeClaim        time.Time

	Claim *models.FeeClaim
}
