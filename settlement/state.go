package settlement

import (
	"github.com/shopspring/decimal"

	"github.com/ammdex/amm-ledger/models"
	"github.com/ammdex/amm-ledger/numeric"
)

// poolState is the decimal view of a pool snapshot. Parsing happens once per
// attempt; a stored value that fails to parse is a data fault, not a caller
// error.
type poolState struct {
	reserveA    decimal.Decimal
	reserveB    decimal.Decimal
	totalShares decimal.Decimal
	feePerShare decimal.Decimal
}

func parsePoolState(pool *models.Pool) (*poolState, error) {
	reserveA, err := numeric.ParseUnsigned(pool.ReserveA)
	if err != nil {
		return nil, NewError(CodeInternal, "pool %d reserve_a: %v", pool.Id, err)
	}
	reserveB, err := numeric.ParseUnsigned(pool.ReserveB)
	if err != nil {
		return nil, NewError(CodeInternal, "pool %d reserve_b: %v", pool.Id, err)
	}
	totalShares, err := numeric.ParseUnsigned(zeroIfEmpty(pool.TotalShares))
	if err != nil {
		return nil, NewError(CodeInternal, "pool %d total_shares: %v", pool.Id, err)
	}
	feePerShare, err := numeric.ParseUnsigned(zeroIfEmpty(pool.FeePerShare))
	if err != nil {
		return nil, NewError(CodeInternal, "pool %d fee_per_share: %v", pool.Id, err)
	}
	return &poolState{
		reserveA:    reserveA,
		reserveB:    reserveB,
		totalShares: totalShares,
		feePerShare: feePerShare,
	}, nil
}

// positionState is the decimal view of a position snapshot.
type positionState struct {
	shares           decimal.Decimal
	entryFeePerShare decimal.Decimal
}

func parsePositionState(position *models.Position) (*positionState, error) {
	shares, err := numeric.ParseUnsigned(zeroIfEmpty(position.Shares))
	if err != nil {
		return nil, NewError(CodeInternal, "position %d shares: %v", position.Id, err)
	}
	entry, err := numeric.ParseUnsigned(zeroIfEmpty(position.EntryFeePerShare))
	if err != nil {
		return nil, NewError(CodeInternal, "position %d entry_fee_per_share: %v", position.Id, err)
	}
	return &positionState{shares: shares, entryFeePerShare: entry}, nil
}

func zeroIfEmpty(s string) string {
	if s == "" {
		return "0"
	}
	return s
}
