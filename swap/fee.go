package swap

import (
	"github.com/shopspring/decimal"

	"github.com/ammdex/amm-ledger/numeric"
)

// FeeSplit divides a swap fee between the protocol and the liquidity
// providers. ProtocolFee + LPFee always equals the original fee exactly; the
// integer-unit rounding remainder goes to the protocol side.
type FeeSplit struct {
	FeePerShareIncrement decimal.Decimal
	ProtocolFee          decimal.Decimal
	LPFee                decimal.Decimal
}

// AccumulateFee takes protocolFeeRate off the top of feeAmount and converts
// the remainder into a per-share increment for the pool's running
// fee_per_share accumulator. With zero total shares there is nobody to
// attribute to and the whole fee is protocol revenue.
func AccumulateFee(feeAmount, totalShares, protocolFeeRate decimal.Decimal) (FeeSplit, error) {
	if totalShares.IsZero() {
		return FeeSplit{
			FeePerShareIncrement: decimal.Zero,
			ProtocolFee:          numeric.Floor(feeAmount),
			LPFee:                decimal.Zero,
		}, nil
	}

	lpFee := numeric.Floor(feeAmount.Mul(decimal.NewFromInt(1).Sub(protocolFeeRate)))
	protocolFee := feeAmount.Sub(lpFee)

	increment, err := numeric.Div(lpFee, totalShares)
	if err != nil {
		return FeeSplit{}, err
	}

	return FeeSplit{
		FeePerShareIncrement: increment.Truncate(numeric.FeePerSharePlaces),
		ProtocolFee:          protocolFee,
		LPFee:                lpFee,
	}, nil
}

// OwedFees is shares * (currentFeePerShare - entryFeePerShare), floored to
// the integer token unit. The accumulator never decreases, so the result is
// never negative for a position settled through the protocol.
func OwedFees(shares, currentFeePerShare, entryFeePerShare decimal.Decimal) decimal.Decimal {
	return numeric.Floor(currentFeePerShare.Sub(entryFeePerShare).Mul(shares))
}
