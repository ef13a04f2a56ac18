// Package swap holds the pure constant-product math. Every function here is
// side-effect-free and works on decimal values from the numeric package, so
// the settlement protocol can re-run it safely on retry.
package swap

import (
	"github.com/shopspring/decimal"

	"github.com/ammdex/amm-ledger/numeric"
)

const bpsDenominator = 10000

var bpsDenominatorDec = decimal.NewFromInt(bpsDenominator)

// Quote is the outcome of pricing a swap against a reserve pair. AmountOut is
// floored to the integer token unit; the pool never pays out more than the
// formula allows.
type Quote struct {
	AmountOut     decimal.Decimal
	Fee           decimal.Decimal
	PriceImpact   decimal.Decimal
	NewReserveIn  decimal.Decimal
	NewReserveOut decimal.Decimal
}

// QuoteSwap prices amountIn against the x*y=k curve. The fee is taken from
// the input before the formula is applied; the full amountIn (fee included)
// stays in the pool. Non-positive operands produce a zeroed quote with the
// reserves untouched rather than an error.
func QuoteSwap(amountIn, reserveIn, reserveOut decimal.Decimal, feeTierBps uint64) (Quote, error) {
	if amountIn.Sign() <= 0 || reserveIn.Sign() <= 0 || reserveOut.Sign() <= 0 {
		return Quote{
			AmountOut:     decimal.Zero,
			Fee:           decimal.Zero,
			PriceImpact:   decimal.Zero,
			NewReserveIn:  reserveIn,
			NewReserveOut: reserveOut,
		}, nil
	}

	feeTier := decimal.NewFromInt(int64(feeTierBps))
	fee, err := numeric.Div(amountIn.Mul(feeTier), bpsDenominatorDec)
	if err != nil {
		return Quote{}, err
	}
	amountInAfterFee, err := numeric.Div(amountIn.Mul(bpsDenominatorDec.Sub(feeTier)), bpsDenominatorDec)
	if err != nil {
		return Quote{}, err
	}

	// amountOut = amountInAfterFee * reserveOut / (reserveIn + amountInAfterFee)
	amountOut, err := numeric.Div(amountInAfterFee.Mul(reserveOut), reserveIn.Add(amountInAfterFee))
	if err != nil {
		return Quote{}, err
	}
	amountOut = numeric.Floor(amountOut)

	spotPrice, err := numeric.Div(reserveOut, reserveIn)
	if err != nil {
		return Quote{}, err
	}
	executionPrice, err := numeric.Div(amountOut, amountIn)
	if err != nil {
		return Quote{}, err
	}
	priceImpact, err := numeric.Div(spotPrice.Sub(executionPrice), spotPrice)
	if err != nil {
		return Quote{}, err
	}

	return Quote{
		AmountOut:     amountOut,
		Fee:           numeric.Floor(fee),
		PriceImpact:   priceImpact.Mul(decimal.NewFromInt(100)).Abs(),
		NewReserveIn:  reserveIn.Add(amountIn),
		NewReserveOut: reserveOut.Sub(amountOut),
	}, nil
}

// VerifyInvariant reports whether newA*newB >= oldA*oldB. Fees stay in the
// pool, so a committed swap must never shrink k; a false result is a logic
// fault, not a transient condition.
func VerifyInvariant(oldA, oldB, newA, newB decimal.Decimal) bool {
	return newA.Mul(newB).Cmp(oldA.Mul(oldB)) >= 0
}
