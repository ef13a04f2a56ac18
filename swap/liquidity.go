package swap

import (
	"github.com/shopspring/decimal"

	"github.com/ammdex/amm-ledger/numeric"
)

// SharesForLiquidity returns the LP shares to mint for a deposit. The first
// deposit bootstraps the pool with floor(sqrt(amountA*amountB)); later
// deposits mint proportionally to the smaller side of the pair so an
// unbalanced deposit cannot mint excess shares.
func SharesForLiquidity(amountA, amountB, reserveA, reserveB, totalShares decimal.Decimal) (decimal.Decimal, error) {
	if totalShares.IsZero() {
		return numeric.IntSqrt(amountA.Mul(amountB))
	}

	fromA, err := numeric.Div(amountA.Mul(totalShares), reserveA)
	if err != nil {
		return decimal.Zero, err
	}
	fromB, err := numeric.Div(amountB.Mul(totalShares), reserveB)
	if err != nil {
		return decimal.Zero, err
	}
	return numeric.Floor(decimal.Min(fromA, fromB)), nil
}

// LiquidityAmounts returns the reserve amounts paid out for burning
// sharesToBurn, proportional to the position's share of the pool.
func LiquidityAmounts(sharesToBurn, totalShares, reserveA, reserveB decimal.Decimal) (amountA, amountB decimal.Decimal, err error) {
	if totalShares.IsZero() {
		return decimal.Zero, decimal.Zero, nil
	}

	amountA, err = numeric.Div(reserveA.Mul(sharesToBurn), totalShares)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	amountB, err = numeric.Div(reserveB.Mul(sharesToBurn), totalShares)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return numeric.Floor(amountA), numeric.Floor(amountB), nil
}
