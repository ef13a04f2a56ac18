package swap

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestQuoteSwapBalancedPool(t *testing.T) {
	reserveIn := dec(t, "1000000")
	reserveOut := dec(t, "1000000")
	amountIn := dec(t, "10000")

	quote, err := QuoteSwap(amountIn, reserveIn, reserveOut, 30)
	require.NoError(t, err)

	// fee = 10000 * 30/10000 = 30, amountInAfterFee = 9970,
	// amountOut = floor(9970 * 1000000 / 1009970) = 9871.
	assert.Equal(t, "30", quote.Fee.String())
	assert.Equal(t, "9871", quote.AmountOut.String())
	assert.Equal(t, "1010000", quote.NewReserveIn.String())
	assert.Equal(t, "990129", quote.NewReserveOut.String())

	assert.True(t, VerifyInvariant(reserveIn, reserveOut, quote.NewReserveIn, quote.NewReserveOut))
	assert.True(t, quote.NewReserveIn.Mul(quote.NewReserveOut).Cmp(reserveIn.Mul(reserveOut)) > 0)
}

func TestQuoteSwapPriceImpact(t *testing.T) {
	quote, err := QuoteSwap(dec(t, "10000"), dec(t, "1000000"), dec(t, "1000000"), 30)
	require.NoError(t, err)

	// spot = 1, exec = 9871/10000 = 0.9871, impact = 1.29%.
	assert.Equal(t, "1.29", quote.PriceImpact.Truncate(6).String())
}

func TestQuoteSwapZeroFeeTier(t *testing.T) {
	quote, err := QuoteSwap(dec(t, "10000"), dec(t, "1000000"), dec(t, "1000000"), 0)
	require.NoError(t, err)

	assert.True(t, quote.Fee.IsZero())
	// amountOut = floor(10000 * 1000000 / 1010000) = 9900.
	assert.Equal(t, "9900", quote.AmountOut.String())
	assert.True(t, VerifyInvariant(dec(t, "1000000"), dec(t, "1000000"), quote.NewReserveIn, quote.NewReserveOut))
}

func TestQuoteSwapNonPositiveOperands(t *testing.T) {
	reserveIn := dec(t, "1000000")
	reserveOut := dec(t, "500000")

	for _, amountIn := range []string{"0", "-5"} {
		quote, err := QuoteSwap(dec(t, amountIn), reserveIn, reserveOut, 30)
		require.NoError(t, err)
		assert.True(t, quote.AmountOut.IsZero())
		assert.True(t, quote.Fee.IsZero())
		assert.True(t, quote.PriceImpact.IsZero())
		assert.Equal(t, "1000000", quote.NewReserveIn.String())
		assert.Equal(t, "500000", quote.NewReserveOut.String())
	}

	quote, err := QuoteSwap(dec(t, "100"), decimal.Zero, reserveOut, 30)
	require.NoError(t, err)
	assert.True(t, quote.AmountOut.IsZero())
}

func TestQuoteSwapInvariantHoldsAcrossSizes(t *testing.T) {
	reserveIn := dec(t, "1000000000")
	reserveOut := dec(t, "250000000")

	for _, amountIn := range []string{"1", "997", "10000", "123456789", "999999999"} {
		quote, err := QuoteSwap(dec(t, amountIn), reserveIn, reserveOut, 30)
		require.NoError(t, err)
		assert.True(t,
			VerifyInvariant(reserveIn, reserveOut, quote.NewReserveIn, quote.NewReserveOut),
			"k decreased for amountIn=%s", amountIn)
	}
}

func TestVerifyInvariant(t *testing.T) {
	assert.True(t, VerifyInvariant(dec(t, "100"), dec(t, "100"), dec(t, "100"), dec(t, "100")))
	assert.True(t, VerifyInvariant(dec(t, "100"), dec(t, "100"), dec(t, "200"), dec(t, "51")))
	assert.False(t, VerifyInvariant(dec(t, "100"), dec(t, "100"), dec(t, "100"), dec(t, "99")))
}
