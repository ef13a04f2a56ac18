package swap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSharesForLiquidityBootstrap(t *testing.T) {
	shares, err := SharesForLiquidity(dec(t, "1000000"), dec(t, "1000000"), dec(t, "0"), dec(t, "0"), dec(t, "0"))
	require.NoError(t, err)
	assert.Equal(t, "1000000", shares.String())

	// Unbalanced bootstrap: floor(sqrt(4000000*1000000)) = 2000000.
	shares, err = SharesForLiquidity(dec(t, "4000000"), dec(t, "1000000"), dec(t, "0"), dec(t, "0"), dec(t, "0"))
	require.NoError(t, err)
	assert.Equal(t, "2000000", shares.String())
}

func TestSharesForLiquidityProportional(t *testing.T) {
	// Matching a 2:1 pool exactly mints pro rata.
	shares, err := SharesForLiquidity(dec(t, "200"), dec(t, "100"), dec(t, "2000"), dec(t, "1000"), dec(t, "1000"))
	require.NoError(t, err)
	assert.Equal(t, "100", shares.String())

	// Excess on one side mints only for the smaller ratio.
	shares, err = SharesForLiquidity(dec(t, "500"), dec(t, "100"), dec(t, "2000"), dec(t, "1000"), dec(t, "1000"))
	require.NoError(t, err)
	assert.Equal(t, "100", shares.String())
}

func TestLiquidityAmounts(t *testing.T) {
	amountA, amountB, err := LiquidityAmounts(dec(t, "100"), dec(t, "1000"), dec(t, "2000"), dec(t, "1000"))
	require.NoError(t, err)
	assert.Equal(t, "200", amountA.String())
	assert.Equal(t, "100", amountB.String())

	// Withdrawal amounts are floored, never rounded up.
	amountA, amountB, err = LiquidityAmounts(dec(t, "1"), dec(t, "3"), dec(t, "100"), dec(t, "100"))
	require.NoError(t, err)
	assert.Equal(t, "33", amountA.String())
	assert.Equal(t, "33", amountB.String())
}

func TestLiquidityAmountsZeroTotalShares(t *testing.T) {
	amountA, amountB, err := LiquidityAmounts(dec(t, "10"), dec(t, "0"), dec(t, "100"), dec(t, "100"))
	require.NoError(t, err)
	assert.True(t, amountA.IsZero())
	assert.True(t, amountB.IsZero())
}
