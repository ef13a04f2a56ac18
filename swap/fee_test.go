package swap

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccumulateFeeSplit(t *testing.T) {
	split, err := AccumulateFee(dec(t, "30"), dec(t, "1000"), dec(t, "0.1"))
	require.NoError(t, err)

	// 10% off the top: lpFee = floor(30*0.9) = 27, protocol keeps 3.
	assert.Equal(t, "27", split.LPFee.String())
	assert.Equal(t, "3", split.ProtocolFee.String())
	assert.Equal(t, "0.027", split.FeePerShareIncrement.String())
	assert.True(t, split.ProtocolFee.Add(split.LPFee).Equal(dec(t, "30")))
}

func TestAccumulateFeeRoundingFavorsProtocol(t *testing.T) {
	// lpFee = floor(7*0.9) = floor(6.3) = 6; the 0.3 remainder stays protocol-side.
	split, err := AccumulateFee(dec(t, "7"), dec(t, "100"), dec(t, "0.1"))
	require.NoError(t, err)

	assert.Equal(t, "6", split.LPFee.String())
	assert.Equal(t, "1", split.ProtocolFee.String())
	assert.True(t, split.ProtocolFee.Add(split.LPFee).Equal(dec(t, "7")))
}

func TestAccumulateFeeSplitIsExact(t *testing.T) {
	rate := dec(t, "0.1")
	shares := dec(t, "333")
	for _, fee := range []string{"1", "3", "29", "30", "997", "123456789"} {
		feeDec := dec(t, fee)
		split, err := AccumulateFee(feeDec, shares, rate)
		require.NoError(t, err)
		assert.True(t, split.ProtocolFee.Add(split.LPFee).Equal(feeDec), "leak for fee=%s", fee)
		assert.True(t, split.ProtocolFee.Sign() >= 0)
		assert.True(t, split.LPFee.Sign() >= 0)
	}
}

func TestAccumulateFeeZeroShares(t *testing.T) {
	split, err := AccumulateFee(dec(t, "30"), decimal.Zero, dec(t, "0.1"))
	require.NoError(t, err)

	assert.Equal(t, "30", split.ProtocolFee.String())
	assert.True(t, split.LPFee.IsZero())
	assert.True(t, split.FeePerShareIncrement.IsZero())
}

func TestOwedFees(t *testing.T) {
	owed := OwedFees(dec(t, "100"), dec(t, "0.05"), dec(t, "0.01"))
	assert.Equal(t, "4", owed.String())

	// Same entry and current accumulator: nothing owed.
	owed = OwedFees(dec(t, "100"), dec(t, "0.05"), dec(t, "0.05"))
	assert.True(t, owed.IsZero())

	// Sub-unit accrual floors to zero rather than paying out a fraction.
	owed = OwedFees(dec(t, "10"), dec(t, "0.05"), dec(t, "0.001"))
	assert.True(t, owed.IsZero())
}
