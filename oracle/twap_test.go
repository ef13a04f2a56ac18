package oracle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammdex/amm-ledger/models"
)

func feed(price string, ts int64) models.PriceFeed {
	return models.PriceFeed{PoolId: 1, Price: price, Timestamp: ts}
}

func TestComputeStatsEmptyWindow(t *testing.T) {
	result, err := computeStats(1, nil, 0)
	require.NoError(t, err)

	assert.Nil(t, result.TWAP)
	assert.Equal(t, "no price data available", result.Message)
	assert.Zero(t, result.Observations)
}

func TestComputeStatsSingleObservation(t *testing.T) {
	feeds := []models.PriceFeed{feed("1.5", 5000)}
	result, err := computeStats(1, feeds, 1000)
	require.NoError(t, err)

	require.NotNil(t, result.TWAP)
	assert.Equal(t, "1.5", *result.TWAP)
	assert.Equal(t, "1.5", result.CurrentPrice)
	assert.Equal(t, "0", result.Volatility)
	assert.Equal(t, "0", result.PriceChangePercent)
	assert.Equal(t, 1, result.Observations)
	assert.Equal(t, int64(5000), result.OldestTimestamp)
	assert.Equal(t, int64(5000), result.NewestTimestamp)
}

func TestComputeStatsEvenWeights(t *testing.T) {
	// Newest first: price 30 held for 1000ms, price 10 held for 1000ms down
	// to the cutoff.
	feeds := []models.PriceFeed{
		feed("30", 3000),
		feed("10", 2000),
	}
	result, err := computeStats(1, feeds, 1000)
	require.NoError(t, err)

	require.NotNil(t, result.TWAP)
	assert.Equal(t, "20", *result.TWAP)
	assert.Equal(t, "30", result.CurrentPrice)
	assert.Equal(t, "200", result.PriceChangePercent)
	// Population stddev of {30, 10} is 10.
	assert.Equal(t, "10", result.Volatility)

	require.NotNil(t, result.PriceRange)
	assert.Equal(t, "10", result.PriceRange.Min)
	assert.Equal(t, "30", result.PriceRange.Max)
	assert.Equal(t, "20", result.PriceRange.Avg)
}

func TestComputeStatsWeightsFollowHoldingTime(t *testing.T) {
	// The newer price held three times as long, so the average leans
	// toward it: (30*3000 + 10*1000) / 4000 = 25.
	feeds := []models.PriceFeed{
		feed("30", 5000),
		feed("10", 2000),
	}
	result, err := computeStats(1, feeds, 1000)
	require.NoError(t, err)

	require.NotNil(t, result.TWAP)
	assert.Equal(t, "25", *result.TWAP)
}

func TestComputeStatsOldestExtendsToCutoff(t *testing.T) {
	// Without the boundary extension the single pair would make the TWAP
	// 30; covering the oldest sample down to the cutoff pulls it to
	// (30*1000 + 10*3000) / 4000 = 15.
	feeds := []models.PriceFeed{
		feed("30", 5000),
		feed("10", 4000),
	}
	result, err := computeStats(1, feeds, 1000)
	require.NoError(t, err)

	require.NotNil(t, result.TWAP)
	assert.Equal(t, "15", *result.TWAP)
}

func TestComputeStatsPriceChangeDown(t *testing.T) {
	feeds := []models.PriceFeed{
		feed("5", 3000),
		feed("10", 2000),
	}
	result, err := computeStats(1, feeds, 1000)
	require.NoError(t, err)

	assert.Equal(t, "-50", result.PriceChangePercent)
}
