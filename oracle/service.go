package oracle

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/ammdex/amm-ledger/models"
	"github.com/ammdex/amm-ledger/numeric"
)

const (
	DefaultPeriodSeconds = 3600
	DefaultLimit         = 100

	// statsPlaces fixes the serialization precision of twap, volatility
	// and the price range; changePlaces that of the percent change.
	statsPlaces  int32 = 18
	changePlaces int32 = 4
)

// Feeds is the read contract over the price-observation trail.
type Feeds interface {
	FeedsSince(ctx context.Context, poolID uint64, cutoff int64, limit int) ([]models.PriceFeed, error)
}

type PriceRange struct {
	Min string `json:"min"`
	Max string `json:"max"`
	Avg string `json:"avg"`
}

// TWAPResult is the oracle's answer. TWAP is a pointer so a pool with no
// observations serializes as null with a message, not as an error.
type TWAPResult struct {
	PoolID             uint64      `json:"pool_id"`
	TWAP               *string     `json:"twap"`
	CurrentPrice       string      `json:"current_price,omitempty"`
	PriceChangePercent string      `json:"price_change_percent,omitempty"`
	Volatility         string      `json:"volatility,omitempty"`
	Observations       int         `json:"observations"`
	OldestTimestamp    int64       `json:"oldest_timestamp,omitempty"`
	NewestTimestamp    int64       `json:"newest_timestamp,omitempty"`
	PriceRange         *PriceRange `json:"price_range,omitempty"`
	Message            string      `json:"message,omitempty"`
}

type Service struct {
	feeds  Feeds
	logger *logrus.Entry
	now    func() time.Time
}

func NewService(feeds Feeds, logger *logrus.Entry) *Service {
	return &Service{
		feeds:  feeds,
		logger: logger,
		now:    time.Now,
	}
}

// ComputeTWAP answers a TWAP query over the pool's recent observation
// window. periodSeconds and limit fall back to the defaults when
// non-positive.
func (s *Service) ComputeTWAP(ctx context.Context, poolID uint64, periodSeconds, limit int) (*TWAPResult, error) {
	if periodSeconds <= 0 {
		periodSeconds = DefaultPeriodSeconds
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	cutoff := s.now().UnixMilli() - int64(periodSeconds)*1000
	feeds, err := s.feeds.FeedsSince(ctx, poolID, cutoff, limit)
	if err != nil {
		return nil, err
	}

	result, err := computeStats(poolID, feeds, cutoff)
	if err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{
		"pool_id":      poolID,
		"observations": result.Observations,
	}).Debug("twap computed")
	return result, nil
}

// computeStats derives the full statistics block from an observation window
// ordered newest first. The cutoff is the window's lower boundary in unix
// milliseconds.
func computeStats(poolID uint64, feeds []models.PriceFeed, cutoff int64) (*TWAPResult, error) {
	if len(feeds) == 0 {
		return &TWAPResult{
			PoolID:  poolID,
			Message: "no price data available",
		}, nil
	}

	prices := make([]decimal.Decimal, len(feeds))
	for i, feed := range feeds {
		p, err := numeric.ParseUnsigned(feed.Price)
		if err != nil {
			return nil, err
		}
		prices[i] = p
	}

	newest, oldest := feeds[0], feeds[len(feeds)-1]
	current := prices[0]

	// Each observation's price holds from its own timestamp back to the
	// next older sample; the oldest one extends to the window boundary, so
	// the full period is covered even when the trail starts mid-window.
	weightedSum := decimal.Zero
	totalWeight := decimal.Zero
	for i := range feeds {
		var span int64
		if i < len(feeds)-1 {
			span = feeds[i].Timestamp - feeds[i+1].Timestamp
		} else {
			span = feeds[i].Timestamp - cutoff
		}
		if span <= 0 {
			continue
		}
		weight := decimal.NewFromInt(span)
		weightedSum = weightedSum.Add(prices[i].Mul(weight))
		totalWeight = totalWeight.Add(weight)
	}

	twap := current
	if totalWeight.Sign() > 0 {
		twap, _ = numeric.Div(weightedSum, totalWeight)
	}

	change := decimal.Zero
	if len(prices) > 1 && prices[len(prices)-1].Sign() > 0 {
		oldestPrice := prices[len(prices)-1]
		ratio, err := numeric.Div(current.Sub(oldestPrice), oldestPrice)
		if err != nil {
			return nil, err
		}
		change = ratio.Mul(decimal.NewFromInt(100))
	}

	volatility, err := stddev(prices)
	if err != nil {
		return nil, err
	}

	min, max, sum := prices[0], prices[0], decimal.Zero
	for _, p := range prices {
		if p.Cmp(min) < 0 {
			min = p
		}
		if p.Cmp(max) > 0 {
			max = p
		}
		sum = sum.Add(p)
	}
	avg, err := numeric.Div(sum, decimal.NewFromInt(int64(len(prices))))
	if err != nil {
		return nil, err
	}

	twapStr := twap.Truncate(statsPlaces).String()
	return &TWAPResult{
		PoolID:             poolID,
		TWAP:               &twapStr,
		CurrentPrice:       current.Truncate(statsPlaces).String(),
		PriceChangePercent: change.Truncate(changePlaces).String(),
		Volatility:         volatility.Truncate(statsPlaces).String(),
		Observations:       len(feeds),
		OldestTimestamp:    oldest.Timestamp,
		NewestTimestamp:    newest.Timestamp,
		PriceRange: &PriceRange{
			Min: min.Truncate(statsPlaces).String(),
			Max: max.Truncate(statsPlaces).String(),
			Avg: avg.Truncate(statsPlaces).String(),
		},
	}, nil
}

// stddev is the population standard deviation of the raw prices.
func stddev(prices []decimal.Decimal) (decimal.Decimal, error) {
	if len(prices) < 2 {
		return decimal.Zero, nil
	}
	n := decimal.NewFromInt(int64(len(prices)))
	sum := decimal.Zero
	for _, p := range prices {
		sum = sum.Add(p)
	}
	mean, err := numeric.Div(sum, n)
	if err != nil {
		return decimal.Zero, err
	}
	sqSum := decimal.Zero
	for _, p := range prices {
		d := p.Sub(mean)
		sqSum = sqSum.Add(d.Mul(d))
	}
	variance, err := numeric.Div(sqSum, n)
	if err != nil {
		return decimal.Zero, err
	}
	return numeric.Sqrt(variance)
}
