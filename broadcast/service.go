package broadcast

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/centrifugal/gocent"
	"github.com/sirupsen/logrus"

	"github.com/ammdex/amm-ledger/env"
	"github.com/ammdex/amm-ledger/metrics"
)

// AllPoolsChannel carries every pool's events next to the per-pool channels.
const AllPoolsChannel = "pools:all"

type PoolUpdateEvent struct {
	Event       string `json:"event"`
	PoolID      uint64 `json:"pool_id"`
	ReserveA    string `json:"reserve_a"`
	ReserveB    string `json:"reserve_b"`
	FeePerShare string `json:"fee_per_share"`
	Timestamp   int64  `json:"timestamp"`
}

type SwapEvent struct {
	Event     string `json:"event"`
	PoolID    uint64 `json:"pool_id"`
	AmountIn  string `json:"amount_in"`
	AmountOut string `json:"amount_out"`
	Trader    string `json:"trader"`
	Timestamp int64  `json:"timestamp"`
}

// Service fans committed pool state out over Centrifugo. Every publish is
// fire-and-forget: failures are logged and counted, never returned, since
// the settlement they describe has already committed.
type Service struct {
	client  *gocent.Client
	ctx     context.Context
	metrics *metrics.Metrics
	logger  *logrus.Entry
}

func NewService(env *env.Environment, m *metrics.Metrics, logger *logrus.Entry) *Service {
	wsClient := gocent.New(gocent.Config{
		Addr: env.WsLink,
		Key:  env.WsKey,
	})

	return &Service{
		client:  wsClient,
		ctx:     context.Background(),
		metrics: m,
		logger:  logger,
	}
}

func (s *Service) PublishPoolUpdate(poolID uint64, reserveA, reserveB, feePerShare string) {
	msg, err := json.Marshal(PoolUpdateEvent{
		Event:       "pool:updated",
		PoolID:      poolID,
		ReserveA:    reserveA,
		ReserveB:    reserveB,
		FeePerShare: feePerShare,
		Timestamp:   time.Now().UnixMilli(),
	})
	if err != nil {
		s.logger.Error(err)
		return
	}
	s.publish(poolChannel(poolID), msg)
	s.publish(AllPoolsChannel, msg)
}

func (s *Service) PublishSwap(poolID uint64, amountIn, amountOut, trader string) {
	msg, err := json.Marshal(SwapEvent{
		Event:     "swap:executed",
		PoolID:    poolID,
		AmountIn:  amountIn,
		AmountOut: amountOut,
		Trader:    trader,
		Timestamp: time.Now().UnixMilli(),
	})
	if err != nil {
		s.logger.Error(err)
		return
	}
	s.publish(poolChannel(poolID), msg)
	s.publish(AllPoolsChannel, msg)
}

func poolChannel(poolID uint64) string {
	return fmt.Sprintf("pool:%d", poolID)
}

func (s *Service) publish(ch string, msg []byte) {
	err := s.client.Publish(s.ctx, ch, msg)
	if err != nil {
		s.metrics.BroadcastFailures.Inc()
		s.logger.Warn(err)
	}
}
