package settlement

import (
	"context"
	"encoding/json"
	"errors"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/ammdex/amm-ledger/helpers"
	"github.com/ammdex/amm-ledger/models"
	"github.com/ammdex/amm-ledger/numeric"
	"github.com/ammdex/amm-ledger/swap"
)

// displayPlaces is the serialization precision of price_impact and
// execution_price in results.
const displayPlaces int32 = 6

// poolDelta is the broadcast payload of a committed mutation, oriented as
// reserve A/B regardless of trade direction.
type poolDelta struct {
	poolID      uint64
	reserveA    string
	reserveB    string
	feePerShare string
}

// ExecuteSwap settles a swap against the constant-product curve. The
// deadline is checked once at entry; an idempotency key short-circuits to
// the stored result; version conflicts retry within the protocol budget.
func (s *Service) ExecuteSwap(ctx context.Context, req *SwapRequest) (*SwapResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Deadline > 0 && req.Deadline < s.now().UnixMilli() {
		return nil, NewError(CodeDeadlineExceeded, "deadline %d already passed", req.Deadline)
	}
	if req.IdempotencyKey != "" {
		if cached := s.replay(ctx, req.IdempotencyKey, EndpointSwap); cached != nil {
			result := new(SwapResult)
			if err := json.Unmarshal(cached, result); err == nil {
				return result, nil
			}
		}
	}

	var (
		result *SwapResult
		delta  *poolDelta
	)
	err := s.run(ctx, EndpointSwap, func() (Outcome, error) {
		res, d, outcome, err := s.attemptSwap(ctx, req)
		if outcome == OutcomeOk {
			result, delta = res, d
		}
		return outcome, err
	})
	if errors.Is(err, errDuplicateIdempotencyKey) {
		// A concurrent request with the same key committed first; its
		// result is already stored.
		if cached := s.replay(ctx, req.IdempotencyKey, EndpointSwap); cached != nil {
			result := new(SwapResult)
			if err := json.Unmarshal(cached, result); err == nil {
				return result, nil
			}
		}
		return nil, NewError(CodeInternal, "idempotency key %q collided but no stored result found", req.IdempotencyKey)
	}
	if err != nil {
		return nil, err
	}

	s.publisher.PublishPoolUpdate(delta.poolID, delta.reserveA, delta.reserveB, delta.feePerShare)
	s.publisher.PublishSwap(delta.poolID, req.AmountIn, result.AmountOut, req.Trader)
	s.logger.WithFields(logrus.Fields{
		"pool_id":   req.PoolID,
		"tx_digest": result.TxDigest,
		"version":   result.PoolVersion,
	}).Info("swap settled")

	return result, nil
}

func (s *Service) attemptSwap(ctx context.Context, req *SwapRequest) (*SwapResult, *poolDelta, Outcome, error) {
	pool, err := s.storage.GetPool(ctx, req.PoolID)
	if err != nil {
		return nil, nil, OutcomeFatal, err
	}

	isTokenAIn := pool.TokenAId == req.TokenInID
	if !isTokenAIn && pool.TokenBId != req.TokenInID {
		return nil, nil, OutcomeFatal,
			NewError(CodeNotFound, "token %d is not part of pool %d", req.TokenInID, req.PoolID)
	}
	tokenOutID := pool.TokenBId
	if !isTokenAIn {
		tokenOutID = pool.TokenAId
	}
	tokenIn, err := s.storage.GetToken(ctx, req.TokenInID)
	if err != nil {
		return nil, nil, OutcomeFatal, err
	}

	state, err := parsePoolState(pool)
	if err != nil {
		return nil, nil, OutcomeFatal, err
	}
	reserveIn, reserveOut := state.reserveA, state.reserveB
	if !isTokenAIn {
		reserveIn, reserveOut = state.reserveB, state.reserveA
	}

	quote, err := swap.QuoteSwap(req.amountIn, reserveIn, reserveOut, pool.FeeTier)
	if err != nil {
		return nil, nil, OutcomeFatal, NewError(CodeInternal, "quote: %v", err)
	}
	if quote.AmountOut.Cmp(req.minAmountOut) < 0 {
		return nil, nil, OutcomeFatal,
			NewError(CodeSlippageExceeded, "amount_out %s is below min_amount_out %s", quote.AmountOut, req.MinAmountOut)
	}
	if quote.NewReserveOut.Sign() <= 0 {
		return nil, nil, OutcomeFatal,
			NewError(CodeInsufficientLiquidity, "swap would drain pool %d", req.PoolID)
	}

	split, err := swap.AccumulateFee(quote.Fee, state.totalShares, s.cfg.ProtocolFeeRate)
	if err != nil {
		return nil, nil, OutcomeFatal, NewError(CodeInternal, "fee accumulation: %v", err)
	}
	newFeePerShare := state.feePerShare.Add(split.FeePerShareIncrement)

	if !swap.VerifyInvariant(reserveIn, reserveOut, quote.NewReserveIn, quote.NewReserveOut) {
		return nil, nil, OutcomeFatal,
			NewError(CodeInvariantViolation, "k decreased for pool %d: (%s,%s) -> (%s,%s)",
				req.PoolID, reserveIn, reserveOut, quote.NewReserveIn, quote.NewReserveOut)
	}

	newReserveA, newReserveB := quote.NewReserveIn, quote.NewReserveOut
	if !isTokenAIn {
		newReserveA, newReserveB = quote.NewReserveOut, quote.NewReserveIn
	}

	// Protocol fees accrue on the input token's side; reserves keep the
	// full amount_in, so skimming never touches the k check above.
	newProtocolFeesA := zeroIfEmpty(pool.ProtocolFeesA)
	newProtocolFeesB := zeroIfEmpty(pool.ProtocolFeesB)
	if isTokenAIn {
		newProtocolFeesA, err = helpers.AddDecimalStrings(newProtocolFeesA, split.ProtocolFee.String())
	} else {
		newProtocolFeesB, err = helpers.AddDecimalStrings(newProtocolFeesB, split.ProtocolFee.String())
	}
	if err != nil {
		return nil, nil, OutcomeFatal, NewError(CodeInternal, "protocol fees: %v", err)
	}

	executionPrice, err := numeric.Div(quote.AmountOut, req.amountIn)
	if err != nil {
		return nil, nil, OutcomeFatal, NewError(CodeInternal, "execution price: %v", err)
	}
	price, err := numeric.Div(quote.NewReserveOut, quote.NewReserveIn)
	if err != nil {
		return nil, nil, OutcomeFatal, NewError(CodeInternal, "observation price: %v", err)
	}

	now := s.now()
	digest := newDigest("swap", now)
	newVersion := pool.Version + 1

	result := &SwapResult{
		Success:        true,
		SwapID:         digest,
		AmountOut:      quote.AmountOut.String(),
		PriceImpact:    quote.PriceImpact.Truncate(displayPlaces).StringFixed(displayPlaces),
		Fee:            quote.Fee.String(),
		ExecutionPrice: executionPrice.Truncate(displayPlaces).StringFixed(displayPlaces),
		NewReserveIn:   quote.NewReserveIn.String(),
		NewReserveOut:  quote.NewReserveOut.String(),
		PoolVersion:    newVersion,
		TxDigest:       digest,
	}

	commit := &SwapCommit{
		PoolID:           pool.Id,
		PrevVersion:      pool.Version,
		NewReserveA:      newReserveA.String(),
		NewReserveB:      newReserveB.String(),
		NewFeePerShare:   newFeePerShare.String(),
		NewProtocolFeesA: newProtocolFeesA,
		NewProtocolFeesB: newProtocolFeesB,
		NewVolume24h:     pool.Volume24h + displayVolume(req, tokenIn),
		UpdatedAt:        now,
		Swap: &models.Swap{
			PoolId:         pool.Id,
			UserAddress:    req.Trader,
			TokenInId:      req.TokenInID,
			TokenOutId:     tokenOutID,
			AmountIn:       req.AmountIn,
			AmountOut:      result.AmountOut,
			Fee:            result.Fee,
			PriceImpact:    result.PriceImpact,
			TxDigest:       digest,
			IdempotencyKey: req.IdempotencyKey,
			Deadline:       req.Deadline,
			MinAmountOut:   req.MinAmountOut,
			Signature:      req.Signature,
			CreatedAt:      now,
		},
		PriceFeed: &models.PriceFeed{
			PoolId:    pool.Id,
			Price:     price.String(),
			ReserveA:  newReserveA.String(),
			ReserveB:  newReserveB.String(),
			Timestamp: now.UnixMilli(),
		},
	}
	if req.IdempotencyKey != "" {
		payload, err := json.Marshal(result)
		if err != nil {
			return nil, nil, OutcomeFatal, NewError(CodeInternal, "marshal result: %v", err)
		}
		commit.Idempotency = &models.IdempotencyRecord{
			Key:       req.IdempotencyKey,
			Endpoint:  EndpointSwap,
			Response:  string(payload),
			CreatedAt: now.UnixMilli(),
		}
	}

	if err := s.storage.CommitSwap(ctx, commit); err != nil {
		if CodeOf(err) == CodeConflict {
			return nil, nil, OutcomeConflict, err
		}
		return nil, nil, OutcomeFatal, err
	}

	delta := &poolDelta{
		poolID:      pool.Id,
		reserveA:    commit.NewReserveA,
		reserveB:    commit.NewReserveB,
		feePerShare: commit.NewFeePerShare,
	}
	return result, delta, OutcomeOk, nil
}

// displayVolume is the approximate 24h-volume bump in whole-token units,
// counting both legs of the trade. Display-only; never feeds settlement math.
func displayVolume(req *SwapRequest, tokenIn *models.Token) float64 {
	amountIn, _ := req.amountIn.Float64()
	return amountIn / math.Pow10(int(tokenIn.Decimals)) * 2
}
