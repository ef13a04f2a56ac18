package settlement

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/ammdex/amm-ledger/models"
	"github.com/ammdex/amm-ledger/swap"
)

// AddLiquidity deposits both tokens of the pair, mints shares through the
// optimistic protocol and creates the provider's position at the pool's
// current fee accumulator.
func (s *Service) AddLiquidity(ctx context.Context, req *AddLiquidityRequest) (*AddLiquidityResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var (
		result *AddLiquidityResult
		delta  *poolDelta
	)
	err := s.run(ctx, "add_liquidity", func() (Outcome, error) {
		res, d, outcome, err := s.attemptAddLiquidity(ctx, req)
		if outcome == OutcomeOk {
			result, delta = res, d
		}
		return outcome, err
	})
	if err != nil {
		return nil, err
	}

	s.publisher.PublishPoolUpdate(delta.poolID, delta.reserveA, delta.reserveB, delta.feePerShare)
	s.logger.WithFields(logrus.Fields{
		"pool_id":     req.PoolID,
		"position_id": result.PositionID,
	}).Info("liquidity added")

	return result, nil
}

func (s *Service) attemptAddLiquidity(ctx context.Context, req *AddLiquidityRequest) (*AddLiquidityResult, *poolDelta, Outcome, error) {
	pool, err := s.storage.GetPool(ctx, req.PoolID)
	if err != nil {
		return nil, nil, OutcomeFatal, err
	}
	state, err := parsePoolState(pool)
	if err != nil {
		return nil, nil, OutcomeFatal, err
	}

	shares, err := swap.SharesForLiquidity(req.amountA, req.amountB, state.reserveA, state.reserveB, state.totalShares)
	if err != nil {
		return nil, nil, OutcomeFatal, NewError(CodeInternal, "share calculation: %v", err)
	}
	if shares.Sign() <= 0 {
		return nil, nil, OutcomeFatal,
			NewError(CodeValidation, "deposit too small to mint shares in pool %d", req.PoolID)
	}

	now := s.now()
	digest := newDigest("add_liquidity", now)
	newVersion := pool.Version + 1

	position := &models.Position{
		PoolId:           pool.Id,
		OwnerAddress:     req.Provider,
		Liquidity:        req.amountA.Add(req.amountB).String(),
		Shares:           shares.String(),
		EntryFeePerShare: zeroIfEmpty(pool.FeePerShare),
		Version:          1,
		CreatedAt:        now,
		LastFeeClaim:     now,
	}
	commit := &AddLiquidityCommit{
		PoolID:         pool.Id,
		PrevVersion:    pool.Version,
		NewReserveA:    state.reserveA.Add(req.amountA).String(),
		NewReserveB:    state.reserveB.Add(req.amountB).String(),
		NewTotalShares: state.totalShares.Add(shares).String(),
		UpdatedAt:      now,
		Position:       position,
	}

	if err := s.storage.CommitAddLiquidity(ctx, commit); err != nil {
		if CodeOf(err) == CodeConflict {
			return nil, nil, OutcomeConflict, err
		}
		return nil, nil, OutcomeFatal, err
	}

	result := &AddLiquidityResult{
		Success:     true,
		PositionID:  position.Id,
		Shares:      position.Shares,
		PoolVersion: newVersion,
		TxDigest:    digest,
	}
	delta := &poolDelta{
		poolID:      pool.Id,
		reserveA:    commit.NewReserveA,
		reserveB:    commit.NewReserveB,
		feePerShare: zeroIfEmpty(pool.FeePerShare),
	}
	return result, delta, OutcomeOk, nil
}

// RemoveLiquidity burns shares and pays out the proportional reserves. This
// is the one mutation allowed to shrink k. Fees accrued on the whole
// position are settled in the same transaction, so burnt shares never
// forfeit what they earned.
func (s *Service) RemoveLiquidity(ctx context.Context, req *RemoveLiquidityRequest) (*RemoveLiquidityResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var (
		result *RemoveLiquidityResult
		delta  *poolDelta
	)
	err := s.run(ctx, "remove_liquidity", func() (Outcome, error) {
		res, d, outcome, err := s.attemptRemoveLiquidity(ctx, req)
		if outcome == OutcomeOk {
			result, delta = res, d
		}
		return outcome, err
	})
	if err != nil {
		return nil, err
	}

	s.publisher.PublishPoolUpdate(delta.poolID, delta.reserveA, delta.reserveB, delta.feePerShare)
	s.logger.WithFields(logrus.Fields{
		"position_id": req.PositionID,
		"tx_digest":   result.TxDigest,
	}).Info("liquidity removed")

	return result, nil
}

func (s *Service) attemptRemoveLiquidity(ctx context.Context, req *RemoveLiquidityRequest) (*RemoveLiquidityResult, *poolDelta, Outcome, error) {
	position, err := s.storage.GetPosition(ctx, req.PositionID)
	if err != nil {
		return nil, nil, OutcomeFatal, err
	}
	if position.OwnerAddress != req.Owner {
		return nil, nil, OutcomeFatal,
			NewError(CodeUnauthorized, "%s does not own position %d", req.Owner, req.PositionID)
	}

	pool, err := s.storage.GetPool(ctx, position.PoolId)
	if err != nil {
		return nil, nil, OutcomeFatal, err
	}
	state, err := parsePoolState(pool)
	if err != nil {
		return nil, nil, OutcomeFatal, err
	}
	posState, err := parsePositionState(position)
	if err != nil {
		return nil, nil, OutcomeFatal, err
	}

	if req.shares.Cmp(posState.shares) > 0 {
		return nil, nil, OutcomeFatal,
			NewError(CodeInsufficientLiquidity, "position %d holds %s shares, cannot burn %s",
				req.PositionID, position.Shares, req.Shares)
	}

	amountA, amountB, err := swap.LiquidityAmounts(req.shares, state.totalShares, state.reserveA, state.reserveB)
	if err != nil {
		return nil, nil, OutcomeFatal, NewError(CodeInternal, "withdrawal amounts: %v", err)
	}
	newReserveA := state.reserveA.Sub(amountA)
	newReserveB := state.reserveB.Sub(amountB)
	if newReserveA.Sign() < 0 || newReserveB.Sign() < 0 {
		return nil, nil, OutcomeFatal,
			NewError(CodeInsufficientLiquidity, "withdrawal would overdraw pool %d", pool.Id)
	}

	owed := swap.OwedFees(posState.shares, state.feePerShare, posState.entryFeePerShare)
	if owed.Sign() < 0 {
		// Entry point ahead of the accumulator means corrupt data; pay out
		// nothing rather than negative fees.
		owed = decimal.Zero
	}
	feesA, feesB := splitFees(owed)

	now := s.now()
	digest := newDigest("remove_liquidity", now)

	commit := &RemoveLiquidityCommit{
		PoolID:              pool.Id,
		PoolPrevVersion:     pool.Version,
		NewReserveA:         newReserveA.String(),
		NewReserveB:         newReserveB.String(),
		NewTotalShares:      state.totalShares.Sub(req.shares).String(),
		UpdatedAt:           now,
		PositionID:          position.Id,
		PositionPrevVersion: position.Version,
		NewShares:           posState.shares.Sub(req.shares).String(),
		NewEntryFeePerShare: zeroIfEmpty(pool.FeePerShare),
		LastFeeClaim:        now,
	}
	if owed.Sign() > 0 {
		commit.Claim = &models.FeeClaim{
			PositionId: position.Id,
			FeesA:      feesA.String(),
			FeesB:      feesB.String(),
			ClaimedAt:  now.UnixMilli(),
			TxHash:     digest,
		}
	}

	if err := s.storage.CommitRemoveLiquidity(ctx, commit); err != nil {
		if CodeOf(err) == CodeConflict {
			return nil, nil, OutcomeConflict, err
		}
		return nil, nil, OutcomeFatal, err
	}

	result := &RemoveLiquidityResult{
		Success:         true,
		PositionID:      position.Id,
		AmountA:         amountA.String(),
		AmountB:         amountB.String(),
		FeesA:           feesA.String(),
		FeesB:           feesB.String(),
		RemainingShares: commit.NewShares,
		PoolVersion:     pool.Version + 1,
		PositionVersion: position.Version + 1,
		TxDigest:        digest,
	}
	delta := &poolDelta{
		poolID:      pool.Id,
		reserveA:    commit.NewReserveA,
		reserveB:    commit.NewReserveB,
		feePerShare: commit.NewEntryFeePerShare,
	}
	return result, delta, OutcomeOk, nil
}
