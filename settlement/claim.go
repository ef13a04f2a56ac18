package settlement

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/ammdex/amm-ledger/models"
	"github.com/ammdex/amm-ledger/numeric"
	"github.com/ammdex/amm-ledger/swap"
)

var two = decimal.NewFromInt(2)

// ClaimFees settles every fee the position has accrued since its entry
// point. The position's entry_fee_per_share is reset to the pool's current
// accumulator, which is what makes a second claim come up empty.
func (s *Service) ClaimFees(ctx context.Context, req *ClaimRequest) (*ClaimResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.IdempotencyKey != "" {
		if cached := s.replay(ctx, req.IdempotencyKey, EndpointFeeClaim); cached != nil {
			result := new(ClaimResult)
			if err := json.Unmarshal(cached, result); err == nil {
				return result, nil
			}
		}
	}

	var result *ClaimResult
	err := s.run(ctx, EndpointFeeClaim, func() (Outcome, error) {
		res, outcome, err := s.attemptClaim(ctx, req)
		if outcome == OutcomeOk {
			result = res
		}
		return outcome, err
	})
	if errors.Is(err, errDuplicateIdempotencyKey) {
		if cached := s.replay(ctx, req.IdempotencyKey, EndpointFeeClaim); cached != nil {
			result := new(ClaimResult)
			if err := json.Unmarshal(cached, result); err == nil {
				return result, nil
			}
		}
		return nil, NewError(CodeInternal, "idempotency key %q collided but no stored result found", req.IdempotencyKey)
	}
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"position_id": req.PositionID,
		"tx_digest":   result.TxDigest,
	}).Info("fees claimed")

	return result, nil
}

func (s *Service) attemptClaim(ctx context.Context, req *ClaimRequest) (*ClaimResult, Outcome, error) {
	position, err := s.storage.GetPosition(ctx, req.PositionID)
	if err != nil {
		return nil, OutcomeFatal, err
	}
	if position.OwnerAddress != req.User {
		return nil, OutcomeFatal,
			NewError(CodeUnauthorized, "%s does not own position %d", req.User, req.PositionID)
	}

	pool, err := s.storage.GetPool(ctx, position.PoolId)
	if err != nil {
		return nil, OutcomeFatal, err
	}
	poolState, err := parsePoolState(pool)
	if err != nil {
		return nil, OutcomeFatal, err
	}
	posState, err := parsePositionState(position)
	if err != nil {
		return nil, OutcomeFatal, err
	}

	owed := swap.OwedFees(posState.shares, poolState.feePerShare, posState.entryFeePerShare)
	if owed.Sign() <= 0 {
		return nil, OutcomeFatal,
			NewError(CodeNoFeesToClaim, "position %d has no fees to claim", req.PositionID)
	}
	feesA, feesB := splitFees(owed)

	now := s.now()
	digest := newDigest("claim_fees", now)
	newVersion := position.Version + 1

	result := &ClaimResult{
		Success:             true,
		PositionID:          position.Id,
		FeesA:               feesA.String(),
		FeesB:               feesB.String(),
		TotalFeesUSD:        approxUSD(owed),
		NewEntryFeePerShare: zeroIfEmpty(pool.FeePerShare),
		PositionVersion:     newVersion,
		TxDigest:            digest,
		ClaimedAt:           now.UnixMilli(),
	}

	commit := &FeeClaimCommit{
		PositionID:          position.Id,
		PrevVersion:         position.Version,
		NewEntryFeePerShare: zeroIfEmpty(pool.FeePerShare),
		LastFeeClaim:        now,
		Claim: &models.FeeClaim{
			PositionId: position.Id,
			FeesA:      result.FeesA,
			FeesB:      result.FeesB,
			ClaimedAt:  now.UnixMilli(),
			TxHash:     digest,
		},
	}
	if req.IdempotencyKey != "" {
		payload, err := json.Marshal(result)
		if err != nil {
			return nil, OutcomeFatal, NewError(CodeInternal, "marshal result: %v", err)
		}
		commit.Idempotency = &models.IdempotencyRecord{
			Key:       req.IdempotencyKey,
			Endpoint:  EndpointFeeClaim,
			Response:  string(payload),
			CreatedAt: now.UnixMilli(),
		}
	}

	if err := s.storage.CommitFeeClaim(ctx, commit); err != nil {
		if CodeOf(err) == CodeConflict {
			return nil, OutcomeConflict, err
		}
		return nil, OutcomeFatal, err
	}
	return result, OutcomeOk, nil
}

// splitFees divides owed fees evenly across the pair without losing a unit:
// the odd remainder lands on the A side.
func splitFees(owed decimal.Decimal) (feesA, feesB decimal.Decimal) {
	half, _ := numeric.Div(owed, two)
	feesB = numeric.Floor(half)
	feesA = owed.Sub(feesB)
	return feesA, feesB
}

// approxUSD is the display-only dollar estimate the claim result carries,
// assuming 9-decimal token units. Documented approximate; never settled on.
func approxUSD(owed decimal.Decimal) float64 {
	f, _ := owed.Float64()
	return f / 1e9 * 2
}
