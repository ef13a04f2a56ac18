package settlement

import (
	"github.com/shopspring/decimal"

	"github.com/ammdex/amm-ledger/numeric"
)

// Endpoint identifiers recorded with idempotency records.
const (
	EndpointSwap     = "swap"
	EndpointFeeClaim = "fee_claim"
)

// SwapRequest is the typed boundary for a swap settlement. Amounts are
// canonical decimal strings in the token's smallest unit; Deadline is epoch
// milliseconds, zero meaning no deadline.
type SwapRequest struct {
	PoolID         uint64 `json:"pool_id"`
	Trader         string `json:"trader"`
	TokenInID      uint64 `json:"token_in_id"`
	AmountIn       string `json:"amount_in"`
	MinAmountOut   string `json:"min_amount_out"`
	Deadline       int64  `json:"deadline"`
	IdempotencyKey string `json:"idempotency_key,omitempty"`
	Signature      string `json:"signature,omitempty"`

	amountIn     decimal.Decimal
	minAmountOut decimal.Decimal
}

// Validate checks the request once at the boundary and caches the parsed
// amounts. Validation failures are never retried.
func (r *SwapRequest) Validate() *Error {
	if r.PoolID == 0 {
		return NewError(CodeValidation, "pool_id is required")
	}
	if r.Trader == "" {
		return NewError(CodeValidation, "trader is required")
	}
	if r.TokenInID == 0 {
		return NewError(CodeValidation, "token_in_id is required")
	}

	amountIn, err := numeric.ParseUnsigned(r.AmountIn)
	if err != nil || amountIn.Sign() <= 0 {
		return NewError(CodeValidation, "amount_in must be a positive decimal, got %q", r.AmountIn)
	}
	minAmountOut, err := numeric.ParseUnsigned(r.MinAmountOut)
	if err != nil {
		return NewError(CodeValidation, "min_amount_out must be a non-negative decimal, got %q", r.MinAmountOut)
	}

	r.amountIn = amountIn
	r.minAmountOut = minAmountOut
	return nil
}

// ClaimRequest is the typed boundary for a fee-claim settlement.
type ClaimRequest struct {
	PositionID     uint64 `json:"position_id"`
	User           string `json:"user"`
	IdempotencyKey string `json:"idempotency_key,omitempty"`
	Signature      string `json:"signature,omitempty"`
}

func (r *ClaimRequest) Validate() *Error {
	if r.PositionID == 0 {
		return NewError(CodeValidation, "position_id is required")
	}
	if r.User == "" {
		return NewError(CodeValidation, "user is required")
	}
	return nil
}

// AddLiquidityRequest deposits both tokens of a pair and mints a position.
type AddLiquidityRequest struct {
	PoolID   uint64 `json:"pool_id"`
	Provider string `json:"provider"`
	AmountA  string `json:"amount_a"`
	AmountB  string `json:"amount_b"`

	amountA decimal.Decimal
	amountB decimal.Decimal
}

func (r *AddLiquidityRequest) Validate() *Error {
	if r.PoolID == 0 {
		return NewError(CodeValidation, "pool_id is required")
	}
	if r.Provider == "" {
		return NewError(CodeValidation, "provider is required")
	}
	amountA, err := numeric.ParseUnsigned(r.AmountA)
	if err != nil || amountA.Sign() <= 0 {
		return NewError(CodeValidation, "amount_a must be a positive decimal, got %q", r.AmountA)
	}
	amountB, err := numeric.ParseUnsigned(r.AmountB)
	if err != nil || amountB.Sign() <= 0 {
		return NewError(CodeValidation, "amount_b must be a positive decimal, got %q", r.AmountB)
	}
	r.amountA = amountA
	r.amountB = amountB
	return nil
}

// RemoveLiquidityRequest burns shares of a position. Accrued fees on the
// whole position are settled in the same transaction before the burn.
type RemoveLiquidityRequest struct {
	PositionID uint64 `json:"position_id"`
	Owner      string `json:"owner"`
	Shares     string `json:"shares"`

	shares decimal.Decimal
}

func (r *RemoveLiquidityRequest) Validate() *Error {
	if r.PositionID == 0 {
		return NewError(CodeValidation, "position_id is required")
	}
	if r.Owner == "" {
		return NewError(CodeValidation, "owner is required")
	}
	shares, err := numeric.ParseUnsigned(r.Shares)
	if err != nil || shares.Sign() <= 0 {
		return NewError(CodeValidation, "shares must be a positive decimal, got %q", r.Shares)
	}
	r.shares = shares
	return nil
}
