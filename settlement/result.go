package settlement

// SwapResult is the settlement outcome returned to the caller and, when the
// request carried an idempotency key, stored verbatim for replay.
type SwapResult struct {
	Success        bool   `json:"success"`
	SwapID         string `json:"swap_id"`
	AmountOut      string `json:"amount_out"`
	PriceImpact    string `json:"price_impact"`
	Fee            string `json:"fee"`
	ExecutionPrice string `json:"execution_price"`
	NewReserveIn   string `json:"new_reserve_in"`
	NewReserveOut  string `json:"new_reserve_out"`
	PoolVersion    uint64 `json:"pool_version"`
	TxDigest       string `json:"tx_digest"`
}

// ClaimResult reports a settled fee claim. TotalFeesUSD is a display-only
// approximation; the authoritative amounts are the decimal strings.
type ClaimResult struct {
	Success             bool    `json:"success"`
	PositionID          uint64  `json:"position_id"`
	FeesA               string  `json:"fees_a"`
	FeesB               string  `json:"fees_b"`
	TotalFeesUSD        float64 `json:"total_fees_usd"`
	NewEntryFeePerShare string  `json:"new_entry_fee_per_share"`
	PositionVersion     uint64  `json:"position_version"`
	TxDigest            string  `json:"tx_digest"`
	ClaimedAt           int64   `json:"claimed_at"`
}

// AddLiquidityResult reports a minted position.
type AddLiquidityResult struct {
	Success     bool   `json:"success"`
	PositionID  uint64 `json:"position_id"`
	Shares      string `json:"shares"`
	PoolVersion uint64 `json:"pool_version"`
	TxDigest    string `json:"tx_digest"`
}

// RemoveLiquidityResult reports a share burn. FeesA/FeesB are the accrued
// fees settled alongside the withdrawal; both are zero when nothing had
// accrued.
type RemoveLiquidityResult struct {
	Success         bool   `json:"success"`
	PositionID      uint64 `json:"position_id"`
	AmountA         string `json:"amount_a"`
	AmountB         string `json:"amount_b"`
	FeesA           string `json:"fees_a"`
	FeesB           string `json:"fees_b"`
	RemainingShares string `json:"remaining_shares"`
	PoolVersion     uint64 `json:"pool_version"`
	PositionVersion uint64 `json:"position_version"`
	TxDigest        string `json:"tx_digest"`
}
