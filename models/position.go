package models

import "time"

type Position struct {
	Id               uint64    `json:"id"`
	PoolId           uint64    `json:"pool_id" pg:",use_zero"`
	OwnerAddress     string    `json:"owner_address"`
	Liquidity        string    `json:"liquidity"`
	Shares           string    `json:"shares"`
	EntryFeePerShare string    `json:"entry_fee_per_share"`
	Version          uint64    `json:"version" pg:",use_zero"`
	CreatedAt        time.Time `json:"created_at"`
	LastFeeClaim     time.Time `json:"last_fee_claim"`
	Pool             *Pool     `json:"pool" pg:"rel:has-one,fk:pool_id"`
}
