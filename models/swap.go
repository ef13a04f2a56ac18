package models

import "time"

type Swap struct {
	Id             uint64    `json:"id"`
	PoolId         uint64    `json:"pool_id" pg:",use_zero"`
	UserAddress    string    `json:"user_address"`
	TokenInId      uint64    `json:"token_in_id" pg:",use_zero"`
	TokenOutId     uint64    `json:"token_out_id" pg:",use_zero"`
	AmountIn       string    `json:"amount_in"`
	AmountOut      string    `json:"amount_out"`
	Fee            string    `json:"fee"`
	PriceImpact    string    `json:"price_impact"`
	TxDigest       string    `json:"tx_digest"`
	IdempotencyKey string    `json:"idempotency_key" pg:",nullzero"`
	Deadline       int64     `json:"deadline" pg:",nullzero"`
	MinAmountOut   string    `json:"min_amount_out"`
	Signature      string    `json:"signature" pg:",nullzero"`
	CreatedAt      time.Time `json:"created_at"`
	Pool           *Pool     `json:"pool" pg:"rel:has-one,fk:pool_id"`
	TokenIn        *Token    `json:"token_in" pg:"rel:has-one,fk:token_in_id"`
	TokenOut       *Token    `json:"token_out" pg:"rel:has-one,fk:token_out_id"`
}
