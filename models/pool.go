package models

import "time"

type Pool struct {
	Id            uint64    `json:"id"`
	TokenAId      uint64    `json:"token_a_id" pg:",use_zero"`
	TokenBId      uint64    `json:"token_b_id" pg:",use_zero"`
	ReserveA      string    `json:"reserve_a"`
	ReserveB      string    `json:"reserve_b"`
	FeeTier       uint64    `json:"fee_tier" pg:",use_zero"`
	TotalShares   string    `json:"total_shares"`
	FeePerShare   string    `json:"fee_per_share"`
	ProtocolFeesA string    `json:"protocol_fees_a"`
	ProtocolFeesB string    `json:"protocol_fees_b"`
	Volume24h     float64   `json:"volume_24h" pg:",use_zero"`
	Version       uint64    `json:"version" pg:",use_zero"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	TokenA        *Token    `json:"token_a" pg:"rel:has-one,fk:token_a_id"`
	TokenB        *Token    `json:"token_b" pg:"rel:has-one,fk:token_b_id"`
}
