package models

type FeeClaim struct {
	Id         uint64    `json:"id"`
	PositionId uint64    `json:"position_id" pg:",use_zero"`
	FeesA      string    `json:"fees_a"`
	FeesB      string    `json:"fees_b"`
	ClaimedAt  int64     `json:"claimed_at" pg:",use_zero"`
	TxHash     string    `json:"tx_hash"`
	Position   *Position `json:"position" pg:"rel:has-one,fk:position_id"`
}
