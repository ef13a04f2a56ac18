package models

type IdempotencyRecord struct {
	tableName struct{} `pg:"idempotency_store"`

	Key       string `json:"key" pg:",pk"`
	Endpoint  string `json:"endpoint" pg:",pk"`
	Response  string `json:"response"`
	CreatedAt int64  `json:"created_at" pg:",use_zero"`
}
