package models

type PriceFeed struct {
	Id        uint64 `json:"id"`
	PoolId    uint64 `json:"pool_id" pg:",use_zero"`
	Price     string `json:"price"`
	ReserveA  string `json:"reserve_a"`
	ReserveB  string `json:"reserve_b"`
	Timestamp int64  `json:"timestamp" pg:",use_zero"`
}
