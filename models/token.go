package models

import "time"

type Token struct {
	Id        uint64    `json:"id"`
	Symbol    string    `json:"symbol"`
	Name      string    `json:"name"`
	Decimals  uint64    `json:"decimals" pg:",use_zero"`
	Address   string    `json:"address"`
	LogoUrl   string    `json:"logo_url"`
	CreatedAt time.Time `json:"created_at"`
}
