package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/ammdex/amm-ledger/api"
	"github.com/ammdex/amm-ledger/core"
	"github.com/ammdex/amm-ledger/env"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println(".env file not found")
	}
	envData := env.New()
	ledgerApi := api.New(envData.ApiHost, envData.ApiPort)
	go ledgerApi.Run()
	ledger := core.NewLedger(envData)
	ledger.Run()
}
