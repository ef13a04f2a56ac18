package env

import (
	"flag"
	"os"
)

type Environment struct {
	AppName          string
	Debug            bool
	DbHost           string
	DbName           string
	DbUser           string
	DbPassword       string
	DbMinIdleConns   int
	DbPoolSize       int
	WsLink           string
	WsKey            string
	ApiHost          string
	ApiPort          int
	ProtocolFeeRate  string
	MaxRetries       int
	RetryBaseDelayMs int
}

func New() *Environment {
	appName := flag.String("app_name", "AMM Ledger", "App name")
	debug := flag.Bool("debug", false, "Debug mode")
	dbHost := flag.String("db_host", "localhost", "DB host")
	dbName := flag.String("db_name", "", "DB name")
	dbUser := flag.String("db_user", "", "DB user")
	dbPassword := flag.String("db_password", "", "DB password")
	dbMinIdleConns := flag.Int("db_min_idle_conns", 10, "DB min idle connections")
	dbPoolSize := flag.Int("db_pool_size", 20, "DB pool size")
	wsLink := flag.String("ws_link", "", "Centrifugo address")
	wsKey := flag.String("ws_key", "", "Centrifugo API key")
	apiHost := flag.String("api_host", "", "API host")
	apiPort := flag.Int("api_port", 8000, "API port")
	protocolFeeRate := flag.String("protocol_fee_rate", "0.1", "Protocol's share of swap fees")
	maxRetries := flag.Int("max_retries", 3, "Settlement retry budget")
	retryBaseDelay := flag.Int("retry_base_delay_ms", 50, "Settlement retry base delay, ms")
	configFile := flag.String("config", "", "Env file")
	flag.Parse()

	envData := &Environment{
		AppName:          *appName,
		Debug:            *debug,
		DbHost:           *dbHost,
		DbName:           *dbName,
		DbUser:           *dbUser,
		DbPassword:       *dbPassword,
		DbMinIdleConns:   *dbMinIdleConns,
		DbPoolSize:       *dbPoolSize,
		WsLink:           *wsLink,
		WsKey:            *wsKey,
		ApiHost:          *apiHost,
		ApiPort:          *apiPort,
		ProtocolFeeRate:  *protocolFeeRate,
		MaxRetries:       *maxRetries,
		RetryBaseDelayMs: *retryBaseDelay,
	}

	if envData.DbUser == "" {
		envData.DbUser = os.Getenv("LEDGER_DB_USER")
	}
	if envData.DbName == "" {
		envData.DbName = os.Getenv("LEDGER_DB_NAME")
	}
	if envData.DbPassword == "" {
		envData.DbPassword = os.Getenv("LEDGER_DB_PASSWORD")
	}
	if envData.WsLink == "" {
		envData.WsLink = os.Getenv("LEDGER_WS_LINK")
	}
	if envData.WsKey == "" {
		envData.WsKey = os.Getenv("LEDGER_WS_KEY")
	}

	if *configFile != "" {
		config := NewViperConfig(*configFile)
		envData.AppName = config.GetString("name")
		envData.Debug = config.GetBool("app.debug")
		envData.DbHost = config.GetString("database.host")
		envData.DbName = config.GetString("database.name")
		envData.DbUser = config.GetString("database.user")
		envData.DbPassword = config.GetString("database.password")
		envData.DbMinIdleConns = config.GetInt("database.minIdleConns")
		envData.DbPoolSize = config.GetInt("database.poolSize")
		envData.WsLink = config.GetString("centrifugo.link")
		envData.WsKey = config.GetString("centrifugo.key")
		envData.ApiHost = config.GetString("ledgerApi.host")
		envData.ApiPort = config.GetInt("ledgerApi.port")
		envData.ProtocolFeeRate = config.GetString("settlement.protocolFeeRate")
		envData.MaxRetries = config.GetInt("settlement.maxRetries")
		envData.RetryBaseDelayMs = config.GetInt("settlement.retryBaseDelayMs")
	}

	return envData
}
