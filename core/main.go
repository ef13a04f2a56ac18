package core

import (
	"time"

	"github.com/go-pg/pg/v10"
	"github.com/sirupsen/logrus"

	"github.com/ammdex/amm-ledger/broadcast"
	"github.com/ammdex/amm-ledger/env"
	"github.com/ammdex/amm-ledger/helpers"
	"github.com/ammdex/amm-ledger/idempotency"
	"github.com/ammdex/amm-ledger/metrics"
	"github.com/ammdex/amm-ledger/numeric"
	"github.com/ammdex/amm-ledger/oracle"
	"github.com/ammdex/amm-ledger/settlement"
	"github.com/ammdex/amm-ledger/token"
)

// Ledger owns the wired service graph. The transport layer in front of it is
// external; it consumes the settlement and oracle services directly.
type Ledger struct {
	env                *env.Environment
	logger             *logrus.Entry
	settlementService  *settlement.Service
	oracleService      *oracle.Service
	idempotencyService *idempotency.Service
	tokenRepository    *token.Repository
}

func NewLedger(envData *env.Environment) *Ledger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetReportCaller(true)
	if envData.Debug {
		logger.SetFormatter(&logrus.TextFormatter{
			DisableColors: false,
			FullTimestamp: true,
		})
		logger.SetLevel(logrus.DebugLevel)
	}
	contextLogger := logger.WithFields(logrus.Fields{
		"app": envData.AppName,
	})

	db := pg.Connect(&pg.Options{
		Addr:         envData.DbHost + ":5432",
		User:         envData.DbUser,
		Password:     envData.DbPassword,
		Database:     envData.DbName,
		MinIdleConns: envData.DbMinIdleConns,
		PoolSize:     envData.DbPoolSize,
	})

	protocolFeeRate, err := numeric.ParseUnsigned(envData.ProtocolFeeRate)
	helpers.HandleError(err)

	m := metrics.New()
	tokenRepository := token.NewRepository(db)
	storage := settlement.NewRepository(db, tokenRepository)
	idempotencyService := idempotency.NewService(idempotency.NewRepository(db), contextLogger)
	publisher := broadcast.NewService(envData, m, contextLogger)
	settlementService := settlement.NewService(storage, idempotencyService, publisher, m, contextLogger, settlement.Config{
		ProtocolFeeRate: protocolFeeRate,
		MaxRetries:      envData.MaxRetries,
		BaseBackoff:     time.Duration(envData.RetryBaseDelayMs) * time.Millisecond,
	})
	oracleService := oracle.NewService(oracle.NewRepository(db), contextLogger)

	return &Ledger{
		env:                envData,
		logger:             contextLogger,
		settlementService:  settlementService,
		oracleService:      oracleService,
		idempotencyService: idempotencyService,
		tokenRepository:    tokenRepository,
	}
}

func (l *Ledger) Settlement() *settlement.Service {
	return l.settlementService
}

func (l *Ledger) Oracle() *oracle.Service {
	return l.oracleService
}

func (l *Ledger) Tokens() *token.Repository {
	return l.tokenRepository
}

// Run blocks on the idempotency sweep loop after logging startup.
func (l *Ledger) Run() {
	l.logger.Info("ledger started")
	l.idempotencyService.SweepWorker()
}
