package bootstrap

import (
	"fmt"
	"sync"

	"github.com/ragment/ragment-api/api/auth"
	"github.com/ragment/ragment-api/api/config"
	"github.com/ragment/ragment-api/api/database"
	billingapp "github.com/ragment/ragment-api/api/services/billing/app"
	billingdb "github.com/ragment/ragment-api/api/services/billing/db"
	stripegw "github.com/ragment/ragment-api/api/services/billing/gateway/stripe"
)

var (
	cfg            *config.Config
	verifier       *auth.Verifier
	billingService billingapp.Service
	billingStore   *billingdb.Store

	initOnce sync.Once
	initErr  error
)

// Init initializes config, database, and third-party clients, and wires services.
func Init() error {
	// If a service has already been injected (e.g., tests), do not override or init heavy deps.
	if billingService != nil {
		return nil
	}

	var err error
	cfg, err = config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := database.Initialize(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := database.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	stripegw.SetKey(cfg.StripeSecretKey)
	verifier = auth.NewVerifier(cfg.ClerkJWKSURL)

	billingStore = billingdb.NewStore(database.GetDB())
	billingService = billingapp.NewService(stripegw.New(), billingStore, cfg.Domain)
	return nil
}

// Ensure runs Init() once per process and returns any initialization error.
func Ensure() error {
	initOnce.Do(func() {
		initErr = Init()
	})
	return initErr
}

func GetConfig() *config.Config { return cfg }

func GetVerifier() *auth.Verifier { return verifier }

func GetBillingService() billingapp.Service { return billingService }

func GetBillingStore() *billingdb.Store { return billingStore }

// SetBillingService allows tests to inject a stub implementation.
func SetBillingService(s billingapp.Service) { billingService = s }
