package config

import (
	"fmt"
	"math/big"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fanpay/fanpay-api/internal/constants"
	"github.com/fanpay/fanpay-api/internal/helpers"
	"github.com/fanpay/fanpay-api/internal/types/business"
)

// Config holds everything the service consumes from the environment. Domain
// constants (protocol name/version, executor address) are consumed here, not
// chosen: they must match what the executor contract was deployed with.
type Config struct {
	Stage string
	Port  string

	ProtocolName    string
	ProtocolVersion string
	ChainID         *big.Int
	ExecutorAddress common.Address
	LedgerRPCURL    string

	// ServiceSigningKey is the operator key attesting commercial terms.
	// It must never be used on the transfer-authorization path.
	ServiceSigningKey string

	// DeadlineWindow is the Δ applied when a transfer deadline is derived
	// rather than supplied.
	DeadlineWindow time.Duration
}

// Load reads and validates the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		Stage:           getEnv("STAGE", helpers.StageDev),
		Port:            getEnv("PORT", "8000"),
		ProtocolName:    getEnv("PROTOCOL_NAME", constants.DefaultProtocolName),
		ProtocolVersion: getEnv("PROTOCOL_VERSION", constants.DefaultProtocolVersion),
		LedgerRPCURL:    os.Getenv("LEDGER_RPC_URL"),
	}

	if !helpers.IsValidStage(cfg.Stage) && cfg.Stage != constants.TestEnvironment {
		return nil, fmt.Errorf("STAGE %q is not a valid stage", cfg.Stage)
	}

	chainID := os.Getenv("CHAIN_ID")
	if chainID == "" {
		return nil, fmt.Errorf("CHAIN_ID environment variable is required")
	}
	parsed, err := helpers.ParseUint256("CHAIN_ID", chainID)
	if err != nil {
		return nil, err
	}
	cfg.ChainID = parsed

	executor := os.Getenv("EXECUTOR_CONTRACT_ADDRESS")
	if executor == "" {
		return nil, fmt.Errorf("EXECUTOR_CONTRACT_ADDRESS environment variable is required")
	}
	if !helpers.IsAddressValid(executor) {
		return nil, fmt.Errorf("EXECUTOR_CONTRACT_ADDRESS is not a valid address")
	}
	cfg.ExecutorAddress = common.HexToAddress(executor)

	if cfg.LedgerRPCURL == "" {
		return nil, fmt.Errorf("LEDGER_RPC_URL environment variable is required")
	}

	cfg.ServiceSigningKey = os.Getenv("SERVICE_SIGNING_KEY")
	if cfg.ServiceSigningKey == "" {
		return nil, fmt.Errorf("SERVICE_SIGNING_KEY environment variable is required")
	}
	if !helpers.IsPrivateKeyValid(cfg.ServiceSigningKey) {
		return nil, fmt.Errorf("SERVICE_SIGNING_KEY is not a valid private key")
	}

	window := getEnv("DEADLINE_WINDOW", "1h")
	cfg.DeadlineWindow, err = time.ParseDuration(window)
	if err != nil {
		return nil, fmt.Errorf("DEADLINE_WINDOW is not a valid duration: %w", err)
	}
	if cfg.DeadlineWindow <= 0 {
		return nil, fmt.Errorf("DEADLINE_WINDOW must be positive")
	}

	return cfg, nil
}

// ChainContext returns the chain binding every authorization is built for.
func (c *Config) ChainContext() business.ChainContext {
	return business.ChainContext{
		ChainID:           c.ChainID,
		VerifyingContract: c.ExecutorAddress,
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
