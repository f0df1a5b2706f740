package config

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is built once at process start and handed to constructors.
// Business logic never reads the environment directly.
type Config struct {
	DatabaseURL        string
	TokenSigningSecret string
	TokenTTL           time.Duration
	Ledger             LedgerConfig
}

// LedgerConfig identifies the ledger node, the deployed history program and
// the signing identity the service submits transactions with.
type LedgerConfig struct {
	Endpoint      string
	GatewayPeer   string
	TLSCertPath   string
	MSPID         string
	CertPath      string
	KeyPath       string
	Channel       string
	Chaincode     string
	CommitTimeout time.Duration
}

const (
	defaultTokenTTL      = time.Hour
	defaultCommitTimeout = 30 * time.Second
)

// Load reads the process configuration from the environment. A .env file is
// honored for local runs. Missing required values make the process unable to
// serve any request, so callers are expected to exit on error.
func Load() (*Config, error) {
	godotenv.Load(".env")

	cfg := &Config{
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		TokenSigningSecret: os.Getenv("TOKEN_SIGNING_SECRET"),
		TokenTTL:           defaultTokenTTL,
		Ledger: LedgerConfig{
			Endpoint:      os.Getenv("LEDGER_ENDPOINT"),
			GatewayPeer:   os.Getenv("LEDGER_GATEWAY_PEER"),
			TLSCertPath:   os.Getenv("LEDGER_TLS_CERT_PATH"),
			MSPID:         os.Getenv("LEDGER_MSP_ID"),
			CertPath:      os.Getenv("LEDGER_CERT_PATH"),
			KeyPath:       os.Getenv("LEDGER_KEY_PATH"),
			Channel:       os.Getenv("LEDGER_CHANNEL"),
			Chaincode:     os.Getenv("LEDGER_CHAINCODE"),
			CommitTimeout: defaultCommitTimeout,
		},
	}

	if ttl := os.Getenv("TOKEN_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return nil, fmt.Errorf("invalid TOKEN_TTL %q: %v", ttl, err)
		}
		cfg.TokenTTL = d
	}

	if timeout := os.Getenv("LEDGER_COMMIT_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid LEDGER_COMMIT_TIMEOUT %q: %v", timeout, err)
		}
		cfg.Ledger.CommitTimeout = d
	}

	var missing []string
	for name, value := range map[string]string{
		"DATABASE_URL":         cfg.DatabaseURL,
		"TOKEN_SIGNING_SECRET": cfg.TokenSigningSecret,
		"LEDGER_ENDPOINT":      cfg.Ledger.Endpoint,
		"LEDGER_MSP_ID":        cfg.Ledger.MSPID,
		"LEDGER_CERT_PATH":     cfg.Ledger.CertPath,
		"LEDGER_KEY_PATH":      cfg.Ledger.KeyPath,
		"LEDGER_CHANNEL":       cfg.Ledger.Channel,
		"LEDGER_CHAINCODE":     cfg.Ledger.Chaincode,
	} {
		if value == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}
