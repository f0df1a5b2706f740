package config

import (
	"strings"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/clinic")
	t.Setenv("TOKEN_SIGNING_SECRET", "test-secret")
	t.Setenv("LEDGER_ENDPOINT", "localhost:7051")
	t.Setenv("LEDGER_MSP_ID", "Org1MSP")
	t.Setenv("LEDGER_CERT_PATH", "/etc/ledger/cert.pem")
	t.Setenv("LEDGER_KEY_PATH", "/etc/ledger/key.pem")
	t.Setenv("LEDGER_CHANNEL", "clinic")
	t.Setenv("LEDGER_CHAINCODE", "history")
	t.Setenv("TOKEN_TTL", "")
	t.Setenv("LEDGER_COMMIT_TIMEOUT", "")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.TokenTTL != time.Hour {
		t.Errorf("expected default token TTL 1h, got %v", cfg.TokenTTL)
	}
	if cfg.Ledger.CommitTimeout != 30*time.Second {
		t.Errorf("expected default commit timeout 30s, got %v", cfg.Ledger.CommitTimeout)
	}
	if cfg.Ledger.Channel != "clinic" || cfg.Ledger.Chaincode != "history" {
		t.Errorf("unexpected ledger target %+v", cfg.Ledger)
	}
}

func TestLoadMissingSecretIsFatal(t *testing.T) {
	setRequired(t)
	t.Setenv("TOKEN_SIGNING_SECRET", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing signing secret, got nil")
	}
	if !strings.Contains(err.Error(), "TOKEN_SIGNING_SECRET") {
		t.Errorf("error should name the missing variable, got %v", err)
	}
}

func TestLoadMissingLedgerIdentityIsFatal(t *testing.T) {
	setRequired(t)
	t.Setenv("LEDGER_KEY_PATH", "")
	t.Setenv("LEDGER_CERT_PATH", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing ledger identity, got nil")
	}
	if !strings.Contains(err.Error(), "LEDGER_CERT_PATH") || !strings.Contains(err.Error(), "LEDGER_KEY_PATH") {
		t.Errorf("error should name the missing variables, got %v", err)
	}
}

func TestLoadTTLOverride(t *testing.T) {
	setRequired(t)
	t.Setenv("TOKEN_TTL", "8h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.TokenTTL != 8*time.Hour {
		t.Errorf("expected 8h TTL, got %v", cfg.TokenTTL)
	}

	t.Setenv("TOKEN_TTL", "soon")
	if _, err := Load(); err == nil {
		t.Error("expected error for unparseable TOKEN_TTL, got nil")
	}
}
