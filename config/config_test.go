package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault.toml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ServiceName != defaultServiceName {
		t.Fatalf("expected default service name, got %q", cfg.ServiceName)
	}
	if cfg.StorageBackend != defaultStorageBackend {
		t.Fatalf("expected default backend, got %q", cfg.StorageBackend)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected default config file to be written: %v", err)
	}
}

func TestLoadParsesFees(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault.toml")
	contents := `
ServiceName = "vault-dev"
StorageBackend = "bolt"
WrappedNativeDenom = "WNHB"

[Fees]
SwapFeeBps = 100
WithdrawalFeeBps = 10
FlashLoanFeeBps = 9
`
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Fees.SwapFeeBps != 100 || cfg.Fees.WithdrawalFeeBps != 10 || cfg.Fees.FlashLoanFeeBps != 9 {
		t.Fatalf("unexpected fees: %+v", cfg.Fees)
	}
	if cfg.WrappedNativeDenom != "WNHB" {
		t.Fatalf("unexpected wrapped denom %q", cfg.WrappedNativeDenom)
	}
}

func TestLoadRejectsBadBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault.toml")
	if err := os.WriteFile(path, []byte(`StorageBackend = "redis"`), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestLoadRejectsExcessiveFee(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault.toml")
	contents := `
[Fees]
SwapFeeBps = 20000
`
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for excessive fee")
	}
}

func TestLoadRejectsUnknownField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault.toml")
	if err := os.WriteFile(path, []byte(`LegacyField = true`), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for unknown field")
	}
}
