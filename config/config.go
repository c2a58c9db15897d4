package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config captures the service-level settings for a vault instance.
type Config struct {
	ServiceName        string `toml:"ServiceName"`
	Env                string `toml:"Env"`
	DataDir            string `toml:"DataDir"`
	StorageBackend     string `toml:"StorageBackend"`
	WrappedNativeDenom string `toml:"WrappedNativeDenom"`

	Fees FeeConfig `toml:"Fees"`
}

// FeeConfig holds the initial protocol fee rates and the parties allowed to
// administer and collect them. Rates are basis points.
type FeeConfig struct {
	SwapFeeBps       uint64 `toml:"SwapFeeBps"`
	WithdrawalFeeBps uint64 `toml:"WithdrawalFeeBps"`
	FlashLoanFeeBps  uint64 `toml:"FlashLoanFeeBps"`
	Admin            string `toml:"Admin"`
	Collector        string `toml:"Collector"`
}

const (
	defaultServiceName    = "poolvault"
	defaultStorageBackend = "leveldb"
	defaultWrappedDenom   = "WNATIVE"
)

// Load loads the configuration from the given path, creating a default file
// when none exists yet.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("config file %s contains unknown field %s", path, undecoded[0])
	}

	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the loaded configuration for obvious misconfiguration
// before any state is opened.
func (c *Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.StorageBackend)) {
	case "memory", "leveldb", "bolt":
	default:
		return fmt.Errorf("config: unknown storage backend %q", c.StorageBackend)
	}
	if strings.TrimSpace(c.WrappedNativeDenom) == "" {
		return fmt.Errorf("config: wrapped native denom must not be empty")
	}
	for kind, bps := range map[string]uint64{
		"swap":       c.Fees.SwapFeeBps,
		"withdrawal": c.Fees.WithdrawalFeeBps,
		"flash loan": c.Fees.FlashLoanFeeBps,
	} {
		if bps > 10_000 {
			return fmt.Errorf("config: %s fee %d bps exceeds 10000", kind, bps)
		}
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.ServiceName) == "" {
		cfg.ServiceName = defaultServiceName
	}
	if strings.TrimSpace(cfg.StorageBackend) == "" {
		cfg.StorageBackend = defaultStorageBackend
	}
	if strings.TrimSpace(cfg.WrappedNativeDenom) == "" {
		cfg.WrappedNativeDenom = defaultWrappedDenom
	}
	if strings.TrimSpace(cfg.DataDir) == "" {
		cfg.DataDir = "./data"
	}
}

func createDefault(path string) (*Config, error) {
	cfg := &Config{}
	applyDefaults(cfg)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, err
		}
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if err := toml.NewEncoder(file).Encode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
