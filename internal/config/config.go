package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	StorageMemory = "memory"
	StorageBolt   = "bolt"
)

// Config captures everything needed to run the lottery node.
type Config struct {
	Addr    string `toml:"addr"`
	Verbose bool   `toml:"verbose"`
	LogFile string `toml:"log_file"`

	Registry Registry `toml:"registry"`
	Storage  Storage  `toml:"storage"`
	Oracle   Oracle   `toml:"oracle"`
	Ledger   Ledger   `toml:"ledger"`
}

// Registry holds the deployment-time registry scalars.
type Registry struct {
	Admin         string `toml:"admin"`
	MaxLotteries  uint64 `toml:"max_lotteries"`
	ActivationFee uint64 `toml:"activation_fee"`
	MaxWinners    uint64 `toml:"max_winners"`
}

type Storage struct {
	Backend  string `toml:"backend"`
	BoltPath string `toml:"bolt_path"`
}

type Oracle struct {
	// Genesis is the hex beacon genesis; empty picks a random one.
	Genesis string `toml:"genesis"`
}

type Ledger struct {
	// Balances are opening balances keyed by account.
	Balances      map[string]uint64 `toml:"balances"`
	MaxReceipts   int               `toml:"max_receipts"`
	PruneInterval duration          `toml:"prune_interval"`
}

type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Addr: ":8080",
		Registry: Registry{
			Admin:         "ST1TEST",
			MaxLotteries:  100,
			ActivationFee: 500,
			MaxWinners:    10_000,
		},
		Storage: Storage{
			Backend:  StorageMemory,
			BoltPath: "lottery.db",
		},
		Ledger: Ledger{
			MaxReceipts:   10000,
			PruneInterval: duration{10 * time.Minute},
		},
	}
}

// Load builds a Config from defaults, an optional TOML file, a .env file if
// present, and LOTTERY_* environment variables, in that order of precedence
// (later wins).
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("reading config %s: %w", path, err)
		}
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("reading .env: %w", err)
	}
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("LOTTERY_ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("LOTTERY_ADMIN"); v != "" {
		c.Registry.Admin = v
	}
	if v := os.Getenv("LOTTERY_STORAGE"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("LOTTERY_BOLT_PATH"); v != "" {
		c.Storage.BoltPath = v
	}
	if v := os.Getenv("LOTTERY_ORACLE_GENESIS"); v != "" {
		c.Oracle.Genesis = v
	}
	if v := os.Getenv("LOTTERY_MAX_LOTTERIES"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("LOTTERY_MAX_LOTTERIES: %w", err)
		}
		c.Registry.MaxLotteries = n
	}
	if v := os.Getenv("LOTTERY_MAX_WINNERS"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("LOTTERY_MAX_WINNERS: %w", err)
		}
		c.Registry.MaxWinners = n
	}
	if v := os.Getenv("LOTTERY_ACTIVATION_FEE"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("LOTTERY_ACTIVATION_FEE: %w", err)
		}
		c.Registry.ActivationFee = n
	}
	return nil
}

// Validate rejects configurations the node cannot start with.
func (c Config) Validate() error {
	if c.Registry.Admin == "" {
		return errors.New("registry admin is required")
	}
	if c.Registry.MaxLotteries == 0 {
		return errors.New("registry max_lotteries must be positive")
	}
	if c.Registry.MaxWinners == 0 {
		return errors.New("registry max_winners must be positive")
	}
	switch c.Storage.Backend {
	case StorageMemory:
	case StorageBolt:
		if c.Storage.BoltPath == "" {
			return errors.New("storage bolt_path is required for the bolt backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	return nil
}
