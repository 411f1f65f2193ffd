package config

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// DotEnvPath is the optional file loaded before the environment is parsed
var DotEnvPath = ".env"

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken   string `env:"DISCORD_TOKEN"`
	DiscordGuildID string `env:"DISCORD_GUILD_ID"`

	// Persistence: DATABASE_URL selects Postgres, otherwise DB_FILE holds the JSON document
	DatabaseURL string `env:"DATABASE_URL"`
	DBFile      string `env:"DB_FILE" envDefault:"data.json"`

	// Economy
	StartingChips       int64           `env:"STARTING_CHIPS" envDefault:"1000"`
	DailyCooldownHours  int             `env:"DAILY_COOLDOWN_HOURS" envDefault:"20"`
	WorkCooldownMinutes int             `env:"WORK_COOLDOWN_MINUTES" envDefault:"30"`
	BankFeeRate         decimal.Decimal `env:"BANK_FEE_RATE" envDefault:"0.02"`
	BetLimit            int64           `env:"BET_LIMIT" envDefault:"20000"`
	RNGSeed             *uint64         `env:"RNG_SEED"`

	// Optional integrations
	NATSURL     string `env:"NATS_URL"`
	MetricsAddr string `env:"METRICS_ADDR"`

	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = Load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// Load reads the optional .env file and the environment
func Load() (*Config, error) {
	if _, err := os.Stat(DotEnvPath); err == nil {
		if err := godotenv.Load(DotEnvPath); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", DotEnvPath, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks ranges and required values
func (c *Config) Validate() error {
	var errs []error
	if c.StartingChips < 0 {
		errs = append(errs, fmt.Errorf("STARTING_CHIPS must not be negative"))
	}
	if c.DailyCooldownHours <= 0 {
		errs = append(errs, fmt.Errorf("DAILY_COOLDOWN_HOURS must be positive"))
	}
	if c.WorkCooldownMinutes <= 0 {
		errs = append(errs, fmt.Errorf("WORK_COOLDOWN_MINUTES must be positive"))
	}
	if c.BankFeeRate.IsNegative() || c.BankFeeRate.GreaterThan(decimal.NewFromInt(1)) {
		errs = append(errs, fmt.Errorf("BANK_FEE_RATE must be within [0, 1]"))
	}
	if c.BetLimit <= 0 {
		errs = append(errs, fmt.Errorf("BET_LIMIT must be positive"))
	}
	if c.DatabaseURL == "" && c.DBFile == "" {
		errs = append(errs, fmt.Errorf("DB_FILE is required when DATABASE_URL is not set"))
	}
	if !c.IsTest() && c.DiscordToken == "" {
		errs = append(errs, fmt.Errorf("DISCORD_TOKEN is required"))
	}
	return errors.Join(errs...)
}

// IsTest reports whether the process runs under ENVIRONMENT=test
func (c *Config) IsTest() bool {
	return c.Environment == "test"
}

// IsProduction reports whether the process runs under ENVIRONMENT=production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
