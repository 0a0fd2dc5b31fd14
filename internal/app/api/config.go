package api

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.temporal.io/sdk/client"
	"gopkg.in/yaml.v3"
)

// Order store backends selectable through ORDER_STORE.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

const defaultNotifyBuffer = 64

// Config carries file- and environment-driven settings for the API, worker and CLI processes.
type Config struct {
	Port              string `yaml:"port"`
	OrderStore        string `yaml:"orderStore"`
	PostgresDSN       string `yaml:"postgresDSN"`
	SQLitePath        string `yaml:"sqlitePath"`
	TemporalAddress   string `yaml:"temporalAddress"`
	TemporalNamespace string `yaml:"temporalNamespace"`
	TemporalDisabled  bool   `yaml:"temporalDisabled"`
	AuthJWTSecret     string `yaml:"authJWTSecret"`
	AuthIssuer        string `yaml:"authIssuer"`
	NotifyBuffer      int    `yaml:"notifyBuffer"`
	NotifyChannel     string `yaml:"notifyChannel"`
	SeedFixtures      bool   `yaml:"seedFixtures"`
	OrdersFixture     string `yaml:"ordersFixture"`
	MembersFixture    string `yaml:"membersFixture"`
}

// DefaultConfig returns the settings used when neither a file nor the environment override them.
func DefaultConfig() Config {
	return Config{
		Port:              "8080",
		OrderStore:        StoreMemory,
		TemporalAddress:   client.DefaultHostPort,
		TemporalNamespace: client.DefaultNamespace,
		NotifyBuffer:      defaultNotifyBuffer,
		NotifyChannel:     "order_notifications",
		SeedFixtures:      true,
	}
}

// LoadConfig reads the optional YAML file named by MINGLE_CONFIG, applies environment
// overrides, and validates basic constraints.
func LoadConfig() (Config, error) {
	return LoadConfigFile(strings.TrimSpace(os.Getenv("MINGLE_CONFIG")))
}

// LoadConfigFile is LoadConfig with an explicit file path; an empty path skips the file.
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	switch c.OrderStore {
	case StoreMemory:
	case StorePostgres:
		if c.PostgresDSN == "" {
			return errors.New("ORDER_STORE=postgres requires POSTGRES_DSN")
		}
	case StoreSQLite:
		if c.SQLitePath == "" {
			return errors.New("ORDER_STORE=sqlite requires SQLITE_PATH")
		}
	default:
		return fmt.Errorf("unknown ORDER_STORE %q (want memory, postgres or sqlite)", c.OrderStore)
	}
	if c.NotifyBuffer <= 0 {
		return errors.New("NOTIFY_BUFFER must be a positive integer")
	}
	return nil
}

func applyEnv(cfg *Config) error {
	cfg.Port = envDefault("PORT", cfg.Port)
	cfg.PostgresDSN = envDefault("POSTGRES_DSN", cfg.PostgresDSN)
	cfg.SQLitePath = envDefault("SQLITE_PATH", cfg.SQLitePath)
	cfg.TemporalAddress = envDefault("TEMPORAL_ADDRESS", cfg.TemporalAddress)
	cfg.TemporalNamespace = envDefault("TEMPORAL_NAMESPACE", cfg.TemporalNamespace)
	cfg.AuthJWTSecret = envDefault("AUTH_JWT_SECRET", cfg.AuthJWTSecret)
	cfg.AuthIssuer = envDefault("AUTH_ISSUER", cfg.AuthIssuer)
	cfg.NotifyChannel = envDefault("NOTIFY_CHANNEL", cfg.NotifyChannel)
	cfg.OrdersFixture = envDefault("ORDERS_FIXTURE", cfg.OrdersFixture)
	cfg.MembersFixture = envDefault("MEMBERS_FIXTURE", cfg.MembersFixture)

	// A DSN alone selects postgres, matching the memory fallback when it is absent.
	if raw, ok := lookupEnv("ORDER_STORE"); ok {
		cfg.OrderStore = strings.ToLower(raw)
	} else if cfg.OrderStore == StoreMemory && cfg.PostgresDSN != "" {
		cfg.OrderStore = StorePostgres
	}
	if raw, ok := lookupEnv("TEMPORAL_DISABLED"); ok {
		cfg.TemporalDisabled = isTruthy(raw)
	}
	if raw, ok := lookupEnv("SEED_FIXTURES"); ok {
		cfg.SeedFixtures = isTruthy(raw)
	}
	if raw, ok := lookupEnv("NOTIFY_BUFFER"); ok {
		size, err := strconv.Atoi(raw)
		if err != nil || size <= 0 {
			return fmt.Errorf("NOTIFY_BUFFER must be a positive integer")
		}
		cfg.NotifyBuffer = size
	}
	return nil
}

func lookupEnv(key string) (string, bool) {
	val := strings.TrimSpace(os.Getenv(key))
	return val, val != ""
}

func envDefault(key, fallback string) string {
	if val, ok := lookupEnv(key); ok {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
