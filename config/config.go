package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides, e.g. LEDGER_AUTH_TOKEN_SECRET.
const EnvPrefix = "LEDGER"

const (
	StoreDriverMemory   = "memory"
	StoreDriverRedis    = "redis"
	StoreDriverPostgres = "postgres"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Store    StoreConfig    `yaml:"store"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Auth     AuthConfig     `yaml:"auth"`
	Ledger   LedgerConfig   `yaml:"ledger"`
	Worker   WorkerConfig   `yaml:"worker"`
	Log      LogConfig      `yaml:"log"`
}

type HTTPConfig struct {
	Address        string   `yaml:"address"`
	SwaggerDir     string   `yaml:"swagger_dir" split_words:"true"`
	AllowedOrigins []string `yaml:"allowed_origins" split_words:"true"`
}

// StoreConfig selects the key/value backend that holds the reservation collection.
type StoreConfig struct {
	Driver    string `yaml:"driver"`
	KeyPrefix string `yaml:"key_prefix" split_words:"true"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode" split_words:"true"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers           []string `yaml:"brokers"`
	ReservationsTopic string   `yaml:"reservations_topic" split_words:"true"`
	GroupID           string   `yaml:"group_id" split_words:"true"`
}

type AuthConfig struct {
	Username       string `yaml:"username"`
	Password       string `yaml:"password"`
	TokenSecret    string `yaml:"token_secret" split_words:"true"`
	TokenTTLMinute int    `yaml:"token_ttl_minutes" split_words:"true"`
}

type LedgerConfig struct {
	// IDScheme is "timestamp" (RES-######-###) or "uuid".
	IDScheme string `yaml:"id_scheme" split_words:"true"`
}

type WorkerConfig struct {
	SummarySweepMinutes int `yaml:"summary_sweep_minutes" split_words:"true"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read env overrides: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if c.Store.Driver == "" {
		c.Store.Driver = StoreDriverRedis
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	if c.Auth.Username == "" {
		c.Auth.Username = "admin"
	}
	if c.Auth.TokenTTLMinute == 0 {
		c.Auth.TokenTTLMinute = 12 * 60
	}
	if c.Ledger.IDScheme == "" {
		c.Ledger.IDScheme = "timestamp"
	}
	if c.Worker.SummarySweepMinutes == 0 {
		c.Worker.SummarySweepMinutes = 60
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case StoreDriverMemory, StoreDriverRedis, StoreDriverPostgres:
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	switch c.Ledger.IDScheme {
	case "timestamp", "uuid":
	default:
		return fmt.Errorf("unknown id scheme %q", c.Ledger.IDScheme)
	}
	if c.Auth.Password == "" {
		return fmt.Errorf("auth.password is required")
	}
	if c.Auth.TokenSecret == "" {
		return fmt.Errorf("auth.token_secret is required")
	}
	if c.Auth.TokenTTLMinute <= 0 {
		return fmt.Errorf("auth.token_ttl_minutes must be positive")
	}
	if c.Worker.SummarySweepMinutes <= 0 {
		return fmt.Errorf("worker.summary_sweep_minutes must be positive")
	}
	return nil
}
