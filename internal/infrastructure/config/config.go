package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

type Config struct {
	Port       string        `env:"PORT,        default=8080"`
	Env        string        `env:"ENV,         default=development"`
	JWTSecret  string        `env:"JWT_SECRET,  required"`
	TokenTTL   time.Duration `env:"TOKEN_TTL,   default=1h"`
	BcryptCost int           `env:"BCRYPT_COST, default=10"`
	LogLevel   string        `env:"LOG_LEVEL,   default=info"`
	Store      string        `env:"CREDENTIAL_STORE, default=mongo"`

	Mongo MongoConfig
	Redis RedisConfig
	SQL   SQLConfig
	Kafka KafkaConfig
	Admin AdminConfig
	Audit AuditConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=backoffice"`
}

// RedisConfig leaves Addr empty by default, which disables the role cache.
type RedisConfig struct {
	Addr         string        `env:"REDIS_ADDR"`
	DB           int           `env:"REDIS_DB,       default=0"`
	RoleCacheTTL time.Duration `env:"ROLE_CACHE_TTL, default=10m"`
}

type SQLConfig struct {
	DSN string `env:"SQL_DSN, default=backoffice.db"`
}

// KafkaConfig leaves Brokers empty by default, which disables the audit stream.
type KafkaConfig struct {
	Brokers []string `env:"KAFKA_BROKERS"`
	Topic   string   `env:"KAFKA_AUDIT_TOPIC, default=backoffice.auth-events"`
}

type AdminConfig struct {
	Email    string `env:"ADMIN_EMAIL"`
	Password string `env:"ADMIN_PASSWORD"`
}

type AuditConfig struct {
	Workers   int `env:"AUDIT_WORKERS,    default=4"`
	QueueSize int `env:"AUDIT_QUEUE_SIZE, default=256"`
}

// IsDevelopment reports whether a local .env file should be honoured.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// Validate checks cross-field constraints envconfig cannot express.
func (c *Config) Validate() error {
	switch c.Store {
	case StoreMongo, StorePostgres, StoreSQLite:
	default:
		return fmt.Errorf("config: unknown CREDENTIAL_STORE %q", c.Store)
	}
	if (c.Admin.Email == "") != (c.Admin.Password == "") {
		return fmt.Errorf("config: ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
	}
	return nil
}

// Load reads configuration from environment variables using go-envconfig.
// A .env file in the working directory is applied first when present.
func Load(ctx context.Context) (*Config, error) {
	_ = godotenv.Load()
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ClientConfig drives the CLI: which API to call and where the session lives.
type ClientConfig struct {
	APIURL      string `env:"BACKOFFICE_API_URL,     default=http://localhost:8080"`
	SessionFile string `env:"BACKOFFICE_SESSION_FILE"`
}

// LoadClient reads client settings. SessionFile defaults to a file under the
// user's config directory.
func LoadClient(ctx context.Context) (*ClientConfig, error) {
	return loadClient(ctx, envconfig.OsLookuper())
}

func loadClient(ctx context.Context, lookuper envconfig.Lookuper) (*ClientConfig, error) {
	var cfg ClientConfig
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: failed to load client configuration: %w", err)
	}
	if cfg.SessionFile == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			dir = os.TempDir()
		}
		cfg.SessionFile = filepath.Join(dir, "backoffice", "session.json")
	}
	return &cfg, nil
}
