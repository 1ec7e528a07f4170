package config

import (
	"strings"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Store drivers accepted in STORE_DRIVER.
const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

// Config holds every setting the server reads. Only this struct is used
// to hold configuration values; nothing else reads the environment.
type Config struct {
	AppEnv   string `env:"APP_ENV,default=dev"`
	LogLevel string `env:"LOG_LEVEL"`

	HttpListenAddr         string   `env:"HTTP_LISTEN_ADDR,default=:8080"`
	HttpServerReadTimeout  int      `env:"HTTP_SERVER_READ_TIMEOUT,default=15"`
	HttpServerWriteTimeout int      `env:"HTTP_SERVER_WRITE_TIMEOUT,default=15"`
	HttpServerIdleTimeout  int      `env:"HTTP_SERVER_IDLE_TIMEOUT,default=60"`
	HttpShutdownTimeout    int      `env:"HTTP_SHUTDOWN_TIMEOUT,default=30"`
	CorsAllowedOrigins     []string `env:"CORS_ALLOWED_ORIGINS,default=http://localhost:5173|http://localhost:8080"`

	StoreDriver string `env:"STORE_DRIVER,default=sqlite"`
	SqlitePath  string `env:"SQLITE_PATH,default=ledger.db"`
	PostgresDSN string `env:"POSTGRES_DSN"`

	RedisAddr               string `env:"REDIS_ADDR,default=localhost:6379"`
	RedisUsername           string `env:"REDIS_USER"`
	RedisPassword           string `env:"REDIS_PASS"`
	RedisDatabase           int    `env:"REDIS_DATABASE,default=0"`
	RedisUniversalKeyPrefix string `env:"REDIS_UNIVERSAL_KEY_PREFIX,default=ledger:"`

	// Seconds a conflicting commit is retried before giving up.
	CommitRetryMaxElapsed int `env:"COMMIT_RETRY_MAX_ELAPSED,default=5"`

	CurrencySymbol string `env:"CURRENCY_SYMBOL,default=Rs."`
	PromNamespace  string `env:"PROM_NAMESPACE,default=customer_ledger"`
}

// Load reads an optional .env file then maps the environment onto Config.
func Load(path string) (*Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return nil, errors.Wrapf(err, "failed to load configuration file %s", path)
		}
	}

	c := &Config{}
	if _, err := env.UnmarshalFromEnviron(c); err != nil {
		return nil, errors.Wrap(err, "failed to map env variables to configuration")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks cross-field rules the tags cannot express.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreMemory, StoreSQLite, StoreRedis:
	case StorePostgres:
		if c.PostgresDSN == "" {
			return errors.New("POSTGRES_DSN is required when STORE_DRIVER=postgres")
		}
	default:
		return errors.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.HttpListenAddr == "" {
		return errors.New("HTTP_LISTEN_ADDR must not be empty")
	}
	return nil
}

func (c *Config) ReadTimeout() time.Duration  { return seconds(c.HttpServerReadTimeout) }
func (c *Config) WriteTimeout() time.Duration { return seconds(c.HttpServerWriteTimeout) }
func (c *Config) IdleTimeout() time.Duration  { return seconds(c.HttpServerIdleTimeout) }
func (c *Config) ShutdownTimeout() time.Duration {
	return seconds(c.HttpShutdownTimeout)
}
func (c *Config) CommitRetryTimeout() time.Duration {
	return seconds(c.CommitRetryMaxElapsed)
}

// AllowedOrigins drops blank entries from CORS_ALLOWED_ORIGINS.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range c.CorsAllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
