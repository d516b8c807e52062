package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the envconfig namespace shared by every service binary.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	Fields       FieldsConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"FIELDFORGE_APP_ENV" required:"true"`
	Port         string `envconfig:"FIELDFORGE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FIELDFORGE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FIELDFORGE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FIELDFORGE_DB_DSN"`
	Driver string `envconfig:"FIELDFORGE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FIELDFORGE_DB_HOST"`
	LegacyPort     int    `envconfig:"FIELDFORGE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FIELDFORGE_DB_USER"`
	LegacyPassword string `envconfig:"FIELDFORGE_DB_PASSWORD"`
	LegacyName     string `envconfig:"FIELDFORGE_DB_NAME"`
	LegacySSLMode  string `envconfig:"FIELDFORGE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FIELDFORGE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FIELDFORGE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FIELDFORGE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FIELDFORGE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// ensureDSN builds a postgres DSN from the legacy host/user variables when an
// explicit DSN is absent.
func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.LegacyHost == "" || d.LegacyUser == "" || d.LegacyName == "" {
		return fmt.Errorf("either FIELDFORGE_DB_DSN or FIELDFORGE_DB_HOST/USER/NAME must be set")
	}
	userInfo := url.User(d.LegacyUser)
	if d.LegacyPassword != "" {
		userInfo = url.UserPassword(d.LegacyUser, d.LegacyPassword)
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     userInfo,
		Host:     fmt.Sprintf("%s:%d", d.LegacyHost, d.LegacyPort),
		Path:     d.LegacyName,
		RawQuery: url.Values{"sslmode": []string{d.LegacySSLMode}}.Encode(),
	}
	d.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"FIELDFORGE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"FIELDFORGE_REDIS_ADDR"`
	Password     string        `envconfig:"FIELDFORGE_REDIS_PASSWORD"`
	DB           int           `envconfig:"FIELDFORGE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FIELDFORGE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FIELDFORGE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FIELDFORGE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FIELDFORGE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FIELDFORGE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"FIELDFORGE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"FIELDFORGE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"FIELDFORGE_JWT_EXPIRATION_MINUTES" default:"60"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"FIELDFORGE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"FIELDFORGE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"FIELDFORGE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"FIELDFORGE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"FIELDFORGE_ARGON_KEY_LEN" default:"32"`
}

// FieldsConfig tunes the field-definition cache.
type FieldsConfig struct {
	DefinitionCacheTTL time.Duration `envconfig:"FIELDFORGE_FIELD_DEFINITION_CACHE_TTL" default:"5m"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"FIELDFORGE_FEATURE_AUTO_MIGRATE" default:"false"`
}
