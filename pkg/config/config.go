package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Store drivers.
const (
	DriverBolt     = "bolt"
	DriverFile     = "file"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Store write modes.
const (
	WriteModeSync  = "sync"
	WriteModeAsync = "async"
)

// ID strategies for student identifiers.
const (
	IDStrategyLegacy = "legacy"
	IDStrategyUUID   = "uuid"
)

type Config struct {
	Env string

	Store       StoreConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Log         LogConfig
	Credentials CredentialsConfig
	IDs         IDConfig
	Live        LiveConfig
	Exports     ExportsConfig
	Metrics     MetricsConfig
}

// StoreConfig selects and tunes the persistence backend.
type StoreConfig struct {
	Driver     string
	Path       string
	KeyPrefix  string
	WriteMode  string
	Retries    int
	RetryDelay time.Duration
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type LogConfig struct {
	Level  string
	Format string
}

// Account is a fixed staff login.
type Account struct {
	Username string
	Password string
	ID       string
	Name     string
}

// CredentialsConfig holds the staff accounts and student password policy.
type CredentialsConfig struct {
	Admin           Account
	Teacher         Account
	PasswordHashing bool
}

// IDConfig controls record identifier generation.
type IDConfig struct {
	Strategy      string
	StudentPrefix string
	MaxAttempts   int
}

// LiveConfig configures the simulated camera used by live classes.
type LiveConfig struct {
	Camera string
}

// ExportsConfig points at the directory receiving CSV and PDF exports.
type ExportsConfig struct {
	Dir string
}

// MetricsConfig enables dumping the metrics registry to a textfile on exit.
type MetricsConfig struct {
	Textfile string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

// Default returns the configuration produced by the built-in defaults alone.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	return fromViper(v)
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")

	cfg.Store = StoreConfig{
		Driver:     strings.ToLower(v.GetString("STORE_DRIVER")),
		Path:       v.GetString("STORE_PATH"),
		KeyPrefix:  v.GetString("STORE_KEY_PREFIX"),
		WriteMode:  strings.ToLower(v.GetString("STORE_WRITE_MODE")),
		Retries:    v.GetInt("STORE_WRITE_RETRIES"),
		RetryDelay: parseDuration(v.GetString("STORE_WRITE_RETRY_DELAY"), 200*time.Millisecond),
	}

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Credentials = CredentialsConfig{
		Admin: Account{
			Username: v.GetString("ADMIN_USERNAME"),
			Password: v.GetString("ADMIN_PASSWORD"),
			ID:       v.GetString("ADMIN_ID"),
			Name:     v.GetString("ADMIN_NAME"),
		},
		Teacher: Account{
			Username: v.GetString("TEACHER_USERNAME"),
			Password: v.GetString("TEACHER_PASSWORD"),
			ID:       v.GetString("TEACHER_ID"),
			Name:     v.GetString("TEACHER_NAME"),
		},
		PasswordHashing: v.GetBool("PASSWORD_HASHING"),
	}

	cfg.IDs = IDConfig{
		Strategy:      strings.ToLower(v.GetString("ID_STRATEGY")),
		StudentPrefix: v.GetString("STUDENT_ID_PREFIX"),
		MaxAttempts:   v.GetInt("ID_MAX_ATTEMPTS"),
	}

	cfg.Live = LiveConfig{Camera: strings.ToLower(v.GetString("LIVE_CAMERA"))}
	cfg.Exports = ExportsConfig{Dir: v.GetString("EXPORTS_DIR")}
	cfg.Metrics = MetricsConfig{Textfile: v.GetString("METRICS_TEXTFILE")}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)

	v.SetDefault("STORE_DRIVER", DriverBolt)
	v.SetDefault("STORE_PATH", "./data/portal.db")
	v.SetDefault("STORE_KEY_PREFIX", "ghs_")
	v.SetDefault("STORE_WRITE_MODE", WriteModeSync)
	v.SetDefault("STORE_WRITE_RETRIES", 3)
	v.SetDefault("STORE_WRITE_RETRY_DELAY", "200ms")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "school_portal")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 4)
	v.SetDefault("DB_MAX_IDLE_CONNS", 2)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("LOG_LEVEL", "warn")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("ADMIN_USERNAME", "admin")
	v.SetDefault("ADMIN_PASSWORD", "12345")
	v.SetDefault("ADMIN_ID", "admin-id")
	v.SetDefault("ADMIN_NAME", "ہیڈ ماسٹر / ایڈمن")
	v.SetDefault("TEACHER_USERNAME", "teacher")
	v.SetDefault("TEACHER_PASSWORD", "1234")
	v.SetDefault("TEACHER_ID", "teacher-id")
	v.SetDefault("TEACHER_NAME", "جناب استاد صاحب")
	v.SetDefault("PASSWORD_HASHING", false)

	v.SetDefault("ID_STRATEGY", IDStrategyLegacy)
	v.SetDefault("STUDENT_ID_PREFIX", "GHS-KSR-")
	v.SetDefault("ID_MAX_ATTEMPTS", 50)

	v.SetDefault("LIVE_CAMERA", "allow")
	v.SetDefault("EXPORTS_DIR", "./exports")
	v.SetDefault("METRICS_TEXTFILE", "")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}
