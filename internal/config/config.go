package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const dateLayout = "2006-01-02"

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Catalogue CatalogueConfig
	Search    SearchConfig
	Pricing   PricingConfig
	Log       LogConfig
	Worker    WorkerConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
	// KeyPrefix namespaces cache keys of this deployment
	KeyPrefix string
}

type CatalogueConfig struct {
	CacheTTL    time.Duration
	ReadTimeout time.Duration
}

type SearchConfig struct {
	Location        *time.Location
	EnforceDayFlags bool
	Holidays        []time.Time
	MaxPageSize     int
}

type PricingConfig struct {
	TariffFile string
}

type LogConfig struct {
	Level string
}

type WorkerConfig struct {
	Enabled       bool
	ConsumerGroup string
	BatchSize     int
	IdleSleep     time.Duration
	// ClaimMinIdle - через сколько неподтверждённое сообщение забирается повторно
	ClaimMinIdle time.Duration
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	location, err := time.LoadLocation(v.GetString("SEARCH_TIMEZONE"))
	if err != nil {
		return nil, fmt.Errorf("invalid SEARCH_TIMEZONE: %w", err)
	}

	holidays, err := parseDates(v.GetString("SEARCH_HOLIDAYS"))
	if err != nil {
		return nil, fmt.Errorf("invalid SEARCH_HOLIDAYS: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("API_HOST"),
			Port: v.GetInt("API_PORT"),
			Env:  v.GetString("API_ENV"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			DBName:          v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxConns:        v.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(v.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Host:      v.GetString("REDIS_HOST"),
			Port:      v.GetInt("REDIS_PORT"),
			Password:  v.GetString("REDIS_PASSWORD"),
			DB:        v.GetInt("REDIS_DB"),
			PoolSize:  v.GetInt("REDIS_POOL_SIZE"),
			KeyPrefix: v.GetString("REDIS_KEY_PREFIX"),
		},
		Catalogue: CatalogueConfig{
			CacheTTL:    time.Duration(v.GetInt("CATALOGUE_CACHE_TTL")) * time.Second,
			ReadTimeout: time.Duration(v.GetInt("CATALOGUE_READ_TIMEOUT")) * time.Millisecond,
		},
		Search: SearchConfig{
			Location:        location,
			EnforceDayFlags: v.GetBool("SEARCH_ENFORCE_DAY_FLAGS"),
			Holidays:        holidays,
			MaxPageSize:     v.GetInt("SEARCH_MAX_PAGE_SIZE"),
		},
		Pricing: PricingConfig{
			TariffFile: v.GetString("PRICING_TARIFF_FILE"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Worker: WorkerConfig{
			Enabled:       v.GetBool("WORKER_ENABLED"),
			ConsumerGroup: v.GetString("WORKER_CONSUMER_GROUP"),
			BatchSize:     v.GetInt("WORKER_BATCH_SIZE"),
			IdleSleep:     time.Duration(v.GetInt("WORKER_IDLE_SLEEP")) * time.Millisecond,
			ClaimMinIdle:  time.Duration(v.GetInt("WORKER_CLAIM_MIN_IDLE")) * time.Millisecond,
		},
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("API_HOST", "0.0.0.0")
	v.SetDefault("API_PORT", 8080)
	v.SetDefault("API_ENV", "development")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", 300)
	v.SetDefault("DB_CONN_MAX_IDLE_TIME", 60)
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_POOL_SIZE", 20)
	v.SetDefault("REDIS_KEY_PREFIX", "route-search:")
	v.SetDefault("CATALOGUE_CACHE_TTL", 300)
	v.SetDefault("CATALOGUE_READ_TIMEOUT", 3000)
	v.SetDefault("SEARCH_TIMEZONE", "UTC")
	v.SetDefault("SEARCH_ENFORCE_DAY_FLAGS", true)
	v.SetDefault("SEARCH_MAX_PAGE_SIZE", 100)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("WORKER_CONSUMER_GROUP", "catalogue-cache-invalidators")
	v.SetDefault("WORKER_BATCH_SIZE", 20)
	v.SetDefault("WORKER_IDLE_SLEEP", 200)
	v.SetDefault("WORKER_CLAIM_MIN_IDLE", 5000)
}

func parseDates(s string) ([]time.Time, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	result := make([]time.Time, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed == "" {
			continue
		}
		d, err := time.ParseInLocation(dateLayout, trimmed, time.UTC)
		if err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	return result, nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
