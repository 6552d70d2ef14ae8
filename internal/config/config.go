package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server         ServerConfig         `mapstructure:"server"`
	Catalog        CatalogConfig        `mapstructure:"catalog"`
	Database       DatabaseConfig       `mapstructure:"database"`
	Redis          RedisConfig          `mapstructure:"redis"`
	Kafka          KafkaConfig          `mapstructure:"kafka"`
	Logging        LoggingConfig        `mapstructure:"logging"`
	Recommendation RecommendationConfig `mapstructure:"recommendation"`
	Monitoring     MonitoringConfig     `mapstructure:"monitoring"`
	Security       SecurityConfig       `mapstructure:"security"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// CatalogConfig selects where the food catalog is loaded from.
// Source is one of csv, xlsx, json, postgres, remote.
type CatalogConfig struct {
	Source  string        `mapstructure:"source"`
	Path    string        `mapstructure:"path"`
	Sheet   string        `mapstructure:"sheet"`
	URL     string        `mapstructure:"url"`
	Table   string        `mapstructure:"table"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type DatabaseConfig struct {
	URL            string        `mapstructure:"url"`
	MaxConnections int           `mapstructure:"max_connections"`
	MaxIdleTime    time.Duration `mapstructure:"max_idle_time"`
	MaxLifetime    time.Duration `mapstructure:"max_lifetime"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

type RedisConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	URL        string        `mapstructure:"url"`
	MaxRetries int           `mapstructure:"max_retries"`
	PoolSize   int           `mapstructure:"pool_size"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type KafkaConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topics  struct {
		Recommendations string `mapstructure:"recommendations"`
	} `mapstructure:"topics"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type RecommendationConfig struct {
	DefaultTopN int           `mapstructure:"default_top_n"`
	MaxTopN     int           `mapstructure:"max_top_n"`
	SampleSize  int           `mapstructure:"sample_size"`
	Seed        uint64        `mapstructure:"seed"`
	CacheTTL    time.Duration `mapstructure:"cache_ttl"`
}

type MonitoringConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	MetricsPath string `mapstructure:"metrics_path"`
}

type SecurityConfig struct {
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
}

func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	setDefaults(v)

	// Environment variable overrides
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		// Config file is optional, continue with env vars and defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "development")

	// Catalog defaults
	v.SetDefault("catalog.source", "csv")
	v.SetDefault("catalog.path", "./data")
	v.SetDefault("catalog.sheet", "Sheet1")
	v.SetDefault("catalog.table", "food_items")
	v.SetDefault("catalog.timeout", "30s")

	// Database defaults
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.max_idle_time", "15m")
	v.SetDefault("database.max_lifetime", "1h")
	v.SetDefault("database.connect_timeout", "10s")

	// Redis defaults
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.url", "localhost:6379")
	v.SetDefault("redis.max_retries", 3)
	v.SetDefault("redis.pool_size", 5)
	v.SetDefault("redis.timeout", "5s")

	// Kafka defaults
	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topics.recommendations", "food-recommendations")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	// Recommendation defaults
	v.SetDefault("recommendation.default_top_n", 3)
	v.SetDefault("recommendation.max_top_n", 50)
	v.SetDefault("recommendation.sample_size", 10)
	v.SetDefault("recommendation.seed", 0)
	v.SetDefault("recommendation.cache_ttl", "15m")

	// Monitoring defaults
	v.SetDefault("monitoring.enabled", true)
	v.SetDefault("monitoring.metrics_path", "/metrics")

	// Security defaults
	v.SetDefault("security.cors.allowed_origins", []string{"*"})
	v.SetDefault("security.cors.allowed_methods", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("security.cors.allowed_headers", []string{"*"})
}
