package config

import (
	"time"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Model    ModelConfig    `mapstructure:"model"`
	Policy   PolicyConfig   `mapstructure:"policy"`
	Training TrainingConfig `mapstructure:"training"`
	Batch    BatchConfig    `mapstructure:"batch"`
	Bulk     BulkConfig     `mapstructure:"bulk"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// ModelConfig holds trained-model artifact configuration
type ModelConfig struct {
	Dir     string `mapstructure:"dir"`
	Version string `mapstructure:"version"`
}

// PolicyConfig holds decision policy thresholds
type PolicyConfig struct {
	SuspiciousThreshold float64 `mapstructure:"suspicious_threshold"`
	HighProbThreshold   float64 `mapstructure:"high_prob_threshold"`
	ShortTextLength     int     `mapstructure:"short_text_length"`
}

// TrainingConfig holds training pipeline configuration
type TrainingConfig struct {
	DataPath        string  `mapstructure:"data_path"`
	TestFraction    float64 `mapstructure:"test_fraction"`
	Seed            int64   `mapstructure:"seed"`
	MaxVocabulary   int     `mapstructure:"max_vocabulary"`
	Trees           int     `mapstructure:"trees"`
	MaxDepth        int     `mapstructure:"max_depth"`
	MinSamplesSplit int     `mapstructure:"min_samples_split"`
	MinSamplesLeaf  int     `mapstructure:"min_samples_leaf"`
	FeatureFraction float64 `mapstructure:"feature_fraction"`
}

// BatchConfig holds JSON batch endpoint limits
type BatchConfig struct {
	MaxSize int `mapstructure:"max_size"`
}

// BulkConfig holds CSV upload limits and retention
type BulkConfig struct {
	MaxRows   int           `mapstructure:"max_rows"`
	ResultTTL time.Duration `mapstructure:"result_ttl"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DefaultConfig returns configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8000,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "review_user",
			Password:        "",
			Name:            "fake_reviews",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Redis: RedisConfig{
			Host:         "localhost",
			Port:         6379,
			Password:     "",
			DB:           0,
			PoolSize:     10,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Model: ModelConfig{
			Dir:     "./saved_models",
			Version: "1.0.0",
		},
		Policy: PolicyConfig{
			SuspiciousThreshold: 0.3,
			HighProbThreshold:   0.7,
			ShortTextLength:     50,
		},
		Training: TrainingConfig{
			DataPath:        "./data/reviews.csv",
			TestFraction:    0.3,
			Seed:            42,
			MaxVocabulary:   30,
			Trees:           25,
			MaxDepth:        8,
			MinSamplesSplit: 40,
			MinSamplesLeaf:  20,
			FeatureFraction: 0.5,
		},
		Batch: BatchConfig{
			MaxSize: 100,
		},
		Bulk: BulkConfig{
			MaxRows:   10000,
			ResultTTL: time.Hour,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
