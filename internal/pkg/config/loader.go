package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()

	// Set defaults from DefaultConfig
	setDefaults(v, cfg)

	// Read from config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			// Config file not found is ok - we use defaults and env vars
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	// Read from environment variables
	v.SetEnvPrefix("FAKEREVIEW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Unmarshal into config struct
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// LoadFromEnv loads configuration primarily from environment variables
func LoadFromEnv() (*Config, error) {
	cfg := DefaultConfig()

	// Override with environment variables
	if host := os.Getenv("FAKEREVIEW_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if port := os.Getenv("FAKEREVIEW_SERVER_PORT"); port != "" {
		fmt.Sscanf(port, "%d", &cfg.Server.Port)
	}

	// Database
	if host := os.Getenv("FAKEREVIEW_DATABASE_HOST"); host != "" {
		cfg.Database.Host = host
	}
	if port := os.Getenv("FAKEREVIEW_DATABASE_PORT"); port != "" {
		fmt.Sscanf(port, "%d", &cfg.Database.Port)
	}
	if user := os.Getenv("FAKEREVIEW_DATABASE_USER"); user != "" {
		cfg.Database.User = user
	}
	if pass := os.Getenv("FAKEREVIEW_DATABASE_PASSWORD"); pass != "" {
		cfg.Database.Password = pass
	}
	if name := os.Getenv("FAKEREVIEW_DATABASE_NAME"); name != "" {
		cfg.Database.Name = name
	}

	// Redis
	if host := os.Getenv("FAKEREVIEW_REDIS_HOST"); host != "" {
		cfg.Redis.Host = host
	}
	if port := os.Getenv("FAKEREVIEW_REDIS_PORT"); port != "" {
		fmt.Sscanf(port, "%d", &cfg.Redis.Port)
	}
	if pass := os.Getenv("FAKEREVIEW_REDIS_PASSWORD"); pass != "" {
		cfg.Redis.Password = pass
	}

	// Model artifacts
	if dir := os.Getenv("FAKEREVIEW_MODEL_DIR"); dir != "" {
		cfg.Model.Dir = dir
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	// Server defaults
	v.SetDefault("server.host", cfg.Server.Host)
	v.SetDefault("server.port", cfg.Server.Port)
	v.SetDefault("server.read_timeout", cfg.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", cfg.Server.WriteTimeout)
	v.SetDefault("server.shutdown_timeout", cfg.Server.ShutdownTimeout)

	// Database defaults
	v.SetDefault("database.host", cfg.Database.Host)
	v.SetDefault("database.port", cfg.Database.Port)
	v.SetDefault("database.user", cfg.Database.User)
	v.SetDefault("database.name", cfg.Database.Name)
	v.SetDefault("database.ssl_mode", cfg.Database.SSLMode)

	// Redis defaults
	v.SetDefault("redis.host", cfg.Redis.Host)
	v.SetDefault("redis.port", cfg.Redis.Port)
	v.SetDefault("redis.db", cfg.Redis.DB)
	v.SetDefault("redis.pool_size", cfg.Redis.PoolSize)

	// Model defaults
	v.SetDefault("model.dir", cfg.Model.Dir)
	v.SetDefault("model.version", cfg.Model.Version)

	// Policy defaults
	v.SetDefault("policy.suspicious_threshold", cfg.Policy.SuspiciousThreshold)
	v.SetDefault("policy.high_prob_threshold", cfg.Policy.HighProbThreshold)
	v.SetDefault("policy.short_text_length", cfg.Policy.ShortTextLength)

	// Training defaults
	v.SetDefault("training.data_path", cfg.Training.DataPath)
	v.SetDefault("training.test_fraction", cfg.Training.TestFraction)
	v.SetDefault("training.seed", cfg.Training.Seed)
	v.SetDefault("training.max_vocabulary", cfg.Training.MaxVocabulary)
	v.SetDefault("training.trees", cfg.Training.Trees)
	v.SetDefault("training.max_depth", cfg.Training.MaxDepth)
	v.SetDefault("training.min_samples_split", cfg.Training.MinSamplesSplit)
	v.SetDefault("training.min_samples_leaf", cfg.Training.MinSamplesLeaf)
	v.SetDefault("training.feature_fraction", cfg.Training.FeatureFraction)

	// Limit defaults
	v.SetDefault("batch.max_size", cfg.Batch.MaxSize)
	v.SetDefault("bulk.max_rows", cfg.Bulk.MaxRows)
	v.SetDefault("bulk.result_ttl", cfg.Bulk.ResultTTL)

	// Log defaults
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
}
