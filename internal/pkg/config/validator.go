package config

import (
	"errors"
)

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.New("invalid server port")
	}

	if c.Policy.SuspiciousThreshold < 0 || c.Policy.SuspiciousThreshold > 1 {
		return errors.New("suspicious_threshold must be between 0 and 1")
	}

	if c.Policy.HighProbThreshold < 0 || c.Policy.HighProbThreshold > 1 {
		return errors.New("high_prob_threshold must be between 0 and 1")
	}

	// Thresholds should be in order: suspicious < high probability
	if c.Policy.SuspiciousThreshold >= c.Policy.HighProbThreshold {
		return errors.New("suspicious_threshold should be less than high_prob_threshold")
	}

	if c.Policy.ShortTextLength < 0 {
		return errors.New("short_text_length must not be negative")
	}

	if c.Training.TestFraction <= 0 || c.Training.TestFraction >= 1 {
		return errors.New("test_fraction must be between 0 and 1 exclusive")
	}

	if c.Training.Trees <= 0 {
		return errors.New("trees must be positive")
	}

	if c.Training.FeatureFraction <= 0 || c.Training.FeatureFraction > 1 {
		return errors.New("feature_fraction must be in (0, 1]")
	}

	if c.Batch.MaxSize <= 0 {
		return errors.New("batch max_size must be positive")
	}

	if c.Bulk.MaxRows <= 0 {
		return errors.New("bulk max_rows must be positive")
	}

	return nil
}
