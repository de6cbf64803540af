package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration (file + env overrides).
type Config struct {
	Server struct {
		Addr     string `mapstructure:"addr"`
		LogLevel string `mapstructure:"log_level"`
	} `mapstructure:"server"`

	Clone struct {
		CallTimeoutSeconds int `mapstructure:"call_timeout_seconds"`
		CodePollAttempts   int `mapstructure:"code_poll_attempts"`
		CodePollDelayMs    int `mapstructure:"code_poll_delay_ms"`
		CodePageSize       int `mapstructure:"code_page_size"`
	} `mapstructure:"clone"`

	Postgres struct {
		DSN string `mapstructure:"dsn"` // empty → in-memory run store
	} `mapstructure:"postgres"`

	// EnvironmentsFile points at a YAML file of pre-configured environments.
	EnvironmentsFile string `mapstructure:"environments_file"`
}

// EnvironmentConfig is one pre-configured environment in the seed file.
type EnvironmentConfig struct {
	Name     string `yaml:"name"`
	Kind     string `yaml:"kind"` // "promotions-engine" or "cms"
	BaseURL  string `yaml:"base_url"`
	APIKey   string `yaml:"api_key"`
	Insecure bool   `yaml:"insecure"`
}

// Load reads configs/application.yaml (optional) with PROMO_* env overrides.
func Load() Config {
	v := viper.New()
	v.SetConfigName("application")
	v.SetConfigType("yaml")
	v.AddConfigPath("configs")
	_ = v.ReadInConfig() // optional; env can fully configure

	v.SetEnvPrefix("PROMO")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Errorf("unable to decode config: %w", err))
	}
	validate(&cfg)
	return cfg
}

func validate(c *Config) {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Clone.CallTimeoutSeconds <= 0 {
		c.Clone.CallTimeoutSeconds = 10
	}
	if c.Clone.CodePollAttempts <= 0 {
		c.Clone.CodePollAttempts = 10
	}
	if c.Clone.CodePollDelayMs <= 0 {
		c.Clone.CodePollDelayMs = 1000
	}
	if c.Clone.CodePageSize <= 0 {
		c.Clone.CodePageSize = 1000
	}
}

// CallTimeout returns the per-request timeout for remote API calls.
func (c Config) CallTimeout() time.Duration {
	return time.Duration(c.Clone.CallTimeoutSeconds) * time.Second
}

// CodePollDelay returns the delay between coupon/referral import poll attempts.
func (c Config) CodePollDelay() time.Duration {
	return time.Duration(c.Clone.CodePollDelayMs) * time.Millisecond
}

// LoadEnvironments reads the pre-configured environment seed file, if set.
func (c Config) LoadEnvironments() ([]EnvironmentConfig, error) {
	if c.EnvironmentsFile == "" {
		return nil, nil
	}
	data, err := os.ReadFile(c.EnvironmentsFile)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", c.EnvironmentsFile, err)
	}
	var file struct {
		Environments []EnvironmentConfig `yaml:"environments"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", c.EnvironmentsFile, err)
	}
	return file.Environments, nil
}
