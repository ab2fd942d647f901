package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/scttfrdmn/labstop/pkg/aws"
	"gopkg.in/yaml.v3"
)

const (
	EnvTopicArn = "SNS_TOPIC_ARN"
	EnvTagKey   = "LABSTOP_TAG_KEY"
	EnvTagValue = "LABSTOP_TAG_VALUE"

	// Config file path, relative to the home directory
	configFileName = ".labstop/config.yaml"
)

// Config represents the sweep configuration
type Config struct {
	// TopicArn is the SNS topic notified after a sweep. Empty disables
	// notification; the sweep still runs.
	TopicArn string   `yaml:"topic_arn"`
	TagKey   string   `yaml:"tag_key"`
	TagValue string   `yaml:"tag_value"`
	Regions  []string `yaml:"regions"`
}

// Overrides are values given on the command line. Empty fields leave the
// lower layers untouched.
type Overrides struct {
	TopicArn string
	TagKey   string
	TagValue string
	Regions  []string
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		TagKey:   aws.DefaultTagKey,
		TagValue: aws.DefaultTagValue,
	}
}

// FromEnv builds the Lambda configuration from the process environment
func FromEnv() *Config {
	cfg := Default()
	applyEnv(cfg)
	return cfg
}

// Load builds the CLI configuration with precedence:
// 1. CLI flags
// 2. Environment variables
// 3. Config file (~/.labstop/config.yaml)
// 4. Defaults
func Load(flags Overrides) (*Config, error) {
	cfg := Default()

	fileConfig, err := loadFromFile(defaultConfigPath())
	if err != nil {
		return nil, err
	}
	if fileConfig != nil {
		merge(cfg, Overrides(*fileConfig))
	}

	applyEnv(cfg)
	merge(cfg, flags)

	return cfg, nil
}

// NotificationsEnabled reports whether a topic is configured
func (c *Config) NotificationsEnabled() bool {
	return c.TopicArn != ""
}

func applyEnv(cfg *Config) {
	cfg.TopicArn = getEnv(EnvTopicArn, cfg.TopicArn)
	cfg.TagKey = getEnv(EnvTagKey, cfg.TagKey)
	cfg.TagValue = getEnv(EnvTagValue, cfg.TagValue)
}

func merge(cfg *Config, o Overrides) {
	if o.TopicArn != "" {
		cfg.TopicArn = o.TopicArn
	}
	if o.TagKey != "" {
		cfg.TagKey = o.TagKey
	}
	if o.TagValue != "" {
		cfg.TagValue = o.TagValue
	}
	if len(o.Regions) > 0 {
		cfg.Regions = append([]string(nil), o.Regions...)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func defaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, configFileName)
}

// loadFromFile reads path. A missing file is not an error.
func loadFromFile(path string) (*Config, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}
