// Package config loads service settings from layered sources: struct
// defaults, then an optional YAML file, then environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "OUTAGE_CONFIG_PATH"

// EnvPrefix namespaces the service's environment variables. A double
// underscore separates nesting levels: OUTAGE_DATABASE__DSN -> database.dsn.
const EnvPrefix = "OUTAGE_"

var defaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/outage-feed-etl/config.yaml",
}

// FeedConfig holds the feed URIs for one provider and area type. Date,
// Data, and Config may contain substitution tokens filled from earlier
// responses in the fetch sequence.
type FeedConfig struct {
	Metadata string `koanf:"metadata"`
	Date     string `koanf:"date"`
	Data     string `koanf:"data"`
	Config   string `koanf:"config"`
}

// BGEConfig is the SOAP endpoint and credentials; BGE is the only
// provider that does not use GET feeds.
type BGEConfig struct {
	PostURI    string `koanf:"post_uri"`
	SOAPAction string `koanf:"soap_action"`
	Username   string `koanf:"username"`
	Password   string `koanf:"password"`
}

type DatabaseConfig struct {
	DSN string `koanf:"dsn"`
}

type MemoryConfig struct {
	Dir string `koanf:"dir"`
}

type SocrataConfig struct {
	Enabled           bool   `koanf:"enabled"`
	Domain            string `koanf:"domain"`
	AppToken          string `koanf:"app_token"`
	Username          string `koanf:"username"`
	Password          string `koanf:"password"`
	CountyDataset     string `koanf:"county_dataset"`
	ZipDataset        string `koanf:"zip_dataset"`
	FeedStatusDataset string `koanf:"feed_status_dataset"`
	RetentionDays     int    `koanf:"retention_days"`
}

type KafkaConfig struct {
	Enabled bool     `koanf:"enabled"`
	Brokers []string `koanf:"brokers"`
	Topic   string   `koanf:"topic"`
}

type SMTPConfig struct {
	Enabled bool     `koanf:"enabled"`
	Host    string   `koanf:"host"`
	Port    int      `koanf:"port"`
	From    string   `koanf:"from"`
	To      []string `koanf:"to"`
}

// Config holds all service settings.
type Config struct {
	TargetState     string        `koanf:"target_state"`
	RunInterval     time.Duration `koanf:"run_interval"`
	RunOnce         bool          `koanf:"run_once"`
	HTTPAddr        string        `koanf:"http_addr"`
	LogLevel        string        `koanf:"log_level"`
	LogFormat       string        `koanf:"log_format"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	FetchTimeout    time.Duration `koanf:"fetch_timeout"`
	FetchWorkers    int           `koanf:"fetch_workers"`
	StatusFilePath  string        `koanf:"status_file_path"`

	Database DatabaseConfig        `koanf:"database"`
	Memory   MemoryConfig          `koanf:"memory"`
	BGE      BGEConfig             `koanf:"bge"`
	Feeds    map[string]FeedConfig `koanf:"feeds"`
	Socrata  SocrataConfig         `koanf:"socrata"`
	Kafka    KafkaConfig           `koanf:"kafka"`
	SMTP     SMTPConfig            `koanf:"smtp"`
}

func defaultConfig() *Config {
	return &Config{
		TargetState:     "Maryland",
		RunInterval:     5 * time.Minute,
		RunOnce:         false,
		HTTPAddr:        ":8080",
		LogLevel:        "info",
		LogFormat:       "json",
		ShutdownTimeout: 10 * time.Second,
		FetchTimeout:    30 * time.Second,
		FetchWorkers:    4,
		StatusFilePath:  "feed_status.json",
		Memory:          MemoryConfig{Dir: "customer-count-memory"},
		Socrata:         SocrataConfig{RetentionDays: 30},
		SMTP:            SMTPConfig{Port: 25},
	}
}

// Load builds the configuration from defaults, the config file if one is
// found, and environment variables, in increasing priority.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate configuration: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range defaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envTransform maps OUTAGE_DATABASE__DSN to database.dsn. Single
// underscores stay part of the key name.
func envTransform(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	s = strings.ToLower(s)
	return strings.ReplaceAll(s, "__", ".")
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.TargetState == "" {
		return errors.New("target_state is required")
	}
	if c.Database.DSN == "" {
		return errors.New("database.dsn is required")
	}
	if c.Memory.Dir == "" {
		return errors.New("memory.dir is required")
	}
	if c.FetchWorkers <= 0 {
		return errors.New("fetch_workers must be positive")
	}
	if c.FetchTimeout <= 0 {
		return errors.New("fetch_timeout must be positive")
	}
	if !c.RunOnce && c.RunInterval <= 0 {
		return errors.New("run_interval must be positive unless run_once is set")
	}
	if c.Socrata.Enabled {
		if c.Socrata.Domain == "" {
			return errors.New("socrata.domain is required when socrata is enabled")
		}
		if strings.Contains(c.Socrata.Domain, "://") {
			return errors.New("socrata.domain must be a bare host, not a URL")
		}
		if c.Socrata.CountyDataset == "" || c.Socrata.ZipDataset == "" || c.Socrata.FeedStatusDataset == "" {
			return errors.New("socrata dataset identifiers are required when socrata is enabled")
		}
		if c.Socrata.RetentionDays <= 0 {
			return errors.New("socrata.retention_days must be positive")
		}
	}
	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return errors.New("kafka.brokers is required when kafka is enabled")
		}
		if c.Kafka.Topic == "" {
			return errors.New("kafka.topic is required when kafka is enabled")
		}
	}
	if c.SMTP.Enabled {
		if c.SMTP.Host == "" || c.SMTP.From == "" || len(c.SMTP.To) == 0 {
			return errors.New("smtp.host, smtp.from, and smtp.to are required when smtp is enabled")
		}
	}
	return nil
}
