package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds everything the storefront engine needs at startup. Values come
// from an optional YAML file overridden by environment variables.
type Config struct {
	AppEnv   string `yaml:"app_env"`
	LogLevel string `yaml:"log_level"`
	HTTPPort int    `yaml:"http_port"`

	// Store selects the persistent store backend: memory, file, redis, mongo.
	StoreBackend string `yaml:"store_backend"`
	StorePath    string `yaml:"store_path"`

	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`

	MongoURI    string `yaml:"mongo_uri"`
	MongoDBName string `yaml:"mongo_db_name"`

	KafkaBrokers []string `yaml:"kafka_brokers"`
	KafkaTopic   string   `yaml:"kafka_topic"`

	Currency      string  `yaml:"currency"`
	TaxRate       float64 `yaml:"tax_rate"`
	FlatShipping  float64 `yaml:"flat_shipping"`
	NavBreakpoint int     `yaml:"nav_breakpoint"`

	SearchDebounce time.Duration `yaml:"search_debounce"`
	ResizeDebounce time.Duration `yaml:"resize_debounce"`
	SessionTTL     time.Duration `yaml:"session_ttl"`
}

func Default() Config {
	return Config{
		AppEnv:         "dev",
		LogLevel:       "info",
		HTTPPort:       8080,
		StoreBackend:   "file",
		StorePath:      "petshop_state.json",
		RedisAddr:      "localhost:6379",
		MongoURI:       "mongodb://localhost:27017",
		MongoDBName:    "petshopdb",
		KafkaTopic:     "storefront-events",
		Currency:       "PHP",
		TaxRate:        0.12,
		FlatShipping:   0,
		NavBreakpoint:  768,
		SearchDebounce: 300 * time.Millisecond,
		ResizeDebounce: 250 * time.Millisecond,
		SessionTTL:     30 * time.Minute,
	}
}

// Load builds the config from defaults, an optional YAML file named by
// PETSHOP_CONFIG, and environment overrides, in that order.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("PETSHOP_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return cfg, err
		}
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.AppEnv = getEnv("APP_ENV", c.AppEnv)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.HTTPPort = getEnvInt("HTTP_PORT", c.HTTPPort)
	c.StoreBackend = getEnv("STORE_BACKEND", c.StoreBackend)
	c.StorePath = getEnv("STORE_PATH", c.StorePath)
	c.RedisAddr = getEnv("REDIS_ADDR", c.RedisAddr)
	c.RedisPassword = getEnv("REDIS_PASSWORD", c.RedisPassword)
	c.MongoURI = getEnv("MONGO_URI", c.MongoURI)
	c.MongoDBName = getEnv("MONGO_DB_NAME", c.MongoDBName)
	c.KafkaTopic = getEnv("KAFKA_TOPIC", c.KafkaTopic)
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		c.KafkaBrokers = splitAndTrim(brokers)
	}
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case "memory", "file", "redis", "mongo":
	default:
		return fmt.Errorf("unknown store backend %q", c.StoreBackend)
	}
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid http port %d", c.HTTPPort)
	}
	if c.TaxRate < 0 {
		return fmt.Errorf("tax rate must not be negative")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
