// Package config loads service settings and opens backend connections.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	BackendRedis = "redis"
	BackendNeo4j = "neo4j"
)

// Config is the full runtime configuration of the service.
type Config struct {
	Addr            string        `mapstructure:"addr"`
	APIKey          string        `mapstructure:"api_key"`
	Backend         string        `mapstructure:"backend"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes"`
	Redis           RedisConfig   `mapstructure:"redis"`
	Neo4j           Neo4jConfig   `mapstructure:"neo4j"`
	Log             LogConfig     `mapstructure:"log"`
}

type RedisConfig struct {
	Addr         string        `mapstructure:"addr"`
	URL          string        `mapstructure:"url"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type Neo4jConfig struct {
	URI      string `mapstructure:"uri"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

var ErrMissingAPIKey = errors.New("api_key must be set (FLOWY_API_KEY or API_KEY)")

// SetDefaults registers every known key on v. Keys without a default would
// be invisible to AutomaticEnv during Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("addr", ":8000")
	v.SetDefault("api_key", "")
	v.SetDefault("backend", BackendRedis)
	v.SetDefault("shutdown_timeout", 5*time.Second)
	v.SetDefault("max_body_bytes", int64(1<<20))

	v.SetDefault("redis.addr", "redis:6379")
	v.SetDefault("redis.url", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "")
	v.SetDefault("redis.dial_timeout", 5*time.Second)
	v.SetDefault("redis.read_timeout", 3*time.Second)
	v.SetDefault("redis.write_timeout", 3*time.Second)

	v.SetDefault("neo4j.uri", "neo4j://neo4j:7687")
	v.SetDefault("neo4j.username", "neo4j")
	v.SetDefault("neo4j.password", "")
	v.SetDefault("neo4j.database", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// NewViper returns a viper instance wired for FLOWY_* environment variables.
// API_KEY is also accepted for compatibility with older deployments.
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix("FLOWY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("api_key", "FLOWY_API_KEY", "API_KEY")
	return v
}

// Load reads the optional config file and decodes v into a validated Config.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings that cannot be defaulted.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	switch c.Backend {
	case BackendRedis, BackendNeo4j:
	default:
		return fmt.Errorf("unknown backend %q (want %q or %q)", c.Backend, BackendRedis, BackendNeo4j)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("max_body_bytes must be positive, got %d", c.MaxBodyBytes)
	}
	return nil
}
