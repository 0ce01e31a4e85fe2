package redis

import (
	"time"

	"github.com/kbukum/accessmatrix/security"
	"github.com/kbukum/accessmatrix/validation"
)

// Config holds Redis connection configuration.
type Config struct {
	// Enabled controls whether a client is created at all.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`

	// Addr is the Redis server address (host:port).
	Addr string `yaml:"addr" mapstructure:"addr"`

	Password string `yaml:"password" mapstructure:"password"`
	DB       int    `yaml:"db" mapstructure:"db"`

	// PoolSize is the maximum number of socket connections.
	PoolSize     int `yaml:"pool_size" mapstructure:"pool_size"`
	MinIdleConns int `yaml:"min_idle_conns" mapstructure:"min_idle_conns"`
	MaxRetries   int `yaml:"max_retries" mapstructure:"max_retries"`

	// Durations are strings such as "5s" or "250ms".
	DialTimeout  string `yaml:"dial_timeout" mapstructure:"dial_timeout"`
	ReadTimeout  string `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout string `yaml:"write_timeout" mapstructure:"write_timeout"`

	TLS security.TLSConfig `yaml:"tls" mapstructure:"tls"`
}

// ApplyDefaults sets defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Addr == "" {
		c.Addr = "localhost:6379"
	}
	if c.PoolSize <= 0 {
		c.PoolSize = 10
	}
	if c.MinIdleConns <= 0 {
		c.MinIdleConns = 2
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.DialTimeout == "" {
		c.DialTimeout = "5s"
	}
	if c.ReadTimeout == "" {
		c.ReadTimeout = "500ms"
	}
	if c.WriteTimeout == "" {
		c.WriteTimeout = "500ms"
	}
}

// Validate checks the configuration when Redis is enabled.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	v := validation.New().
		Required("redis.addr", c.Addr).
		Min("redis.pool_size", c.PoolSize, 1).
		Range("redis.db", c.DB, 0, 15).
		Duration("redis.dial_timeout", c.DialTimeout).
		Duration("redis.read_timeout", c.ReadTimeout).
		Duration("redis.write_timeout", c.WriteTimeout)
	c.TLS.ValidateInto(v, "redis.tls")
	return v.Err()
}

// duration parses s, returning 0 when it is empty or malformed.
func duration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
