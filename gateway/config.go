package gateway

import (
	"fmt"
	"time"

	"github.com/kbukum/accessmatrix/auth"
	"github.com/kbukum/accessmatrix/config"
	"github.com/kbukum/accessmatrix/encryption"
	"github.com/kbukum/accessmatrix/kafka"
	"github.com/kbukum/accessmatrix/observability"
	"github.com/kbukum/accessmatrix/permission"
	"github.com/kbukum/accessmatrix/redis"
	"github.com/kbukum/accessmatrix/server"
	"github.com/kbukum/accessmatrix/validation"
)

// UpstreamConfig describes the GraphQL API snapshots are loaded from.
type UpstreamConfig struct {
	URL             string        `yaml:"url" mapstructure:"url"`
	Timeout         time.Duration `yaml:"timeout" mapstructure:"timeout"`
	RetryAttempts   int           `yaml:"retry_attempts" mapstructure:"retry_attempts"`
	RetryBackoff    time.Duration `yaml:"retry_backoff" mapstructure:"retry_backoff"`
	BreakerFailures int           `yaml:"breaker_failures" mapstructure:"breaker_failures"`
	BreakerTimeout  time.Duration `yaml:"breaker_timeout" mapstructure:"breaker_timeout"`
}

// GateConfig configures the mutation gate in front of the GraphQL endpoint.
type GateConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
	Profile string `yaml:"profile" mapstructure:"profile"`
}

// CacheConfig configures the Redis snapshot cache in front of the upstream.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL       time.Duration `yaml:"ttl" mapstructure:"ttl"`
	KeyPrefix string        `yaml:"key_prefix" mapstructure:"key_prefix"`
	// EncryptionKey seals cached snapshots when set.
	EncryptionKey string `yaml:"encryption_key" mapstructure:"encryption_key"`
	Cipher        string `yaml:"cipher" mapstructure:"cipher"`
}

// NewCipher returns the configured cipher, or nil when snapshots are cached
// in the clear.
func (c CacheConfig) NewCipher() (encryption.Cipher, error) {
	if c.EncryptionKey == "" {
		return nil, nil
	}
	return encryption.New(c.EncryptionKey, encryption.WithAlgorithm(encryption.Algorithm(c.Cipher)))
}

// AuditConfig configures publishing of gate decisions to Kafka.
type AuditConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Topic   string `yaml:"topic" mapstructure:"topic"`
	// DeniedOnly skips granted decisions.
	DeniedOnly bool `yaml:"denied_only" mapstructure:"denied_only"`
}

// Config configures the gateway.
type Config struct {
	Upstream UpstreamConfig `yaml:"upstream" mapstructure:"upstream"`
	Gate     GateConfig     `yaml:"gate" mapstructure:"gate"`
	Cache    CacheConfig    `yaml:"cache" mapstructure:"cache"`
	Audit    AuditConfig    `yaml:"audit" mapstructure:"audit"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Upstream.Timeout == 0 {
		c.Upstream.Timeout = 5 * time.Second
	}
	if c.Upstream.RetryAttempts == 0 {
		c.Upstream.RetryAttempts = 3
	}
	if c.Upstream.RetryBackoff == 0 {
		c.Upstream.RetryBackoff = 100 * time.Millisecond
	}
	if c.Upstream.BreakerFailures == 0 {
		c.Upstream.BreakerFailures = 5
	}
	if c.Upstream.BreakerTimeout == 0 {
		c.Upstream.BreakerTimeout = 30 * time.Second
	}
	if c.Gate.Path == "" {
		c.Gate.Path = "/graphql"
	}
	if c.Gate.Profile == "" {
		c.Gate.Profile = permission.ProfileServer
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 30 * time.Second
	}
	if c.Cache.KeyPrefix == "" {
		c.Cache.KeyPrefix = "accessmatrix:snapshot"
	}
	if c.Cache.Cipher == "" {
		c.Cache.Cipher = string(encryption.AlgorithmAESGCM)
	}
	if c.Audit.Topic == "" {
		c.Audit.Topic = "permission.decisions"
	}
}

// Validate checks the configuration. The upstream is only required when the
// gate needs it.
func (c *Config) Validate() error {
	v := validation.New().
		Min("gateway.upstream.retry_attempts", c.Upstream.RetryAttempts, 1).
		Min("gateway.upstream.breaker_failures", c.Upstream.BreakerFailures, 1).
		Positive("gateway.upstream.timeout", c.Upstream.Timeout).
		Positive("gateway.cache.ttl", c.Cache.TTL).
		OneOf("gateway.cache.cipher", c.Cache.Cipher, encryption.Algorithms())
	if c.Audit.Enabled {
		v.Required("gateway.audit.topic", c.Audit.Topic)
	}
	if c.Gate.Enabled {
		v.Required("gateway.upstream.url", c.Upstream.URL).
			Required("gateway.gate.profile", c.Gate.Profile)
	}
	if c.Upstream.URL != "" {
		v.URL("gateway.upstream.url", c.Upstream.URL)
	}
	return v.Err()
}

// PermissionsConfig holds profile overrides. Configured profiles replace the
// built-in profile of the same name.
type PermissionsConfig struct {
	Profiles []permission.ProfileConfig `yaml:"profiles" mapstructure:"profiles"`
}

// ServiceConfig is the complete configuration of the permission gateway.
type ServiceConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Server               server.Config        `yaml:"server" mapstructure:"server"`
	Auth                 auth.Config          `yaml:"auth" mapstructure:"auth"`
	Observability        observability.Config `yaml:"observability" mapstructure:"observability"`
	Gateway              Config               `yaml:"gateway" mapstructure:"gateway"`
	Permissions          PermissionsConfig    `yaml:"permissions" mapstructure:"permissions"`
	Redis                redis.Config         `yaml:"redis" mapstructure:"redis"`
	Kafka                kafka.Config         `yaml:"kafka" mapstructure:"kafka"`
}

// ApplyDefaults applies defaults to every section.
func (c *ServiceConfig) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Auth.ApplyDefaults()
	c.Observability.ApplyDefaults()
	c.Gateway.ApplyDefaults()
	c.Redis.ApplyDefaults()
	c.Kafka.ApplyDefaults()
}

// Validate validates every section.
func (c *ServiceConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	if err := c.Observability.Validate(); err != nil {
		return err
	}
	if err := c.Gateway.Validate(); err != nil {
		return err
	}
	if err := c.Redis.Validate(); err != nil {
		return err
	}
	if err := c.Kafka.Validate(); err != nil {
		return err
	}
	switch {
	case c.Gateway.Gate.Enabled && !c.Auth.Enabled:
		return fmt.Errorf("gateway.gate requires auth to be enabled")
	case c.Gateway.Cache.Enabled && !c.Redis.Enabled:
		return fmt.Errorf("gateway.cache requires redis to be enabled")
	case c.Gateway.Audit.Enabled && !c.Kafka.Enabled:
		return fmt.Errorf("gateway.audit requires kafka to be enabled")
	}
	return nil
}
