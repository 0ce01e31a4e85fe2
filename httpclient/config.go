package httpclient

import (
	"time"

	"github.com/kbukum/accessmatrix/resilience"
	"github.com/kbukum/accessmatrix/validation"
)

// Config configures a Client. Retry and CircuitBreaker are optional; nil
// leaves that layer out.
type Config struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	// Timeout bounds a single attempt. Defaults to 30s.
	Timeout time.Duration     `yaml:"timeout" mapstructure:"timeout"`
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`
	// Token is the default bearer credential. Requests usually carry the
	// caller's own token instead.
	Token string `yaml:"-" mapstructure:"-"`

	Retry          *resilience.RetryConfig          `yaml:"-" mapstructure:"-"`
	CircuitBreaker *resilience.CircuitBreakerConfig `yaml:"-" mapstructure:"-"`
}

func (c *Config) ApplyDefaults() {
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
}

func (c *Config) Validate() error {
	return validation.New().
		URL("httpclient.base_url", c.BaseURL).
		Positive("httpclient.timeout", c.Timeout).
		Err()
}

// DefaultRetryConfig retries only failures IsRetryable accepts.
func DefaultRetryConfig() *resilience.RetryConfig {
	cfg := resilience.DefaultRetryConfig()
	cfg.RetryIf = IsRetryable
	return &cfg
}

func DefaultCircuitBreakerConfig(name string) *resilience.CircuitBreakerConfig {
	cfg := resilience.DefaultCircuitBreakerConfig(name)
	return &cfg
}
