package logger

import "github.com/kbukum/accessmatrix/validation"

// Config contains logging configuration.
type Config struct {
	Level   string `yaml:"level" mapstructure:"level"`
	Format  string `yaml:"format" mapstructure:"format"`
	Output  string `yaml:"output" mapstructure:"output"`
	NoColor bool   `yaml:"no_color" mapstructure:"no_color"`
	Caller  bool   `yaml:"caller" mapstructure:"caller"`

	// ServiceName is stamped on every entry. Filled from the service config.
	ServiceName string `yaml:"-" mapstructure:"-"`
}

// ApplyDefaults applies default values to logging configuration.
func (c *Config) ApplyDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = FormatConsole
	}
	if c.Output == "" {
		c.Output = "stdout"
	}
}

// Validate validates logging configuration.
func (c *Config) Validate() error {
	return validation.New().
		OneOf("logging.level", c.Level, []string{"trace", "debug", "info", "warn", "error", "fatal"}).
		OneOf("logging.format", c.Format, []string{FormatJSON, FormatConsole, FormatPretty}).
		OneOf("logging.output", c.Output, []string{"stdout", "stderr"}).
		Err()
}
