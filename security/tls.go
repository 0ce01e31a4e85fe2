package security

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"

	"github.com/kbukum/accessmatrix/validation"
)

var tlsVersions = map[string]uint16{
	"1.2": tls.VersionTLS12,
	"1.3": tls.VersionTLS13,
}

// TLSConfig holds client TLS settings. Field names are prefixed with the
// owning section when validated, for example "kafka.tls.ca_file".
type TLSConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// SkipVerify disables server certificate verification.
	SkipVerify bool   `yaml:"skip_verify" mapstructure:"skip_verify"`
	CAFile     string `yaml:"ca_file" mapstructure:"ca_file"`
	CertFile   string `yaml:"cert_file" mapstructure:"cert_file"`
	KeyFile    string `yaml:"key_file" mapstructure:"key_file"`
	ServerName string `yaml:"server_name" mapstructure:"server_name"`
	// MinVersion is "1.2" (default) or "1.3".
	MinVersion string `yaml:"min_version" mapstructure:"min_version"`
}

// Build returns nil when TLS is disabled.
func (c *TLSConfig) Build() (*tls.Config, error) {
	if c == nil || !c.Enabled {
		return nil, nil
	}
	minVersion, ok := tlsVersions[c.MinVersion]
	if !ok {
		minVersion = tls.VersionTLS12
	}
	cfg := &tls.Config{
		InsecureSkipVerify: c.SkipVerify, //nolint:gosec
		ServerName:         c.ServerName,
		MinVersion:         minVersion,
	}
	if c.CAFile != "" {
		ca, err := os.ReadFile(c.CAFile)
		if err != nil {
			return nil, fmt.Errorf("tls: read CA file: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(ca) {
			return nil, fmt.Errorf("tls: no certificates in %s", c.CAFile)
		}
		cfg.RootCAs = pool
	}
	if c.CertFile != "" && c.KeyFile != "" {
		cert, err := tls.LoadX509KeyPair(c.CertFile, c.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("tls: load client certificate: %w", err)
		}
		cfg.Certificates = []tls.Certificate{cert}
	}
	return cfg, nil
}

// ValidateInto adds TLS problems to v under prefix.
func (c *TLSConfig) ValidateInto(v *validation.Validator, prefix string) {
	if c == nil || !c.Enabled {
		return
	}
	v.Custom((c.CertFile != "") == (c.KeyFile != ""), prefix+".cert_file", "cert_file and key_file must be set together")
	if c.MinVersion != "" {
		v.OneOf(prefix+".min_version", c.MinVersion, []string{"1.2", "1.3"})
	}
}
