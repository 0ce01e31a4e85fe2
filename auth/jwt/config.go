package jwt

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// SigningMethod defines supported JWT signing algorithms.
type SigningMethod string

const (
	HS256 SigningMethod = "HS256"
	HS384 SigningMethod = "HS384"
	HS512 SigningMethod = "HS512"
	RS256 SigningMethod = "RS256"
	RS384 SigningMethod = "RS384"
	RS512 SigningMethod = "RS512"
	ES256 SigningMethod = "ES256"
	ES384 SigningMethod = "ES384"
	ES512 SigningMethod = "ES512"
)

var signingMethods = map[SigningMethod]gojwt.SigningMethod{
	HS256: gojwt.SigningMethodHS256,
	HS384: gojwt.SigningMethodHS384,
	HS512: gojwt.SigningMethodHS512,
	RS256: gojwt.SigningMethodRS256,
	RS384: gojwt.SigningMethodRS384,
	RS512: gojwt.SigningMethodRS512,
	ES256: gojwt.SigningMethodES256,
	ES384: gojwt.SigningMethodES384,
	ES512: gojwt.SigningMethodES512,
}

func (m SigningMethod) family() string {
	return string(m)[:2]
}

// Config configures the JWT token service. Keys are PEM encoded, given
// inline or as a file path.
type Config struct {
	Method         SigningMethod `mapstructure:"method" yaml:"method"`
	Secret         string        `mapstructure:"secret" yaml:"secret"`
	PublicKey      string        `mapstructure:"public_key" yaml:"public_key"`
	PublicKeyFile  string        `mapstructure:"public_key_file" yaml:"public_key_file"`
	PrivateKey     string        `mapstructure:"private_key" yaml:"private_key"`
	PrivateKeyFile string        `mapstructure:"private_key_file" yaml:"private_key_file"`
	Issuer         string        `mapstructure:"issuer" yaml:"issuer"`
	Audience       []string      `mapstructure:"audience" yaml:"audience"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl" yaml:"access_token_ttl"`
	Leeway         time.Duration `mapstructure:"leeway" yaml:"leeway"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Method == "" {
		c.Method = HS256
	}
	c.Method = SigningMethod(strings.ToUpper(string(c.Method)))
	if c.AccessTokenTTL == 0 {
		c.AccessTokenTTL = 15 * time.Minute
	}
}

// Validate checks that the method is supported and a key for it is configured.
func (c *Config) Validate() error {
	if _, ok := signingMethods[c.Method]; !ok {
		return fmt.Errorf("unsupported signing method %q", c.Method)
	}
	if c.Method.family() == "HS" {
		if c.Secret == "" {
			return errors.New("secret is required for HMAC signing methods")
		}
		return nil
	}
	if c.PublicKey == "" && c.PublicKeyFile == "" && c.PrivateKey == "" && c.PrivateKeyFile == "" {
		return fmt.Errorf("a public or private key is required for %s", c.Method)
	}
	return nil
}

// keys holds the parsed signing and verification keys.
type keys struct {
	sign   any
	verify any
}

func readPEM(inline, path string) ([]byte, error) {
	if inline != "" {
		return []byte(inline), nil
	}
	if path == "" {
		return nil, nil
	}
	return os.ReadFile(path)
}

// loadKeys parses the configured key material. A private key alone is
// enough for both directions.
func (c *Config) loadKeys() (keys, error) {
	if c.Method.family() == "HS" {
		secret := []byte(c.Secret)
		return keys{sign: secret, verify: secret}, nil
	}

	pub, err := readPEM(c.PublicKey, c.PublicKeyFile)
	if err != nil {
		return keys{}, fmt.Errorf("read public key: %w", err)
	}
	priv, err := readPEM(c.PrivateKey, c.PrivateKeyFile)
	if err != nil {
		return keys{}, fmt.Errorf("read private key: %w", err)
	}

	var k keys
	switch c.Method.family() {
	case "RS":
		if priv != nil {
			pk, err := gojwt.ParseRSAPrivateKeyFromPEM(priv)
			if err != nil {
				return keys{}, fmt.Errorf("parse RSA private key: %w", err)
			}
			k.sign, k.verify = pk, &pk.PublicKey
		}
		if pub != nil {
			pk, err := gojwt.ParseRSAPublicKeyFromPEM(pub)
			if err != nil {
				return keys{}, fmt.Errorf("parse RSA public key: %w", err)
			}
			k.verify = pk
		}
	case "ES":
		if priv != nil {
			pk, err := gojwt.ParseECPrivateKeyFromPEM(priv)
			if err != nil {
				return keys{}, fmt.Errorf("parse ECDSA private key: %w", err)
			}
			k.sign, k.verify = pk, &pk.PublicKey
		}
		if pub != nil {
			pk, err := gojwt.ParseECPublicKeyFromPEM(pub)
			if err != nil {
				return keys{}, fmt.Errorf("parse ECDSA public key: %w", err)
			}
			k.verify = pk
		}
	}
	return k, nil
}
