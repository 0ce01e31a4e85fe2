package kafka

import (
	"fmt"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"
)

// NewWriter builds a kafka-go Writer for cfg. Messages must carry their
// topic.
func NewWriter(cfg *Config, errorLog func(msg string, args ...any)) (*kafkago.Writer, error) {
	transport, err := NewTransport(cfg)
	if err != nil {
		return nil, err
	}
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.Brokers...),
		Transport:    transport,
		Balancer:     &kafkago.Hash{},
		BatchSize:    cfg.BatchSize,
		BatchTimeout: ParseDuration(cfg.BatchTimeout),
		WriteTimeout: ParseDuration(cfg.WriteTimeout),
		RequiredAcks: kafkago.RequiredAcks(cfg.RequiredAcks),
		Compression:  ResolveCompression(cfg.Compression),
		Async:        cfg.Async,
	}
	if errorLog != nil {
		w.ErrorLogger = kafkago.LoggerFunc(errorLog)
	}
	return w, nil
}

// NewTransport builds a Transport with optional TLS and SASL.
func NewTransport(cfg *Config) (*kafkago.Transport, error) {
	transport := &kafkago.Transport{
		IdleTimeout: ParseDuration(cfg.IdleTimeout),
		MetadataTTL: ParseDuration(cfg.MetadataTTL),
	}
	tc, err := cfg.TLS.Build()
	if err != nil {
		return nil, fmt.Errorf("kafka TLS config: %w", err)
	}
	transport.TLS = tc
	if cfg.EnableSASL {
		m, err := saslMechanism(cfg)
		if err != nil {
			return nil, fmt.Errorf("kafka SASL config: %w", err)
		}
		transport.SASL = m
	}
	return transport, nil
}

func saslMechanism(cfg *Config) (sasl.Mechanism, error) {
	switch cfg.SASLMechanism {
	case "PLAIN":
		return plain.Mechanism{Username: cfg.Username, Password: cfg.Password}, nil
	case "SCRAM-SHA-256":
		return scram.Mechanism(scram.SHA256, cfg.Username, cfg.Password)
	case "SCRAM-SHA-512":
		return scram.Mechanism(scram.SHA512, cfg.Username, cfg.Password)
	default:
		return nil, fmt.Errorf("unsupported SASL mechanism: %s", cfg.SASLMechanism)
	}
}

// ResolveCompression maps a codec name to a kafka-go codec. "none" and
// unknown names disable compression.
func ResolveCompression(name string) kafkago.Compression {
	switch name {
	case "gzip":
		return kafkago.Gzip
	case "snappy":
		return kafkago.Snappy
	case "lz4":
		return kafkago.Lz4
	case "zstd":
		return kafkago.Zstd
	default:
		return 0
	}
}
