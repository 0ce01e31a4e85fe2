// Package producer publishes events to Kafka through a kafka-go Writer.
package producer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/kbukum/accessmatrix/kafka"
	"github.com/kbukum/accessmatrix/logger"
	"github.com/kbukum/accessmatrix/resilience"
	"github.com/kbukum/accessmatrix/util"
)

// ErrClosed is returned by writes after Close.
var ErrClosed = errors.New("kafka producer is closed")

// messageWriter is the part of *kafkago.Writer the producer uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Stats() kafkago.WriterStats
	Close() error
}

// Producer writes messages with retries. The writer is created on first
// use, so a broker that is down at startup does not stop the service.
type Producer struct {
	cfg    kafka.Config
	log    *logger.Logger
	mu     sync.RWMutex
	writer messageWriter
	closed bool
}

// New validates cfg and returns a lazily connected producer.
func New(cfg kafka.Config, log *logger.Logger) (*Producer, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("kafka producer config: %w", err)
	}
	if !cfg.Enabled {
		return nil, fmt.Errorf("kafka is disabled")
	}
	return &Producer{cfg: cfg, log: log.WithComponent("kafka.producer")}, nil
}

func (p *Producer) ensureWriter() (messageWriter, error) {
	p.mu.RLock()
	w, closed := p.writer, p.closed
	p.mu.RUnlock()
	if closed {
		return nil, ErrClosed
	}
	if w != nil {
		return w, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, ErrClosed
	}
	if p.writer != nil {
		return p.writer, nil
	}
	kw, err := kafka.NewWriter(&p.cfg, func(msg string, args ...any) {
		p.log.Error("writer: " + fmt.Sprintf(msg, args...))
	})
	if err != nil {
		return nil, err
	}
	if p.cfg.Async {
		kw.Completion = p.logFailures
	}
	p.writer = kw
	fields := logger.Fields(
		"brokers", p.cfg.Brokers,
		"compression", p.cfg.Compression,
		"async", p.cfg.Async,
		"tls", p.cfg.TLS.Enabled,
	)
	if p.cfg.EnableSASL {
		fields["sasl"] = p.cfg.SASLMechanism
		fields["sasl_user"] = util.MaskSecret(p.cfg.Username, 3)
	}
	p.log.Info("Kafka producer initialized", fields)
	return kw, nil
}

func (p *Producer) logFailures(msgs []kafkago.Message, err error) {
	if err == nil {
		return
	}
	p.log.Warn("Async write failed", logger.Fields(
		"messages", len(msgs),
		logger.FieldError, err.Error(),
	))
}

// WriteMessages sends msgs, retrying transient broker errors.
func (p *Producer) WriteMessages(ctx context.Context, msgs ...kafkago.Message) error {
	w, err := p.ensureWriter()
	if err != nil {
		return err
	}
	cfg := resilience.DefaultRetryConfig()
	cfg.MaxAttempts = p.cfg.Retries
	cfg.RetryIf = kafka.IsRetryableError
	cfg.OnRetry = func(attempt int, err error, backoff time.Duration) {
		p.log.Debug("Retrying kafka write", logger.Fields(
			"attempt", attempt,
			logger.FieldError, err.Error(),
		))
	}
	_, err = resilience.Retry(ctx, cfg, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, w.WriteMessages(ctx, msgs...)
	})
	if err != nil {
		return fmt.Errorf("kafka write: %w", err)
	}
	return nil
}

// Stats returns writer statistics.
func (p *Producer) Stats() kafkago.WriterStats {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.writer == nil {
		return kafkago.WriterStats{}
	}
	return p.writer.Stats()
}

// Close flushes pending messages and shuts the writer down. Safe to call
// more than once.
func (p *Producer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	if p.writer == nil {
		return nil
	}
	p.log.Info("Kafka producer closing")
	return p.writer.Close()
}
