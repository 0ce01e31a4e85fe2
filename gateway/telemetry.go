package gateway

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/accessmatrix/observability"
	"github.com/kbukum/accessmatrix/permission"
	"github.com/kbukum/accessmatrix/snapshot"
)

const instrumentationName = "github.com/kbukum/accessmatrix/gateway"

// Evaluator wraps a permission.Evaluator with a span per evaluation and the
// permission.evaluations and permission.denials counters.
type Evaluator struct {
	ev          *permission.Evaluator
	tracer      trace.Tracer
	evaluations metric.Int64Counter
	denials     metric.Int64Counter
}

// NewEvaluator instruments ev with meter and tracer.
func NewEvaluator(ev *permission.Evaluator, meter metric.Meter, tracer trace.Tracer) (*Evaluator, error) {
	evaluations, err := meter.Int64Counter("permission.evaluations",
		metric.WithDescription("Permission evaluations by kind and profile"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating permission.evaluations counter: %w", err)
	}
	denials, err := meter.Int64Counter("permission.denials",
		metric.WithDescription("Single-permission checks that were denied"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating permission.denials counter: %w", err)
	}
	return &Evaluator{ev: ev, tracer: tracer, evaluations: evaluations, denials: denials}, nil
}

// NewDefaultEvaluator instruments the canonical evaluator with the global
// providers.
func NewDefaultEvaluator() (*Evaluator, error) {
	return NewEvaluator(permission.Default(),
		observability.Meter(instrumentationName),
		observability.Tracer(instrumentationName))
}

// Table returns the rule table.
func (e *Evaluator) Table() *permission.Table { return e.ev.Table() }

// Matrix evaluates every key against s.
func (e *Evaluator) Matrix(ctx context.Context, profile string, s *snapshot.Snapshot) permission.Matrix {
	_, span := e.tracer.Start(ctx, "permission.evaluate",
		trace.WithAttributes(observability.AttrProfile.String(profile)))
	defer span.End()

	m := e.ev.Evaluate(s)
	span.SetAttributes(attribute.Int("permission.granted_count", len(m.Granted())))
	e.evaluations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", "matrix"),
		observability.AttrProfile.String(profile),
	))
	return m
}

// Authorize decides the permission exposed as name by p.
func (e *Evaluator) Authorize(ctx context.Context, p permission.Profile, s *snapshot.Snapshot, name string) bool {
	_, span := e.tracer.Start(ctx, "permission.evaluate", trace.WithAttributes(
		observability.AttrProfile.String(p.Name),
		observability.AttrPermission.String(name),
	))
	defer span.End()

	granted := p.Authorize(e.ev, s, name)
	span.SetAttributes(observability.AttrGranted.Bool(granted))

	attrs := metric.WithAttributes(
		attribute.String("kind", "check"),
		observability.AttrProfile.String(p.Name),
		observability.AttrPermission.String(name),
	)
	e.evaluations.Add(ctx, 1, attrs)
	if !granted {
		e.denials.Add(ctx, 1, attrs)
	}
	return granted
}
