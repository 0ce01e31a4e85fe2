// Package observability wires OpenTelemetry tracing and metrics.
//
// Export is off unless enabled in configuration; with it off the global
// no-op providers make every span and instrument free, so callers never
// branch on whether telemetry is on.
//
//	shutdown, err := observability.Init(ctx, cfg.Observability, observability.Resource{
//	    ServiceName: cfg.Name, ServiceVersion: version.Version, Environment: cfg.Environment,
//	})
//	defer shutdown(context.Background())
//
//	ctx, span := observability.StartSpan(ctx, "permission.evaluate")
//	defer span.End()
//
// It also holds the health aggregation reported by /health.
package observability
