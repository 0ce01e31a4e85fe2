// Package middleware holds the HTTP middleware applied by the server.
//
// Request-scoped concerns that do not need gin (Recovery, RequestID, CORS,
// BodySizeLimit, RequestLogger) are plain Middleware and are chained around
// the whole handler. Auth and Metrics are gin.HandlerFuncs: Auth because
// routes opt into it per group, Metrics because it labels requests by the
// matched route pattern.
package middleware
