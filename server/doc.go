// Package server provides the HTTP server for the permission gateway: a Gin
// engine mounted on a ServeMux and served over h2c.
//
// Handler-level middleware (server/middleware) wraps every request:
//
//   - Recovery: panics become 500 INTERNAL_ERROR envelopes
//   - RequestID: UUID correlation ID in header and context
//   - CORS: origins allowed to call from the browser
//   - BodySizeLimit: cap on request bodies
//   - RequestLogger: one line per request with status and duration
//
// Auth is applied per route group. Endpoints (server/endpoint) cover
// /health, /info and /version.
//
//	srv := server.New(cfg.Server, log)
//	srv.ApplyMiddleware()
//	srv.RegisterDefaultEndpoints(...)
//	_ = srv.Start(ctx)
package server
