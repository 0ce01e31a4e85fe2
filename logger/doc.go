// Package logger provides structured logging over zerolog.
//
// Entries carry a service name, an optional component tag, and request
// correlation fields pulled from the context (request ID, trace and span IDs).
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("gateway")
//	log.Warn("permission denied", logger.Fields(logger.FieldPermission, "cancelCard"))
package logger
