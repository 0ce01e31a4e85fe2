// Package config loads service configuration.
//
// LoadConfig reads a YAML file (explicit, or found under cmd/<service>/),
// loads an optional .env file with godotenv, and overlays environment
// variables. A variable maps to a nested key by splitting on underscores:
// GATEWAY_UPSTREAM_URL sets gateway.upstream.url. With WithEnvPrefix only
// variables carrying the prefix are considered, and the prefix is stripped.
//
// # Usage
//
//	var cfg gateway.ServiceConfig
//	err := config.LoadConfig("permission-gateway", &cfg, config.WithEnvPrefix("ACCESSMATRIX"))
package config
