// Package validation validates request bodies and configuration.
//
// Struct tag validation (go-playground/validator) is used for inbound DTOs;
// the chained Validator collects field errors for configuration checks where
// the rules depend on other values.
//
// # Struct Tag Validation
//
//	type CheckRequest struct {
//	    Permission string `json:"permission" validate:"required,max=128"`
//	}
//	err := validation.Validate(req)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Required("gateway.upstream.url", cfg.URL).URL("gateway.upstream.url", cfg.URL)
//	if appErr := v.Validate(); appErr != nil { ... }
package validation
