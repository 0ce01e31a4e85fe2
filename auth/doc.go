// Package auth validates the session tokens the banking front-end sends.
//
// Subpackages:
//
//   - auth/jwt     generic JWT service (HMAC, RSA and ECDSA keys)
//   - auth/authctx request-scoped storage for claims and the raw bearer token
//
// The top-level package holds the TokenValidator contract consumed by the
// server middleware, the session claims type, and the composed Config:
//
//	auth:
//	  enabled: true
//	  jwt:
//	    method: RS256
//	    public_key_file: /etc/gateway/session.pub
//	    issuer: https://identity.example.com
package auth
