package kafka

import (
	"context"
	"errors"
	"strings"
)

var connectionPatterns = []string{
	"connection refused",
	"connection reset",
	"broken pipe",
	"i/o timeout",
	"no route to host",
	"network is unreachable",
	"broker not available",
	"leader not available",
	"connection closed",
	"dial tcp",
}

var transientPatterns = []string{
	"temporary",
	"request timed out",
	"not enough replicas",
}

// IsConnectionError reports whether err is a connection-level failure.
func IsConnectionError(err error) bool {
	return err != nil && containsAny(err.Error(), connectionPatterns)
}

// IsRetryableError reports whether a write that failed with err is worth
// another attempt. Context errors never are.
func IsRetryableError(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return IsConnectionError(err) || containsAny(err.Error(), transientPatterns)
}

func containsAny(s string, patterns []string) bool {
	s = strings.ToLower(s)
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
