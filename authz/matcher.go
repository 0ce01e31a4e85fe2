package authz

import "strings"

// MatchPattern checks if a key pattern matches a permission key.
// "*" matches any run of characters, including none:
//
//   - "*"        matches everything
//   - "read*"    matches "readCard", "readTransaction", etc.
//   - "*Card"    matches "readCard", "addCard", etc.
//   - "add*Card" matches "addCard" only when the key starts with "add" and ends with "Card"
//   - "readCard" matches only "readCard"
func MatchPattern(pattern, key string) bool {
	if pattern == key || pattern == "*" {
		return true
	}
	if !strings.Contains(pattern, "*") {
		return false
	}

	parts := strings.Split(pattern, "*")

	// Anchored prefix
	if !strings.HasPrefix(key, parts[0]) {
		return false
	}
	rest := key[len(parts[0]):]

	// Floating middle segments, matched leftmost-first
	for _, mid := range parts[1 : len(parts)-1] {
		idx := strings.Index(rest, mid)
		if idx < 0 {
			return false
		}
		rest = rest[idx+len(mid):]
	}

	// Anchored suffix
	return strings.HasSuffix(rest, parts[len(parts)-1])
}

// MatchAny returns true if any of the patterns match the key.
func MatchAny(patterns []string, key string) bool {
	for _, p := range patterns {
		if MatchPattern(p, key) {
			return true
		}
	}
	return false
}
