package urlutil

import (
	"net/url"
	"regexp"
	"strings"
)

var schemePattern = regexp.MustCompile(`(?i)^https?://`)

// IsAnalysable reports whether raw is acceptable as an article URL.
//
// The check is deliberately shallow:
//   - raw must be non-empty after trimming whitespace
//   - raw itself (untrimmed) must start with http:// or https://, case-insensitive
//
// Anything stricter is the analysis service's business.
func IsAnalysable(raw string) bool {
	if strings.TrimSpace(raw) == "" {
		return false
	}
	return schemePattern.MatchString(raw)
}

// HostKey returns the lowercased host[:port] of raw, or raw itself when it
// does not parse as an absolute URL. It is used to bucket outbound requests
// by destination.
func HostKey(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return raw
	}
	return lowerASCII(parsed.Host)
}

// JoinPath appends a path to a base URL string, collapsing duplicate
// slashes at the seam and preserving a trailing slash on path.
func JoinPath(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

// lowerASCII converts ASCII characters to lowercase without allocating.
// This is faster than strings.ToLower for ASCII-only strings.
func lowerASCII(s string) string {
	var needsLower bool
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			needsLower = true
			break
		}
	}
	if !needsLower {
		return s
	}
	b := make([]byte, len(s))
	copy(b, s)
	for i := 0; i < len(b); i++ {
		if b[i] >= 'A' && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}
