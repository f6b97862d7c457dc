// Package rfc9111 implements the subset of HTTP caching semantics (RFC 9111)
// that the cache needs as boolean predicates: freshness of a stored response
// and cacheability of a candidate response.
package rfc9111

import (
	"strings"
	"time"
)

// CacheControl holds the parsed directives of one or more Cache-Control
// header fields. Directive names are compared case-insensitively and
// arguments may use token or quoted-string syntax.
type CacheControl struct {
	directives map[string]string
}

func (c CacheControl) Get(directive string) (string, bool) {
	val, ok := c.directives[directive]
	return val, ok
}

func (c CacheControl) Has(directive string) bool {
	_, ok := c.Get(directive)
	return ok
}

// Duration returns the value of a delta-seconds directive such as max-age.
// Invalid arguments count as absent, which per §4.2.1 makes the response
// effectively stale.
func (c CacheControl) Duration(directive string) (time.Duration, bool) {
	val, ok := c.Get(directive)
	if !ok {
		return 0, false
	}
	d, err := time.ParseDuration(val + "s")
	if err != nil || d < 0 {
		return 0, false
	}
	return d, true
}

// ParseCacheControl parses all Cache-Control header lines of a message.
// The last occurrence of a repeated directive wins.
func ParseCacheControl(headers []string) CacheControl {
	m := make(map[string]string)
	for _, header := range headers {
		for _, directive := range strings.Split(header, ",") {
			directive = strings.TrimSpace(directive)
			if directive == "" {
				continue
			}
			parts := strings.SplitN(directive, "=", 2)
			name := strings.ToLower(parts[0])
			var arg string
			if len(parts) > 1 {
				arg = strings.Trim(parts[1], "\"")
			}
			m[name] = arg
		}
	}
	return CacheControl{m}
}
