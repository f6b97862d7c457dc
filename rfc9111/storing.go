package rfc9111

import "net/http"

// Cacheable reports whether a response may be stored per §3. It is the
// inverse of the section's MUST NOT store conditions, restricted to the
// response side: a final status code, an understood status code where
// understanding is required, no prohibiting directives, and at least one
// directive or header that permits storage.
func Cacheable(statusCode int, header http.Header) bool {
	cc := ParseCacheControl(header.Values("Cache-Control"))
	if !statusCodeIsFinal(statusCode) {
		return false
	}
	// 206 and 304 (and anything carrying must-understand) require the cache
	// to understand the status code's caching behavior. Only 200 qualifies.
	if statusCode == http.StatusPartialContent ||
		statusCode == http.StatusNotModified ||
		cc.Has("must-understand") {
		if !statusCodeIsUnderstood(statusCode) {
			return false
		}
	}
	if cc.Has("no-store") || cc.Has("private") {
		return false
	}
	return cc.Has("public") ||
		cc.Has("max-age") ||
		cc.Has("s-maxage") ||
		header.Get("Expires") != ""
}

func statusCodeIsUnderstood(statusCode int) bool {
	return statusCode == http.StatusOK
}

func statusCodeIsFinal(statusCode int) bool {
	return statusCode >= 200 && statusCode <= 599
}
