// Package cachekey derives stable storage identities for HTTP requests.
package cachekey

import (
	"net/http"
	"strings"
)

const (
	originSeparator = ":"
	methodSeparator = ":"
)

// Keyer turns requests into cache keys of the form
//
//	[origin:]METHOD:request-uri
//
// Two requests with the same method and URL always map to the same key;
// request headers never contribute to the key. The optional Origin
// identifier namespaces keys so that responses from many origins can share
// one store.
type Keyer struct {
	Origin string
}

// Key returns the cache key for a request.
func (k Keyer) Key(r *http.Request) string {
	key := r.Method + methodSeparator + r.URL.RequestURI()
	if k.Origin != "" {
		key = k.Origin + originSeparator + key
	}
	return key
}

// Prefix returns the key prefix addressing every entry of one method for
// this origin. Useful for store maintenance tooling.
func (k Keyer) Prefix(method string) string {
	prefix := method + methodSeparator
	if k.Origin != "" {
		prefix = k.Origin + originSeparator + prefix
	}
	return prefix
}

// Method extracts the request method back out of a key.
func (k Keyer) Method(key string) string {
	if k.Origin != "" {
		key = strings.TrimPrefix(key, k.Origin+originSeparator)
	}
	method, _, found := strings.Cut(key, methodSeparator)
	if !found {
		return ""
	}
	return method
}
