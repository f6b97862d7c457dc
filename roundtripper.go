package recache

import "net/http"

// RoundTripper returns an http.RoundTripper that consults the cache before
// delegating to next. A nil next means http.DefaultTransport. Plugging the
// result into an http.Client gives transparent client-side caching.
func (c *Cache) RoundTripper(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &roundTripper{cache: c, next: next}
}

type roundTripper struct {
	cache *Cache
	next  http.RoundTripper
}

func (t *roundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	trace := &Trace{}
	entry, err := t.cache.handle(trace, req, t.next.RoundTrip)
	t.cache.flushTrace(trace, req)
	if err != nil {
		return nil, err
	}
	res := entry.Response(req)
	res.Header.Set("Cache-Status", statusFromTrace(trace).String())
	return res, nil
}
