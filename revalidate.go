package recache

import (
	"net/http"
	"time"

	"github.com/recache-http/recache/store"
)

// revalidate performs a conditional request against the origin using the
// stale entry's validators and reconciles the result with the store. The
// caller's request is never mutated; the conditional request is a clone.
func (c *Cache) revalidate(trace *Trace, key string, stale *store.Entry, req *http.Request, forward Forwarder) (*store.Entry, error) {
	cond := req.Clone(req.Context())
	c.setValidator(cond.Header, "If-Modified-Since", stale.LastModified)
	c.setValidator(cond.Header, "If-None-Match", stale.ETag)

	requestedAt := time.Now()
	res, err := forward(cond)
	if err != nil {
		return nil, err
	}
	candidate, err := store.ReadEntry(res, requestedAt)
	if err != nil {
		return nil, err
	}

	result := candidate
	if candidate.NotModified() {
		// The origin confirmed the stored body is still current. The 304
		// itself is discarded: the stale entry, with its header fields
		// updated and its timing reset, is what gets served and re-stored.
		// The caller always sees the cached body, never the empty 304.
		trace.Record(EventValid)
		result = stale.Refreshed(candidate.Header, candidate.RequestedAt, candidate.ReceivedAt)
	}
	if err := c.maybeStore(trace, key, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Cache) setValidator(header http.Header, name, value string) {
	if value == "" && !c.sendEmptyValidators {
		return
	}
	header.Set(name, value)
}
