// Package recache is a client-side HTTP response cache. It sits between an
// HTTP client and its transport and decides, for every outbound request,
// whether to serve a stored response, revalidate a stale one with the
// origin, or forward the request and store the result.
//
// The cache itself only runs the decision state machine. HTTP freshness and
// cacheability semantics live in the rfc9111 package, storage behind the
// store.Store port, and the actual network call behind a Forwarder.
package recache

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	cachekey "github.com/recache-http/recache/pkg/cache-key"
	"github.com/recache-http/recache/store"

	"github.com/rs/zerolog"
)

// Forwarder performs a request against the next layer (a transport, a
// handler, an origin) and returns the raw response. Failures propagate to
// the cache's caller unmodified; the cache never retries and never falls
// back to a stale entry.
type Forwarder func(*http.Request) (*http.Response, error)

// ErrUnexpectedNotModified reports a collaborator contract violation: the
// origin answered an unconditional request with 304 Not Modified, so there
// is no stored body to substitute.
var ErrUnexpectedNotModified = errors.New("origin returned 304 but no entry is stored")

type Config struct {
	// Store for cache entries. Required.
	Store store.Store
	// Keyer derives storage keys from requests. The zero value is fine for
	// a cache serving a single origin.
	Keyer cachekey.Keyer
	// Logger to use. A disabled logger is used if nil.
	Logger *zerolog.Logger
	// Trace receives one rendered decision trace line per request.
	// Optional; nil disables trace output.
	Trace Sink
	// SendEmptyValidators sends If-Modified-Since and If-None-Match on
	// revalidation even when the stored entry lacks the corresponding
	// validator. By default absent validators omit their header entirely;
	// some servers treat an empty precondition differently from a missing
	// one, so both behaviors are available.
	SendEmptyValidators bool
}

// Cache is the decision engine. It holds no per-request state; a single
// Cache may be used from any number of goroutines. The store is the only
// shared mutable resource, and the cache performs no locking around its
// read-then-write sequence: concurrent revalidations of one key may race,
// and the last write wins.
type Cache struct {
	store               store.Store
	keyer               cachekey.Keyer
	log                 zerolog.Logger
	trace               Sink
	sendEmptyValidators bool
}

// New creates a Cache from the given configuration.
func New(config Config) *Cache {
	logger := zerolog.Nop()
	if config.Logger != nil {
		logger = *config.Logger
	}
	return &Cache{
		store:               config.Store,
		keyer:               config.Keyer,
		log:                 logger,
		trace:               config.Trace,
		sendEmptyValidators: config.SendEmptyValidators,
	}
}

// Handle runs one request through the cache. The returned entry carries the
// response to serve regardless of which path produced it. The decision
// trace is flushed exactly once per call, also when an error cuts the
// pipeline short.
func (c *Cache) Handle(req *http.Request, forward Forwarder) (*store.Entry, error) {
	trace := &Trace{}
	defer c.flushTrace(trace, req)
	return c.handle(trace, req, forward)
}

func (c *Cache) handle(trace *Trace, req *http.Request, forward Forwarder) (*store.Entry, error) {
	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		trace.Record(EventUnacceptable)
		requestedAt := time.Now()
		res, err := forward(req)
		if err != nil {
			return nil, err
		}
		return store.ReadEntry(res, requestedAt)
	}

	key := c.keyer.Key(req)
	stored, ok, err := c.store.Read(key)
	if err != nil {
		return nil, err
	}

	switch {
	case !ok:
		c.log.Trace().Str("key", key).Msg("Cache miss")
		requestedAt := time.Now()
		res, err := forward(req)
		if err != nil {
			return nil, err
		}
		candidate, err := store.ReadEntry(res, requestedAt)
		if err != nil {
			return nil, err
		}
		trace.Record(EventMiss)
		if candidate.NotModified() {
			return nil, ErrUnexpectedNotModified
		}
		if err := c.maybeStore(trace, key, candidate); err != nil {
			return nil, err
		}
		return candidate, nil
	case stored.Fresh():
		c.log.Trace().Str("key", key).Msg("Cache hit")
		trace.Record(EventFresh)
		return stored, nil
	default:
		c.log.Trace().Str("key", key).Msg("Stale entry, revalidating")
		return c.revalidate(trace, key, stored, req, forward)
	}
}

// maybeStore applies the store policy to the chosen response. It runs
// exactly once per terminal path: miss, revalidated, and revalidated-same.
// A non-cacheable result leaves the store untouched; a previously stored
// entry stays in place until a later lookup finds it stale.
func (c *Cache) maybeStore(trace *Trace, key string, candidate *store.Entry) error {
	if !candidate.Cacheable() {
		trace.Record(EventInvalid)
		return nil
	}
	trace.Record(EventStore)
	c.log.Trace().Str("key", key).Msg("Writing to cache")
	return c.store.Write(key, candidate)
}

func (c *Cache) flushTrace(trace *Trace, req *http.Request) {
	if c.trace == nil {
		return
	}
	c.trace.Log(fmt.Sprintf("%s %s %s", strings.ToUpper(req.Method), req.URL.Path, trace))
}
