// Package store defines the storage port backing cached entries, the entry
// type itself, and ready-made memory, SQLite, and LevelDB backends.
package store

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/recache-http/recache/rfc9111"
)

// Store is the key/value port the cache reads and writes entries through.
// Read must report a missing key as absent, never as an error.
//
// Implementations must be safe for concurrent use. Note that the cache
// performs no locking around its read-then-write sequence: two concurrent
// revalidations of the same key may race, and the last Write wins.
type Store interface {
	Read(key string) (*Entry, bool, error)
	Write(key string, entry *Entry) error
}

// Entry is a cached HTTP response. Entries are immutable once constructed;
// a stored entry is only ever replaced wholesale.
type Entry struct {
	Status int
	Header http.Header
	Body   []byte

	// LastModified and ETag are the entry's validators, copied out of the
	// response headers at construction. Empty means no validator available.
	LastModified string
	ETag         string

	// RequestedAt and ReceivedAt are the clock values around the origin
	// request that produced this entry. They anchor the age calculation.
	RequestedAt time.Time
	ReceivedAt  time.Time
}

// NewEntry constructs an entry from response data. The header is cloned and
// the validators are derived from it.
func NewEntry(status int, header http.Header, body []byte, requestedAt, receivedAt time.Time) *Entry {
	return &Entry{
		Status:       status,
		Header:       header.Clone(),
		Body:         body,
		LastModified: header.Get("Last-Modified"),
		ETag:         header.Get("Etag"),
		RequestedAt:  requestedAt,
		ReceivedAt:   receivedAt,
	}
}

// ReadEntry drains and closes the response body and wraps the response as
// an entry received now.
func ReadEntry(res *http.Response, requestedAt time.Time) (*Entry, error) {
	var body []byte
	if res.Body != nil {
		defer res.Body.Close()
		b, err := io.ReadAll(res.Body)
		if err != nil {
			return nil, fmt.Errorf("reading response body: %w", err)
		}
		body = b
	}
	return NewEntry(res.StatusCode, res.Header, body, requestedAt, time.Now()), nil
}

// Fresh reports whether the entry is still within its freshness lifetime.
func (e *Entry) Fresh() bool {
	return rfc9111.Fresh(e.Header, e.ReceivedAt)
}

// Cacheable reports whether the entry may be written to the store.
func (e *Entry) Cacheable() bool {
	return rfc9111.Cacheable(e.Status, e.Header)
}

// NotModified reports whether the entry wraps a 304 validation response.
func (e *Entry) NotModified() bool {
	return e.Status == http.StatusNotModified
}

// Refreshed returns a copy of the entry with its request timing reset and
// its stored header fields updated from a validation response, keeping the
// original status and body. Content-Length is excluded from the update
// since the 304 carries no content.
func (e *Entry) Refreshed(update http.Header, requestedAt, receivedAt time.Time) *Entry {
	header := e.Header.Clone()
	for name, values := range update {
		if name == "Content-Length" {
			continue
		}
		header[name] = values
	}
	return NewEntry(e.Status, header, e.Body, requestedAt, receivedAt)
}

// Response converts the entry back into an http.Response answering req.
func (e *Entry) Response(req *http.Request) *http.Response {
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", e.Status, http.StatusText(e.Status)),
		StatusCode:    e.Status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        e.Header.Clone(),
		Body:          io.NopCloser(bytes.NewReader(e.Body)),
		ContentLength: int64(len(e.Body)),
		Request:       req,
	}
}
