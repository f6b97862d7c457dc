package recache

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/recache-http/recache/store"

	"github.com/go-chi/chi/v5"
)

func TestMiddlewareReturnsResponse(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Hello world"))
	})
	req := httptest.NewRequest("GET", "/", nil)
	rr := httptest.NewRecorder()

	New(Config{Store: store.NewMemory()}).Middleware(handler).ServeHTTP(rr, req)

	if body, err := io.ReadAll(rr.Result().Body); err != nil || string(body) != "Hello world" {
		t.Fatalf("Body is %s", body)
	}
}

func TestMiddlewareServesSecondRequestFromCache(t *testing.T) {
	var handleCount int
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handleCount++
		w.Header().Set("Cache-Control", "max-age=60")
		w.Write([]byte("Hello world"))
	})
	rr := httptest.NewRecorder()
	mw := New(Config{Store: store.NewMemory()}).Middleware(handler)

	mw.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	mw.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

	if handleCount != 1 {
		t.Fatalf("Next handler called %d times", handleCount)
	}
	if body, err := io.ReadAll(rr.Result().Body); err != nil || string(body) != "Hello world" {
		t.Fatalf("Body is %s", body)
	}
	if cs := rr.Result().Header.Get("Cache-Status"); cs != "Recache; hit" {
		t.Fatalf("Cache-Status is %q", cs)
	}
}

func TestMiddlewareKeepsResponseHeaders(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "max-age=60")
		w.Header().Set("Content-Type", "text/test")
		w.Write([]byte("Hello world"))
	})
	rr := httptest.NewRecorder()
	mw := New(Config{Store: store.NewMemory()}).Middleware(handler)

	mw.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	mw.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

	if ct := rr.Result().Header.Get("Content-Type"); ct != "text/test" {
		t.Fatalf("Content-Type header is %s", ct)
	}
}

func TestMiddlewarePassesThroughPost(t *testing.T) {
	var handleCount int
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handleCount++
		w.Header().Set("Cache-Control", "max-age=60")
		w.Write([]byte(fmt.Sprintf("So you wanted to %s?", r.Method)))
	})
	mw := New(Config{Store: store.NewMemory()}).Middleware(handler)

	mw.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("POST", "/", nil))
	rr := httptest.NewRecorder()
	mw.ServeHTTP(rr, httptest.NewRequest("POST", "/", nil))

	if handleCount != 2 {
		t.Fatalf("Handler called %d times", handleCount)
	}
	if cs := rr.Result().Header.Get("Cache-Status"); cs != "Recache; fwd=method" {
		t.Fatalf("Cache-Status is %q", cs)
	}
}

func TestMiddlewareRevalidatesStaleEntry(t *testing.T) {
	mem := store.NewMemory()
	header := http.Header{}
	header.Set("Cache-Control", "max-age=60")
	header.Set("Etag", `"v1"`)
	at := time.Now().Add(-2 * time.Minute)
	mem.Write("GET:/widgets", store.NewEntry(http.StatusOK, header, []byte("stale widgets"), at, at))

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("If-None-Match") == `"v1"` {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		t.Fatalf("expected conditional request, got If-None-Match=%q", r.Header.Get("If-None-Match"))
	})
	rr := httptest.NewRecorder()
	mw := New(Config{Store: mem}).Middleware(handler)

	mw.ServeHTTP(rr, httptest.NewRequest("GET", "/widgets", nil))

	res := rr.Result()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status is %d", res.StatusCode)
	}
	if body, _ := io.ReadAll(res.Body); string(body) != "stale widgets" {
		t.Fatalf("body is %s", body)
	}
}

func TestMiddlewareHeadOmitsBody(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "max-age=60")
		w.Write([]byte("Hello world"))
	})
	rr := httptest.NewRecorder()
	mw := New(Config{Store: store.NewMemory()}).Middleware(handler)

	mw.ServeHTTP(rr, httptest.NewRequest("HEAD", "/", nil))

	if rr.Body.Len() != 0 {
		t.Fatalf("HEAD response has body %q", rr.Body.String())
	}
}

func TestChiMiddleware(t *testing.T) {
	var handleCount int
	r := chi.NewRouter()
	r.Get("/chi", func(w http.ResponseWriter, r *http.Request) {
		handleCount++
		w.Header().Set("Cache-Control", "max-age=60")
		w.Write([]byte("chi response"))
	})
	handler := New(Config{Store: store.NewMemory()}).Middleware(r)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/chi", nil))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/chi", nil))

	if handleCount != 1 {
		t.Fatalf("Handler called %d times", handleCount)
	}
	if rec.Result().StatusCode != http.StatusOK {
		t.Fatalf("Status code is %d", rec.Result().StatusCode)
	}
	if rec.Body.String() != "chi response" {
		t.Fatalf("body is %s", rec.Body.String())
	}
}
