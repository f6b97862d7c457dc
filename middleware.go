package recache

import (
	"net/http"

	tee "github.com/recache-http/recache/pkg/response-tee"
)

// Middleware wraps an http.Handler with the cache. The next handler plays
// the role of the origin: it is only invoked when the decision engine
// forwards, and its responses are recorded so the cache can store them.
func (c *Cache) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		forward := func(req *http.Request) (*http.Response, error) {
			rec := tee.NewRecorder(nil)
			next.ServeHTTP(rec, req)
			return rec.Result(), nil
		}

		trace := &Trace{}
		entry, err := c.handle(trace, r, forward)
		c.flushTrace(trace, r)
		if err != nil {
			c.log.Error().Err(err).Msg("Could not get response")
			http.Error(w, "could not get response", http.StatusBadGateway)
			return
		}

		copyHeader(w.Header(), entry.Header)
		w.Header().Set("Cache-Status", statusFromTrace(trace).String())
		w.WriteHeader(entry.Status)
		if r.Method != http.MethodHead && len(entry.Body) > 0 {
			if _, err := w.Write(entry.Body); err != nil {
				c.log.Error().Err(err).Msg("Could not write response body to client")
			}
		}
	})
}

func copyHeader(dst, src http.Header) {
	for name, values := range src {
		for _, value := range values {
			dst.Add(name, value)
		}
	}
}
