// Package tee records responses written through an http.ResponseWriter so
// they can be handed to the cache, optionally teeing the writes to an
// underlying writer.
package tee

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
)

// Recorder is an http.ResponseWriter that captures status, headers, and
// body. If constructed with a non-nil underlying writer, everything is
// written through to it as well.
type Recorder struct {
	rw          http.ResponseWriter
	body        *bytes.Buffer
	header      http.Header
	status      int
	wroteHeader bool
}

// NewRecorder returns a new Recorder. A nil w records without forwarding.
func NewRecorder(w http.ResponseWriter) *Recorder {
	r := &Recorder{
		rw:   w,
		body: &bytes.Buffer{},
	}
	if w == nil {
		r.header = http.Header{}
	} else {
		r.header = w.Header()
	}
	return r
}

func (r *Recorder) Header() http.Header {
	return r.header
}

func (r *Recorder) WriteHeader(statusCode int) {
	if r.wroteHeader {
		return
	}
	r.wroteHeader = true
	r.status = statusCode
	if r.rw != nil {
		r.rw.WriteHeader(statusCode)
	}
}

func (r *Recorder) Write(b []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
	if r.rw != nil {
		if _, err := r.rw.Write(b); err != nil {
			return 0, err
		}
	}
	return r.body.Write(b)
}

// StatusCode returns the recorded status code.
func (r *Recorder) StatusCode() int {
	return r.status
}

// Result returns the recorded response. The recorder must not be written
// to afterwards.
func (r *Recorder) Result() *http.Response {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
	body := r.body.Bytes()
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", r.status, http.StatusText(r.status)),
		StatusCode:    r.status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        r.header.Clone(),
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
	}
}
