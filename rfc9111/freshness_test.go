package rfc9111

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func header(pairs ...string) http.Header {
	h := http.Header{}
	for i := 0; i < len(pairs); i += 2 {
		h.Set(pairs[i], pairs[i+1])
	}
	return h
}

func TestFresh(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name     string
		header   http.Header
		received time.Time
		want     bool
	}{
		{
			"within max-age",
			header("Cache-Control", "max-age=60"),
			now.Add(-30 * time.Second),
			true,
		},
		{
			"past max-age",
			header("Cache-Control", "max-age=60"),
			now.Add(-2 * time.Minute),
			false,
		},
		{
			"s-maxage wins over max-age",
			header("Cache-Control", "max-age=600, s-maxage=1"),
			now.Add(-30 * time.Second),
			false,
		},
		{
			"age header consumes lifetime",
			header("Cache-Control", "max-age=60", "Age", "90"),
			now,
			false,
		},
		{
			"expires in the future",
			header(
				"Expires", now.Add(time.Hour).UTC().Format(http.TimeFormat),
				"Date", now.UTC().Format(http.TimeFormat),
			),
			now,
			true,
		},
		{
			"no expiration information",
			header("Content-Type", "text/plain"),
			now,
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Fresh(tt.header, tt.received))
		})
	}
}

func TestCacheable(t *testing.T) {
	tests := []struct {
		name   string
		status int
		header http.Header
		want   bool
	}{
		{"200 with max-age", 200, header("Cache-Control", "max-age=60"), true},
		{"200 with s-maxage", 200, header("Cache-Control", "s-maxage=60"), true},
		{"200 public", 200, header("Cache-Control", "public"), true},
		{"200 with expires", 200, header("Expires", "Mon, 02 Jan 2034 15:04:05 GMT"), true},
		{"200 without storage permission", 200, header("Content-Type", "text/plain"), false},
		{"no-store", 200, header("Cache-Control", "max-age=60, no-store"), false},
		{"private", 200, header("Cache-Control", "max-age=60, private"), false},
		{"304 is not storable", 304, header("Cache-Control", "max-age=60"), false},
		{"206 is not storable", 206, header("Cache-Control", "max-age=60"), false},
		{"non-final status", 103, header("Cache-Control", "max-age=60"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Cacheable(tt.status, tt.header))
		})
	}
}
