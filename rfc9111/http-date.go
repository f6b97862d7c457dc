package rfc9111

import (
	"errors"
	"net/http"
	"time"
)

var errNoDate = errors.New("no date value")

// HTTPDate parses an HTTP-date header value in any of the three formats
// accepted by HTTP (RFC 5322, RFC 850, asctime).
func HTTPDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errNoDate
	}
	return http.ParseTime(value)
}
