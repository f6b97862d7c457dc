package rfc9111

import (
	"net/http"
	"strconv"
	"time"
)

// Fresh reports whether a stored response received at the given time is
// still within its freshness lifetime (§4.2):
//
//	response_is_fresh = (freshness_lifetime > current_age)
func Fresh(header http.Header, received time.Time) bool {
	return FreshnessLifetime(header) > currentAge(header, received)
}

// FreshnessLifetime calculates the freshness lifetime of a response per
// §4.2.1, using the first match of s-maxage, max-age, and Expires minus
// Date. No explicit expiration means a zero lifetime; heuristic freshness
// is not applied.
func FreshnessLifetime(header http.Header) time.Duration {
	cc := ParseCacheControl(header.Values("Cache-Control"))
	if d, ok := cc.Duration("s-maxage"); ok {
		return d
	}
	if d, ok := cc.Duration("max-age"); ok {
		return d
	}
	if expires, err := HTTPDate(header.Get("Expires")); err == nil {
		if date, err := HTTPDate(header.Get("Date")); err == nil {
			return expires.Sub(date)
		}
	}
	return 0
}

// currentAge estimates the response age per §4.2.3. The stored receive time
// stands in for response_time; request/response delay is folded into the
// apparent age.
func currentAge(header http.Header, received time.Time) time.Duration {
	var ageValue time.Duration
	if secs, err := strconv.Atoi(header.Get("Age")); err == nil && secs > 0 {
		ageValue = time.Duration(secs) * time.Second
	}
	var apparentAge time.Duration
	if date, err := HTTPDate(header.Get("Date")); err == nil {
		apparentAge = durationMax(0, received.Sub(date))
	}
	initialAge := durationMax(ageValue, apparentAge)
	residentTime := time.Since(received)
	return initialAge + residentTime
}

func durationMax(d1, d2 time.Duration) time.Duration {
	if d1 > d2 {
		return d1
	}
	return d2
}
