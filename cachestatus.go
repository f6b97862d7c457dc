package recache

import "fmt"

// Cache-Status response header rendering in the style of RFC 9211, with
// "Recache" as the cache identifier.

// FwdReason says why a request was forwarded to the origin.
type FwdReason string

const (
	// The request method's semantics require the request to be forwarded.
	FwdReasonMethod FwdReason = "method"

	// The cache did not contain any response matching the request URI.
	FwdReasonUriMiss FwdReason = "uri-miss"

	// The cache selected a response, but it was stale.
	FwdReasonStale FwdReason = "stale"
)

type CacheStatus struct {
	hit       bool
	fwdReason FwdReason
	stored    bool
}

func (cs *CacheStatus) Hit() {
	cs.hit = true
}

func (cs *CacheStatus) Forward(reason FwdReason) {
	cs.fwdReason = reason
}

func (cs *CacheStatus) Stored() {
	cs.stored = true
}

func (cs CacheStatus) String() string {
	if cs.hit {
		return "Recache; hit"
	}
	status := fmt.Sprintf("Recache; fwd=%s", cs.fwdReason)
	if cs.stored {
		status += "; stored"
	}
	return status
}

// statusFromTrace maps a finished decision trace onto the Cache-Status
// header value for the response.
func statusFromTrace(trace *Trace) CacheStatus {
	var cs CacheStatus
	for _, event := range trace.Events() {
		switch event {
		case EventFresh:
			cs.Hit()
		case EventUnacceptable:
			cs.Forward(FwdReasonMethod)
		case EventMiss:
			cs.Forward(FwdReasonUriMiss)
		case EventValid:
			cs.Forward(FwdReasonStale)
		case EventStore:
			cs.Stored()
		}
	}
	// a stale entry replaced by a full origin response leaves no path
	// marker in the trace, only the store policy outcome
	if !cs.hit && cs.fwdReason == "" {
		cs.Forward(FwdReasonStale)
	}
	return cs
}
