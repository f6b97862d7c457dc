package recache

import (
	"strings"

	"github.com/rs/zerolog"
)

// Event is one step of the decision path taken for a request.
type Event string

const (
	// EventUnacceptable marks a request whose method is not cache-eligible.
	EventUnacceptable Event = "unacceptable"
	// EventFresh marks a stored entry served without contacting the origin.
	EventFresh Event = "fresh"
	// EventValid marks a stale entry the origin confirmed with a 304.
	EventValid Event = "valid"
	// EventMiss marks a lookup that found no stored entry.
	EventMiss Event = "miss"
	// EventStore marks a response written to the store.
	EventStore Event = "store"
	// EventInvalid marks a response the store policy refused to keep.
	EventInvalid Event = "invalid"
)

// Trace is the ordered, append-only log of decision events for a single
// request. It is created at the top of every cache invocation, flushed once
// at the end, and never shared across invocations.
type Trace struct {
	events []Event
}

// Record appends an event to the trace.
func (t *Trace) Record(event Event) {
	t.events = append(t.events, event)
}

// Events returns the recorded events in record order.
func (t *Trace) Events() []Event {
	return t.events
}

// String renders the events comma-joined, in record order.
func (t *Trace) String() string {
	parts := make([]string, len(t.events))
	for i, e := range t.events {
		parts[i] = string(e)
	}
	return strings.Join(parts, ",")
}

// Sink receives one rendered trace line per cache invocation. A nil sink is
// a valid configuration and disables tracing output.
type Sink interface {
	Log(line string)
}

// NewLoggerSink returns a Sink writing trace lines to a zerolog logger at
// debug level.
func NewLoggerSink(logger zerolog.Logger) Sink {
	return loggerSink{logger}
}

type loggerSink struct {
	logger zerolog.Logger
}

func (s loggerSink) Log(line string) {
	s.logger.Debug().Msg(line)
}
