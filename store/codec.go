package store

import (
	"bufio"
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Entries are serialized for byte-oriented backends as an HTTP/1.1 response
// in wire format, with the entry timing carried in private headers that are
// stripped again on decode.
const (
	requestedAtHeader = "Recache-Requested-At"
	receivedAtHeader  = "Recache-Received-At"
)

// EncodeEntry serializes an entry to its wire representation.
func EncodeEntry(e *Entry) ([]byte, error) {
	res := e.Response(nil)
	res.Header.Set(requestedAtHeader, strconv.FormatInt(e.RequestedAt.Unix(), 10))
	res.Header.Set(receivedAtHeader, strconv.FormatInt(e.ReceivedAt.Unix(), 10))
	buf := &bytes.Buffer{}
	if err := res.Write(buf); err != nil {
		return nil, fmt.Errorf("encoding entry: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeEntry parses an entry from its wire representation.
func DecodeEntry(b []byte) (*Entry, error) {
	res, err := http.ReadResponse(bufio.NewReader(bytes.NewReader(b)), nil)
	if err != nil {
		return nil, fmt.Errorf("decoding entry: %w", err)
	}
	requestedAt, err := headerTime(res.Header, requestedAtHeader)
	if err != nil {
		return nil, err
	}
	receivedAt, err := headerTime(res.Header, receivedAtHeader)
	if err != nil {
		return nil, err
	}
	res.Header.Del(requestedAtHeader)
	res.Header.Del(receivedAtHeader)
	entry, err := ReadEntry(res, requestedAt)
	if err != nil {
		return nil, err
	}
	entry.ReceivedAt = receivedAt
	return entry, nil
}

func headerTime(header http.Header, name string) (time.Time, error) {
	secs, err := strconv.ParseInt(header.Get(name), 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("corrupt entry: bad %s: %w", name, err)
	}
	return time.Unix(secs, 0), nil
}
