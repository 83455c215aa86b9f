// Package store holds the immutable, pre-encoded snapshot of the library
// that is built once at startup and served by the HTTP layer for the rest
// of the process lifetime.
package store

import (
	"bytes"

	"github.com/klauspost/compress/gzip"
)

// minGzipCandidate is the raw-length threshold below which a gzip
// alternative is never even attempted: small JSON documents rarely compress
// and the comparison isn't worth the allocation.
const minGzipCandidate = 64

// Payload is a pre-encoded response body, with an optional gzip-compressed
// alternative kept only when it is strictly smaller than the raw form.
type Payload struct {
	Raw  []byte
	Gzip []byte // nil if no smaller gzip alternative exists
}

// NewJSONPayload builds a Payload from an already-marshaled JSON document,
// computing and keeping a gzip alternative per threshold.
func NewJSONPayload(raw []byte, threshold int) Payload {
	if threshold <= 0 {
		threshold = minGzipCandidate
	}
	p := Payload{Raw: raw}
	if len(raw) <= threshold {
		return p
	}
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	if _, err := gw.Write(raw); err != nil {
		return p
	}
	if err := gw.Close(); err != nil {
		return p
	}
	if buf.Len() < len(raw) {
		p.Gzip = buf.Bytes()
	}
	return p
}
