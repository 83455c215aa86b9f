package server

import (
	"net/http"
	"strings"
)

// acceptedEncodings is the parsed result of a request's Accept-Encoding
// header: which content-encodings the client is willing to receive.
type acceptedEncodings struct {
	gzip    bool
	deflate bool
}

// parseAcceptEncoding decodes the request's Accept-Encoding header. The
// second return value is false when the header cannot be decoded as ASCII,
// per spec.md §4.4/§6.2 — callers must respond 406 in that case.
func parseAcceptEncoding(r *http.Request) (acceptedEncodings, bool) {
	h := r.Header.Get("Accept-Encoding")
	if h == "" {
		return acceptedEncodings{}, true
	}
	if !isASCII(h) {
		return acceptedEncodings{}, false
	}
	lower := strings.ToLower(h)
	return acceptedEncodings{
		gzip:    strings.Contains(lower, "gzip"),
		deflate: strings.Contains(lower, "deflate"),
	}, true
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7f {
			return false
		}
	}
	return true
}
