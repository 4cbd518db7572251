// Package middleware holds the HTTP wrappers shared by every route: the API
// key gate, the CORS envelope, and request logging.
package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
)

// APIKeyHeader carries the shared secret on every protected request.
const APIKeyHeader = "X-API-Key"

// Decision is the outcome of checking a request's API key.
type Decision int

const (
	// Accept lets the handler run.
	Accept Decision = iota
	// Forward treats the route as unmatched so the request falls through to
	// the not-found handler.
	Forward
	// Reject answers 400 without running the handler.
	Reject
)

func (d Decision) String() string {
	switch d {
	case Accept:
		return "accept"
	case Forward:
		return "forward"
	case Reject:
		return "reject"
	default:
		return "unknown"
	}
}

// Gate compares the X-API-Key header with a secret fixed at startup.
type Gate struct {
	secret   []byte
	notFound http.Handler
}

// NewGate returns a gate for secret. Forwarded requests are served by
// notFound, or http.NotFoundHandler when nil.
func NewGate(secret string, notFound http.Handler) *Gate {
	if notFound == nil {
		notFound = http.NotFoundHandler()
	}
	return &Gate{secret: []byte(secret), notFound: notFound}
}

// Decide requires exactly one X-API-Key header. The header name is matched
// case-insensitively, the value byte-for-byte in constant time.
func (g *Gate) Decide(h http.Header) Decision {
	keys := h.Values(APIKeyHeader)
	if len(keys) != 1 {
		return Reject
	}
	if subtle.ConstantTimeCompare([]byte(keys[0]), g.secret) != 1 {
		return Forward
	}
	return Accept
}

// Middleware applies Decide before next.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch g.Decide(r.Header) {
		case Accept:
			next.ServeHTTP(w, r)
		case Forward:
			g.notFound.ServeHTTP(w, r)
		default:
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]any{"error": "exactly one X-API-Key header is required"})
		}
	})
}
