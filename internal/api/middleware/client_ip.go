package middleware

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP resolves the originating client address. The anonymous quota
// is keyed by this value, so proxy headers are honored before falling
// back to the connection address.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		// First address in the chain is the original client
		if idx := strings.IndexByte(fwd, ','); idx > 0 {
			fwd = fwd[:idx]
		}
		if ip := strings.TrimSpace(fwd); ip != "" {
			return ip
		}
	}

	if real := r.Header.Get("X-Real-IP"); real != "" {
		return real
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
