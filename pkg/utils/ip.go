package utils

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP extracts the caller's IP address. Behind a proxy the first
// X-Forwarded-For entry wins, otherwise the connection's remote address.
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
