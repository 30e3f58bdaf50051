package middleware

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP sets r.RemoteAddr to the client address reported through
// X-Forwarded-For when the API runs behind trustedHops reverse proxies.
// Each proxy appends the peer it saw, so only the entry trustedHops from the
// right is trusted; anything further left came from the client. With
// trustedHops <= 0 forwarding headers are ignored and the socket peer is used.
func ClientIP(trustedHops int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if trustedHops <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ip := forwardedFor(r, trustedHops); ip != "" {
				r.RemoteAddr = ip
			}
			next.ServeHTTP(w, r)
		})
	}
}

func forwardedFor(r *http.Request, trustedHops int) string {
	var hops []string
	for _, value := range r.Header.Values("X-Forwarded-For") {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				hops = append(hops, part)
			}
		}
	}
	if len(hops) == 0 {
		return ""
	}
	idx := len(hops) - trustedHops
	if idx < 0 {
		idx = 0
	}
	ip := net.ParseIP(hops[idx])
	if ip == nil {
		return ""
	}
	return ip.String()
}
