package pkg

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP returns the visitor address of r. The X-Real-Ip and X-Forwarded-For headers are
// only honored with trustProxy, since any client can set them when no reverse proxy is in front.
func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if ip := strings.TrimSpace(r.Header.Get("X-Real-Ip")); ip != "" {
			return ip
		}
		// the proxy appends the peer it saw, earlier entries come from the client
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			parts := strings.Split(fwd, ",")
			if ip := strings.TrimSpace(parts[len(parts)-1]); ip != "" {
				return ip
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
