package http

import (
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
)

// securityMetrics collects counters the middleware increments. Read with
// atomic loads if ever exported; today they only feed log lines.
type securityMetrics struct {
	rateLimitHits      int64
	suspiciousRequests int64
}

// trustedProxies are the networks allowed to set forwarding headers. The
// API is expected to run behind a local reverse proxy at most.
var trustedProxies = []*net.IPNet{
	mustParseCIDR("127.0.0.0/8"),
	mustParseCIDR("10.0.0.0/8"),
	mustParseCIDR("172.16.0.0/12"),
	mustParseCIDR("192.168.0.0/16"),
}

func mustParseCIDR(cidr string) *net.IPNet {
	_, network, err := net.ParseCIDR(cidr)
	if err != nil {
		panic(fmt.Sprintf("bad trusted proxy CIDR %s: %v", cidr, err))
	}
	return network
}

func isTrustedProxy(ip net.IP) bool {
	for _, network := range trustedProxies {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// extractClientIP returns the real client IP. Forwarding headers are only
// honored when the direct peer is a trusted proxy, otherwise a client could
// spoof its way around the rate limiter.
func extractClientIP(r *http.Request) string {
	directIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		directIP = r.RemoteAddr
	}

	parsedDirectIP := net.ParseIP(directIP)
	if parsedDirectIP == nil {
		return directIP
	}

	if isTrustedProxy(parsedDirectIP) {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			ips := strings.Split(xff, ",")
			if len(ips) > 0 {
				clientIP := strings.TrimSpace(ips[0])
				if parsedIP := net.ParseIP(clientIP); parsedIP != nil {
					return clientIP
				}
			}
		}

		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			if parsedIP := net.ParseIP(xri); parsedIP != nil {
				return xri
			}
		}
	}

	return directIP
}

// probePathFragments are path/query substrings no legitimate client of this
// API ever sends: the routes are fixed, take no query parameters, and serve
// no PHP, no admin panel and no files.
var probePathFragments = []string{
	"../", "..\\", "etc/passwd", "cmd.exe",
	".env", ".git", ".ssh",
	"wp-", ".php", "phpmyadmin",
	"<script", "javascript:", "eval(",
	"union select", "0x",
}

// probeUserAgents are known scanning tools. Plain curl, wget and script
// clients are normal traffic for a JSON API and are deliberately not listed.
var probeUserAgents = []string{
	"sqlmap", "nmap", "nikto", "gobuster", "dirb",
	"wfuzz", "masscan", "scanner",
}

// detectSuspiciousRequest flags requests that look like probes or scans.
// Detection only feeds a warning log and a counter, it never blocks.
func detectSuspiciousRequest(r *http.Request, metrics *securityMetrics) bool {
	suspicious := false

	path := strings.ToLower(r.URL.Path)
	query := strings.ToLower(r.URL.RawQuery)
	// Probes hide behind percent encoding; match the decoded form too.
	if unescaped, err := url.QueryUnescape(query); err == nil {
		query = unescaped
	}
	for _, fragment := range probePathFragments {
		if strings.Contains(path, fragment) || strings.Contains(query, fragment) {
			suspicious = true
			break
		}
	}

	userAgent := strings.ToLower(r.Header.Get("User-Agent"))
	for _, agent := range probeUserAgents {
		if strings.Contains(userAgent, agent) {
			suspicious = true
			break
		}
	}

	// Every route answers GET or POST only.
	switch r.Method {
	case "TRACE", "TRACK", "DEBUG", "CONNECT":
		suspicious = true
	}

	// The longest legitimate URL here is a short fixed path.
	if len(r.URL.String()) > 1024 {
		suspicious = true
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" && r.Header.Get("X-Real-IP") != "" {
		if strings.Count(xff, ",") > 5 {
			suspicious = true
		}
	}

	if suspicious && metrics != nil {
		atomic.AddInt64(&metrics.suspiciousRequests, 1)
	}

	return suspicious
}
