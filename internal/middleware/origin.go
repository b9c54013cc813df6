package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"epc-api/pkg/logger"
)

// OriginPolicy decides which declared origins may submit forms. This is an
// advisory Origin/Referrer filter, not CSRF-token verification: requests
// that declare no origin at all (same-origin posts, non-browser callers)
// are allowed through.
type OriginPolicy struct {
	// AllowedHosts are hostnames accepted exactly or as parent domains
	AllowedHosts []string
	// PreviewSuffix accepts the hosting platform's generated preview
	// domains, e.g. ".vercel.app"
	PreviewSuffix string
}

// HostAllowed reports whether a hostname matches the allow-list: an exact
// match, a subdomain of an allowed host, or a preview-domain hostname
func (p *OriginPolicy) HostAllowed(host string) bool {
	if host == "" {
		return false
	}

	host = strings.ToLower(host)

	for _, allowed := range p.AllowedHosts {
		allowed = strings.ToLower(allowed)
		if host == allowed || strings.HasSuffix(host, "."+allowed) {
			return true
		}
	}

	if p.PreviewSuffix != "" && strings.HasSuffix(host, strings.ToLower(p.PreviewSuffix)) {
		return true
	}

	return false
}

// RequestAllowed applies the policy to a request's Origin header, falling
// back to Referer. No header present means allow; a header that does not
// parse as a URL means reject.
func (p *OriginPolicy) RequestAllowed(r *http.Request) bool {
	header := r.Header.Get("Origin")
	if header == "" {
		header = r.Header.Get("Referer")
	}
	if header == "" {
		return true
	}

	parsed, err := url.Parse(header)
	if err != nil {
		return false
	}

	return p.HostAllowed(parsed.Hostname())
}

// OriginGuard creates a middleware rejecting requests from disallowed origins
func OriginGuard(policy *OriginPolicy, logger *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !policy.RequestAllowed(r) {
				logger.WithFields(map[string]interface{}{
					"origin":  r.Header.Get("Origin"),
					"referer": r.Header.Get("Referer"),
					"path":    r.URL.Path,
				}).Warn("Request rejected by origin guard")

				writeJSONError(w, http.StatusForbidden, "origin not allowed", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
