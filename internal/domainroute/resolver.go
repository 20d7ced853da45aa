// Package domainroute rewrites requests arriving on customer-owned hostnames
// onto the canonical /{slug} paths the rest of the service understands.
package domainroute

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/warrnstack/statuspage-web/internal/models"
)

// Lookup is the backend surface used to map hostnames to slugs.
type Lookup interface {
	ResolveDomain(ctx context.Context, hostname string) (models.DomainLookup, error)
}

// Action describes what the router should do with a request.
type Action string

const (
	// ActionPass leaves the request untouched.
	ActionPass Action = "pass"
	// ActionRewrite serves the request under a different path.
	ActionRewrite Action = "rewrite"
	// ActionRedirect answers with a redirect to Location.
	ActionRedirect Action = "redirect"
)

// Rewrite is the resolver's verdict for one request.
type Rewrite struct {
	Action   Action
	Path     string // set on rewrite
	Location string // set on redirect
}

// Routes that must never be rewritten, whatever host they arrive on:
// the auth pages, the JSON API, and operational endpoints.
var passthroughPrefixes = []string{
	"/sign-in",
	"/sign-up",
	"/api/",
	"/healthz",
	"/metrics",
}

// Resolver decides whether a request host is canonical and, if not, which
// slug its hostname serves.
type Resolver struct {
	logger         *slog.Logger
	lookup         Lookup
	canonicalHosts map[string]bool
	directoryURL   string
}

// NewResolver constructs a resolver. canonicalHosts lists the platform's own
// hostnames; loopback hosts are always treated as canonical so local
// development never triggers a backend lookup.
func NewResolver(logger *slog.Logger, lookup Lookup, canonicalHosts []string, directoryURL string) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	hosts := make(map[string]bool, len(canonicalHosts))
	for _, host := range canonicalHosts {
		hosts[strings.ToLower(host)] = true
	}
	return &Resolver{
		logger:         logger,
		lookup:         lookup,
		canonicalHosts: hosts,
		directoryURL:   directoryURL,
	}
}

// IsCanonicalHost reports whether the host (port ignored) is one of the
// platform's own hostnames or a local development host.
func (r *Resolver) IsCanonicalHost(host string) bool {
	hostname := stripPort(host)
	if hostname == "localhost" || hostname == "127.0.0.1" || hostname == "::1" {
		return true
	}
	if strings.HasSuffix(hostname, ".localhost") {
		return true
	}
	return r.canonicalHosts[hostname]
}

// Resolve computes the routing verdict for one request. Lookup failures are
// non-fatal by design: a broken domain lookup degrades to a directory
// redirect instead of blocking the request.
func (r *Resolver) Resolve(ctx context.Context, host, path string) Rewrite {
	for _, prefix := range passthroughPrefixes {
		if path == strings.TrimSuffix(prefix, "/") || strings.HasPrefix(path, prefix) {
			return Rewrite{Action: ActionPass}
		}
	}

	if r.IsCanonicalHost(host) {
		return Rewrite{Action: ActionPass}
	}

	hostname := stripPort(host)
	lookup, err := r.lookup.ResolveDomain(ctx, hostname)
	if err != nil {
		r.logger.Warn("domain lookup failed", slog.String("hostname", hostname), slog.Any("error", err))
		return Rewrite{Action: ActionRedirect, Location: r.directoryURL}
	}
	if !lookup.Exists {
		return Rewrite{Action: ActionRedirect, Location: r.directoryURL}
	}

	slugPath := "/" + lookup.Slug
	switch path {
	case "/":
		// The domain root is an alias for the page it serves.
		return Rewrite{Action: ActionRewrite, Path: slugPath}
	case slugPath:
		return Rewrite{Action: ActionPass}
	default:
		// A custom domain serves exactly one page; everything else goes home.
		return Rewrite{Action: ActionRedirect, Location: "/"}
	}
}

// Middleware applies the resolver's verdict in front of the router.
func (r *Resolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		verdict := r.Resolve(req.Context(), req.Host, req.URL.Path)
		switch verdict.Action {
		case ActionRewrite:
			req.URL.Path = verdict.Path
			next.ServeHTTP(w, req)
		case ActionRedirect:
			http.Redirect(w, req, verdict.Location, http.StatusFound)
		default:
			next.ServeHTTP(w, req)
		}
	})
}

func stripPort(host string) string {
	if hostname, _, err := net.SplitHostPort(host); err == nil {
		return strings.ToLower(hostname)
	}
	return strings.ToLower(strings.Trim(host, "[]"))
}
