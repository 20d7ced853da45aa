package domainroute

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/warrnstack/statuspage-web/internal/models"
)

type stubLookup struct {
	lookup models.DomainLookup
	err    error
	calls  int
}

func (s *stubLookup) ResolveDomain(context.Context, string) (models.DomainLookup, error) {
	s.calls++
	return s.lookup, s.err
}

const directoryURL = "https://warrn.io/status-pages"

func newTestResolver(lookup *stubLookup) *Resolver {
	return NewResolver(nil, lookup, []string{"status.warrn.io"}, directoryURL)
}

func TestResolveCanonicalHostsSkipLookup(t *testing.T) {
	stub := &stubLookup{}
	resolver := newTestResolver(stub)

	for _, host := range []string{"localhost:8080", "127.0.0.1", "[::1]:8080", "acme.localhost", "status.warrn.io", "STATUS.WARRN.IO"} {
		verdict := resolver.Resolve(context.Background(), host, "/acme")
		if verdict.Action != ActionPass {
			t.Fatalf("%s: expected pass, got %+v", host, verdict)
		}
	}
	if stub.calls != 0 {
		t.Fatalf("canonical host triggered %d lookups", stub.calls)
	}
}

func TestResolveCustomDomainRoot(t *testing.T) {
	stub := &stubLookup{lookup: models.DomainLookup{Exists: true, Slug: "acme"}}
	resolver := newTestResolver(stub)

	verdict := resolver.Resolve(context.Background(), "status.acme.com", "/")
	if verdict.Action != ActionRewrite || verdict.Path != "/acme" {
		t.Fatalf("expected rewrite to /acme, got %+v", verdict)
	}
}

func TestResolveCustomDomainOwnSlugPasses(t *testing.T) {
	stub := &stubLookup{lookup: models.DomainLookup{Exists: true, Slug: "acme"}}
	resolver := newTestResolver(stub)

	verdict := resolver.Resolve(context.Background(), "status.acme.com:443", "/acme")
	if verdict.Action != ActionPass {
		t.Fatalf("expected pass for the domain's own slug, got %+v", verdict)
	}
}

func TestResolveCustomDomainForeignPathRedirectsHome(t *testing.T) {
	stub := &stubLookup{lookup: models.DomainLookup{Exists: true, Slug: "acme"}}
	resolver := newTestResolver(stub)

	verdict := resolver.Resolve(context.Background(), "status.acme.com", "/other-page")
	if verdict.Action != ActionRedirect || verdict.Location != "/" {
		t.Fatalf("expected redirect to /, got %+v", verdict)
	}
}

func TestResolveUnknownDomainRedirectsToDirectory(t *testing.T) {
	stub := &stubLookup{lookup: models.DomainLookup{Exists: false}}
	resolver := newTestResolver(stub)

	verdict := resolver.Resolve(context.Background(), "status.nobody.com", "/")
	if verdict.Action != ActionRedirect || verdict.Location != directoryURL {
		t.Fatalf("expected directory redirect, got %+v", verdict)
	}
}

func TestResolveLookupFailureDegradesToDirectory(t *testing.T) {
	stub := &stubLookup{err: fmt.Errorf("backend down")}
	resolver := newTestResolver(stub)

	verdict := resolver.Resolve(context.Background(), "status.acme.com", "/")
	if verdict.Action != ActionRedirect || verdict.Location != directoryURL {
		t.Fatalf("expected directory redirect on lookup failure, got %+v", verdict)
	}
}

func TestResolvePassthroughRoutesBypassLookup(t *testing.T) {
	stub := &stubLookup{lookup: models.DomainLookup{Exists: true, Slug: "acme"}}
	resolver := newTestResolver(stub)

	for _, path := range []string{"/sign-in", "/sign-up", "/api/status/acme", "/healthz", "/metrics"} {
		verdict := resolver.Resolve(context.Background(), "status.acme.com", path)
		if verdict.Action != ActionPass {
			t.Fatalf("%s: expected pass, got %+v", path, verdict)
		}
	}
	if stub.calls != 0 {
		t.Fatalf("passthrough routes triggered %d lookups", stub.calls)
	}
}

func TestMiddlewareRewritesPath(t *testing.T) {
	stub := &stubLookup{lookup: models.DomainLookup{Exists: true, Slug: "acme"}}
	resolver := newTestResolver(stub)

	var servedPath string
	handler := resolver.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		servedPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Host = "status.acme.com"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if servedPath != "/acme" {
		t.Fatalf("expected rewritten path /acme, got %q", servedPath)
	}
}

func TestMiddlewareRedirects(t *testing.T) {
	stub := &stubLookup{lookup: models.DomainLookup{Exists: false}}
	resolver := newTestResolver(stub)

	handler := resolver.Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run on redirect")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Host = "status.nobody.com"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != directoryURL {
		t.Fatalf("unexpected location: %q", got)
	}
}
