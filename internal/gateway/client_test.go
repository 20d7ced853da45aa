package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/warrnstack/statuspage-web/internal/cache"
)

func newClientForTest(rt roundTripFunc, cacheProvider cache.Provider) *Client {
	client := NewClient(
		"https://backend.example.com",
		"/api/status-pages/auth-check",
		"/api/status-pages/public",
		"/api/status-pages/domain-lookup",
		time.Second,
		cacheProvider,
		time.Minute,
		time.Minute,
	)
	client.httpClient = newTestClient(rt)
	return client
}

func jsonResponse(status int, payload any) (*http.Response, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader(data)),
		Header:     make(http.Header),
	}, nil
}

func TestCheckAccessParsesProbe(t *testing.T) {
	client := newClientForTest(func(req *http.Request) (*http.Response, error) {
		if req.Method != http.MethodGet {
			t.Fatalf("unexpected method: %s", req.Method)
		}
		if req.URL.Path != "/api/status-pages/auth-check/acme-internal/" {
			t.Fatalf("unexpected path: %s", req.URL.Path)
		}
		if req.Header.Get("Authorization") != "" {
			t.Fatalf("probe must not carry a credential")
		}
		return jsonResponse(http.StatusOK, map[string]any{
			"requires_auth": true,
			"exists":        true,
			"name":          "Acme Internal Status",
		})
	}, nil)

	identity, err := client.CheckAccess(context.Background(), "acme-internal")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !identity.Exists || !identity.RequiresAuth {
		t.Fatalf("unexpected identity: %+v", identity)
	}
	if identity.DisplayName != "Acme Internal Status" {
		t.Fatalf("unexpected display name: %q", identity.DisplayName)
	}
	if identity.Slug != "acme-internal" {
		t.Fatalf("unexpected slug: %q", identity.Slug)
	}
}

func TestCheckAccessNullName(t *testing.T) {
	client := newClientForTest(func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, map[string]any{
			"requires_auth": false,
			"exists":        false,
			"name":          nil,
		})
	}, nil)

	identity, err := client.CheckAccess(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if identity.Exists {
		t.Fatalf("expected exists=false")
	}
	if identity.DisplayName != "" {
		t.Fatalf("expected empty display name, got %q", identity.DisplayName)
	}
}

func TestCheckAccessCachesProbe(t *testing.T) {
	hits := 0
	client := newClientForTest(func(*http.Request) (*http.Response, error) {
		hits++
		return jsonResponse(http.StatusOK, map[string]any{
			"requires_auth": false,
			"exists":        true,
			"name":          "Acme Status",
		})
	}, newStubCache())

	ctx := context.Background()
	if _, err := client.CheckAccess(ctx, "acme"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hits != 1 {
		t.Fatalf("expected one upstream request, got %d", hits)
	}

	cached, err := client.CheckAccess(ctx, "acme")
	if err != nil {
		t.Fatalf("unexpected cached error: %v", err)
	}
	if hits != 1 {
		t.Fatalf("cache miss triggered network call; hits=%d", hits)
	}
	if cached.DisplayName != "Acme Status" {
		t.Fatalf("unexpected cached identity: %+v", cached)
	}
}

func TestFetchPageAttachesCredential(t *testing.T) {
	client := newClientForTest(func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/api/status-pages/public/acme-internal/" {
			t.Fatalf("unexpected path: %s", req.URL.Path)
		}
		if got := req.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Fatalf("unexpected authorization header: %q", got)
		}
		return jsonResponse(http.StatusOK, map[string]any{
			"name":             "Acme Internal Status",
			"overall_status":   "operational",
			"primary_color":    "#000",
			"components":       []any{},
			"active_incidents": []any{},
			"recent_incidents": []any{},
			"last_updated":     "2026-08-29T10:00:00Z",
		})
	}, nil)

	payload, err := client.FetchPage(context.Background(), "acme-internal", "tok-123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.Name != "Acme Internal Status" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestFetchPageOmitsEmptyCredential(t *testing.T) {
	client := newClientForTest(func(req *http.Request) (*http.Response, error) {
		if req.Header.Get("Authorization") != "" {
			t.Fatalf("empty credential must not produce a header")
		}
		return jsonResponse(http.StatusOK, map[string]any{"name": "Acme Status", "overall_status": "operational", "primary_color": "#000"})
	}, nil)

	if _, err := client.FetchPage(context.Background(), "acme", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFetchPageErrorTaxonomy(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusNotFound, ErrNotFound},
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrForbidden},
		{http.StatusInternalServerError, ErrBackendUnavailable},
		{http.StatusBadGateway, ErrBackendUnavailable},
	}

	for _, tc := range cases {
		client := newClientForTest(func(*http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: tc.status,
				Body:       io.NopCloser(bytes.NewReader(nil)),
				Header:     make(http.Header),
			}, nil
		}, nil)

		_, err := client.FetchPage(context.Background(), "acme", "")
		if !errors.Is(err, tc.want) {
			t.Fatalf("status %d: expected %v, got %v", tc.status, tc.want, err)
		}
	}
}

func TestFetchPageNetworkFailure(t *testing.T) {
	client := newClientForTest(func(*http.Request) (*http.Response, error) {
		return nil, fmt.Errorf("connection refused")
	}, nil)

	_, err := client.FetchPage(context.Background(), "acme", "")
	if !errors.Is(err, ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
}

func TestResolveDomainCachesLookup(t *testing.T) {
	hits := 0
	client := newClientForTest(func(req *http.Request) (*http.Response, error) {
		hits++
		if req.URL.Path != "/api/status-pages/domain-lookup/" {
			t.Fatalf("unexpected path: %s", req.URL.Path)
		}
		if got := req.URL.Query().Get("hostname"); got != "status.acme.com" {
			t.Fatalf("unexpected hostname param: %q", got)
		}
		return jsonResponse(http.StatusOK, map[string]any{"exists": true, "slug": "acme"})
	}, newStubCache())

	ctx := context.Background()
	lookup, err := client.ResolveDomain(ctx, "status.acme.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !lookup.Exists || lookup.Slug != "acme" {
		t.Fatalf("unexpected lookup: %+v", lookup)
	}

	if _, err := client.ResolveDomain(ctx, "status.acme.com"); err != nil {
		t.Fatalf("unexpected cached error: %v", err)
	}
	if hits != 1 {
		t.Fatalf("cache miss triggered network call; hits=%d", hits)
	}
}

func TestEmptySlugRejected(t *testing.T) {
	client := newClientForTest(func(*http.Request) (*http.Response, error) {
		t.Fatal("no request expected")
		return nil, nil
	}, nil)

	if _, err := client.CheckAccess(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty slug")
	}
	if _, err := client.FetchPage(context.Background(), "", ""); err == nil {
		t.Fatal("expected error for empty slug")
	}
}
