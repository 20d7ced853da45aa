package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/warrnstack/statuspage-web/internal/cache"
	"github.com/warrnstack/statuspage-web/internal/metrics"
	"github.com/warrnstack/statuspage-web/internal/models"
	"github.com/warrnstack/statuspage-web/internal/utils"
)

// Client wraps the monitoring backend's status-page APIs. It never retries:
// every call surfaces its outcome to the caller, who decides what to do next.
type Client struct {
	baseURL          string
	authCheckPath    string
	pagePath         string
	domainLookupPath string
	httpClient       *http.Client

	cacheProvider   cache.Provider
	authCheckTTL    time.Duration
	domainLookupTTL time.Duration
}

// NewClient constructs a client targeting the configured backend instance.
// The cache provider is consulted only for the lightweight probe endpoints
// (auth-check, domain-lookup); full page fetches always go upstream.
func NewClient(baseURL, authCheckPath, pagePath, domainLookupPath string, timeout time.Duration, cacheProvider cache.Provider, authCheckTTL, domainLookupTTL time.Duration) *Client {
	if cacheProvider == nil {
		cacheProvider = cache.NoopProvider{}
	}
	return &Client{
		baseURL:          strings.TrimRight(baseURL, "/"),
		authCheckPath:    authCheckPath,
		pagePath:         pagePath,
		domainLookupPath: domainLookupPath,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		cacheProvider:   cacheProvider,
		authCheckTTL:    authCheckTTL,
		domainLookupTTL: domainLookupTTL,
	}
}

// CheckAccess probes existence, auth requirement, and display name for a slug
// without fetching page data. A non-existent page is data, not an error: the
// backend answers 200 with exists=false, and callers redirect to the page
// directory. The probe is side-effect free and safe to call speculatively.
func (c *Client) CheckAccess(ctx context.Context, slug string) (models.PageIdentity, error) {
	if slug == "" {
		return models.PageIdentity{}, fmt.Errorf("slug must not be empty")
	}

	var response struct {
		RequiresAuth bool    `json:"requires_auth"`
		Exists       bool    `json:"exists"`
		Name         *string `json:"name"`
	}

	cacheKey := "statuspage:authcheck:" + slug
	if cached, err := c.cacheProvider.Get(ctx, cacheKey); err == nil {
		if err := json.Unmarshal(cached, &response); err == nil {
			return identityFromAuthCheck(slug, response.RequiresAuth, response.Exists, response.Name), nil
		}
		_ = c.cacheProvider.Del(ctx, cacheKey)
	}

	endpoint := c.resolvePath(path.Join(c.authCheckPath, slug) + "/")
	if err := c.getJSON(ctx, "auth_check", endpoint, "", &response); err != nil {
		return models.PageIdentity{}, utils.NewAppError("gateway.CheckAccess", "auth check for "+slug+" failed", err)
	}

	if c.authCheckTTL > 0 {
		if payload, err := json.Marshal(response); err == nil {
			_ = c.cacheProvider.Set(ctx, cacheKey, payload, c.authCheckTTL)
		}
	}

	return identityFromAuthCheck(slug, response.RequiresAuth, response.Exists, response.Name), nil
}

// FetchPage retrieves the full page payload for a slug. The credential, when
// present, is attached as a bearer token; private pages answer 401/403 and
// those surface as ErrUnauthorized/ErrForbidden for the gate to branch on.
func (c *Client) FetchPage(ctx context.Context, slug, credential string) (*models.StatusPageResponse, error) {
	if slug == "" {
		return nil, fmt.Errorf("slug must not be empty")
	}

	endpoint := c.resolvePath(path.Join(c.pagePath, slug) + "/")
	var response models.StatusPageResponse
	if err := c.getJSON(ctx, "fetch_page", endpoint, credential, &response); err != nil {
		return nil, utils.NewAppError("gateway.FetchPage", "fetch page "+slug+" failed", err)
	}
	return &response, nil
}

// ResolveDomain looks up the slug served on a custom hostname.
func (c *Client) ResolveDomain(ctx context.Context, hostname string) (models.DomainLookup, error) {
	if hostname == "" {
		return models.DomainLookup{}, fmt.Errorf("hostname must not be empty")
	}

	var response models.DomainLookup

	cacheKey := "statuspage:domain:" + hostname
	if cached, err := c.cacheProvider.Get(ctx, cacheKey); err == nil {
		if err := json.Unmarshal(cached, &response); err == nil {
			return response, nil
		}
		_ = c.cacheProvider.Del(ctx, cacheKey)
	}

	endpoint := c.resolvePath(c.domainLookupPath+"/") + "?hostname=" + url.QueryEscape(hostname)
	if err := c.getJSON(ctx, "domain_lookup", endpoint, "", &response); err != nil {
		return models.DomainLookup{}, utils.NewAppError("gateway.ResolveDomain", "domain lookup for "+hostname+" failed", err)
	}

	if c.domainLookupTTL > 0 {
		if payload, err := json.Marshal(response); err == nil {
			_ = c.cacheProvider.Set(ctx, cacheKey, payload, c.domainLookupTTL)
		}
	}

	return response, nil
}

func identityFromAuthCheck(slug string, requiresAuth, exists bool, name *string) models.PageIdentity {
	identity := models.PageIdentity{
		Slug:         slug,
		RequiresAuth: requiresAuth,
		Exists:       exists,
	}
	if name != nil {
		identity.DisplayName = *name
	}
	return identity
}

func (c *Client) resolvePath(p string) string {
	if c.baseURL == "" {
		return ""
	}
	cleaned := "/" + strings.TrimLeft(p, "/")
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return c.baseURL + cleaned
	}
	joined := path.Join(u.Path, cleaned)
	if strings.HasSuffix(cleaned, "/") && !strings.HasSuffix(joined, "/") {
		joined += "/"
	}
	u.Path = joined
	return u.String()
}

func (c *Client) getJSON(ctx context.Context, route, endpoint, credential string, out any) error {
	if endpoint == "" {
		return fmt.Errorf("%w: backend base URL not configured", ErrBackendUnavailable)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if credential != "" {
		req.Header.Set("Authorization", "Bearer "+credential)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.ObserveBackendRequest(route, time.Since(start))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrBackendUnavailable, err)
	}
	return nil
}
