// Package access implements the pre-render decision flow for one page view:
// probe the page, obtain a credential when required, fetch the payload, and
// map every failure onto a distinct terminal outcome.
package access

import (
	"context"
	"errors"
	"log/slog"

	"github.com/warrnstack/statuspage-web/internal/gateway"
	"github.com/warrnstack/statuspage-web/internal/metrics"
	"github.com/warrnstack/statuspage-web/internal/models"
)

// DecisionKind enumerates the terminal states of the gate.
type DecisionKind string

const (
	// DecisionRender means the payload was fetched and may be rendered.
	DecisionRender DecisionKind = "render"
	// DecisionRedirectToDirectory sends the user to the page directory.
	DecisionRedirectToDirectory DecisionKind = "redirect_to_directory"
	// DecisionRedirectToSignIn sends an unauthenticated user to sign-in,
	// carrying the original path so they land back on the page afterwards.
	DecisionRedirectToSignIn DecisionKind = "redirect_to_sign_in"
	// DecisionAccessDenied means the user is signed in but not entitled.
	// Never collapsed into the sign-in redirect.
	DecisionAccessDenied DecisionKind = "access_denied"
	// DecisionErrorPage means the backend could not answer; retryable.
	DecisionErrorPage DecisionKind = "error_page"
)

// Decision is the gate's terminal outcome for one page view.
type Decision struct {
	Kind     DecisionKind
	ReturnTo string                     // original request path, set on sign-in redirects
	PageName string                     // resolved display name, set on access denial
	Payload  *models.StatusPageResponse // set only on render
}

// Gateway is the backend surface the gate depends on.
type Gateway interface {
	CheckAccess(ctx context.Context, slug string) (models.PageIdentity, error)
	FetchPage(ctx context.Context, slug, credential string) (*models.StatusPageResponse, error)
}

// Gate orchestrates the access flow.
type Gate struct {
	logger  *slog.Logger
	gateway Gateway
}

// NewGate constructs a gate over the supplied backend client.
func NewGate(logger *slog.Logger, gw Gateway) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{logger: logger, gateway: gw}
}

// Resolve runs the access flow for one request. requestPath is the original
// inbound path, carried on sign-in redirects; credential is empty when the
// identity provider holds no session for the requester.
func (g *Gate) Resolve(ctx context.Context, slug, requestPath, credential string) Decision {
	decision := g.resolve(ctx, slug, requestPath, credential)
	metrics.ObservePageView(string(decision.Kind))
	return decision
}

func (g *Gate) resolve(ctx context.Context, slug, requestPath, credential string) Decision {
	identity, err := g.gateway.CheckAccess(ctx, slug)
	if err != nil {
		// A broken probe must never block the platform; degrade to the
		// directory instead of surfacing an error.
		g.logger.Warn("access probe failed", slog.String("slug", slug), slog.Any("error", err))
		return Decision{Kind: DecisionRedirectToDirectory}
	}
	if !identity.Exists {
		return Decision{Kind: DecisionRedirectToDirectory}
	}

	if !identity.RequiresAuth {
		payload, err := g.gateway.FetchPage(ctx, slug, "")
		if err != nil {
			if errors.Is(err, gateway.ErrNotFound) {
				return Decision{Kind: DecisionRedirectToDirectory}
			}
			g.logger.Error("public fetch failed", slog.String("slug", slug), slog.Any("error", err))
			return Decision{Kind: DecisionErrorPage}
		}
		return Decision{Kind: DecisionRender, Payload: payload}
	}

	if credential == "" {
		return Decision{Kind: DecisionRedirectToSignIn, ReturnTo: requestPath}
	}

	payload, err := g.gateway.FetchPage(ctx, slug, credential)
	switch {
	case err == nil:
		return Decision{Kind: DecisionRender, Payload: payload}
	case errors.Is(err, gateway.ErrForbidden):
		// Known user, insufficient entitlement. Distinct from "not signed in".
		return Decision{Kind: DecisionAccessDenied, PageName: identity.DisplayName}
	case errors.Is(err, gateway.ErrUnauthorized):
		// Credential invalid or expired; a fresh sign-in may fix it.
		return Decision{Kind: DecisionRedirectToSignIn, ReturnTo: requestPath}
	case errors.Is(err, gateway.ErrNotFound):
		return Decision{Kind: DecisionRedirectToDirectory}
	default:
		g.logger.Error("authenticated fetch failed", slog.String("slug", slug), slog.Any("error", err))
		return Decision{Kind: DecisionErrorPage}
	}
}
