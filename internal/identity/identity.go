// Package identity integrates the external identity provider. The service
// only consumes the credential and the hosted sign-in/sign-up redirect
// targets; authentication itself happens entirely on the provider's side.
package identity

import (
	"net/http"
	"net/url"
	"strings"
)

// Provider supplies the requester's credential and the provider's hosted
// redirect URLs. The credential is an opaque bearer token; an empty string
// means no session is present.
type Provider interface {
	Credential(r *http.Request) string
	SignInURL(returnTo string) string
	SignUpURL(returnTo string) string
}

// HostedProvider reads the session token issued by the hosted identity
// provider from the Authorization header or its session cookie.
type HostedProvider struct {
	signInURL     string
	signUpURL     string
	sessionCookie string
}

// NewHostedProvider constructs a provider around the configured hosted URLs.
func NewHostedProvider(signInURL, signUpURL, sessionCookie string) *HostedProvider {
	return &HostedProvider{
		signInURL:     signInURL,
		signUpURL:     signUpURL,
		sessionCookie: sessionCookie,
	}
}

// Credential extracts the bearer token for this request. Header wins over
// cookie so API callers can override an ambient browser session.
func (p *HostedProvider) Credential(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if p.sessionCookie != "" {
		if cookie, err := r.Cookie(p.sessionCookie); err == nil {
			return cookie.Value
		}
	}
	return ""
}

// SignInURL returns the hosted sign-in URL, carrying the URL-encoded return
// path so the user lands back on the original page after authenticating.
func (p *HostedProvider) SignInURL(returnTo string) string {
	return withReturnTo(p.signInURL, returnTo)
}

// SignUpURL returns the hosted sign-up URL with the same return semantics.
func (p *HostedProvider) SignUpURL(returnTo string) string {
	return withReturnTo(p.signUpURL, returnTo)
}

func withReturnTo(base, returnTo string) string {
	if returnTo == "" {
		return base
	}
	separator := "?"
	if strings.Contains(base, "?") {
		separator = "&"
	}
	return base + separator + "return_to=" + url.QueryEscape(returnTo)
}
