package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

// Error taxonomy for backend responses. The access gate branches on these,
// so Unauthorized and Forbidden must stay distinguishable end to end.
var (
	// ErrNotFound marks a slug or hostname the backend does not know.
	ErrNotFound = errors.New("status page not found")
	// ErrUnauthorized marks a missing, invalid, or expired credential.
	ErrUnauthorized = errors.New("credential missing or invalid")
	// ErrForbidden marks a valid credential without entitlement to the page.
	ErrForbidden = errors.New("credential not entitled to page")
	// ErrBackendUnavailable marks network failures and 5xx responses.
	ErrBackendUnavailable = errors.New("backend unavailable")
)

// statusError maps a non-2xx backend status code onto the taxonomy.
func statusError(code int) error {
	switch {
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusUnauthorized:
		return ErrUnauthorized
	case code == http.StatusForbidden:
		return ErrForbidden
	default:
		return fmt.Errorf("%w: backend returned status %d", ErrBackendUnavailable, code)
	}
}
