// Package normalize transforms raw backend status-page payloads into the
// canonical view models consumed by every rendering surface. All functions
// are pure: the only ambient input is the caller-supplied clock, used to
// default a missing last-updated timestamp.
package normalize

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/warrnstack/statuspage-web/internal/models"
)

// ErrMalformedData marks a backend field that cannot be parsed. The page
// cannot render partial or garbled status truthfully, so normalization fails
// the whole request rather than defaulting the field.
var ErrMalformedData = errors.New("malformed backend data")

// Operator-facing summary lines are keyed by overall status rather than
// computed from component counts, to keep the language predictable.
const (
	summaryOperational = "All systems operational."
	summaryDegraded    = "Some components are experiencing issues."
	summaryOutage      = "We are experiencing some issues."
)

// Status derives the canonical StatusSummary from a raw page payload.
// now supplies the fallback for a missing last_updated field.
func Status(resp *models.StatusPageResponse, now func() time.Time) (models.StatusSummary, error) {
	if resp == nil {
		return models.StatusSummary{}, fmt.Errorf("%w: nil page payload", ErrMalformedData)
	}

	components, err := normalizeComponents(resp.Components)
	if err != nil {
		return models.StatusSummary{}, err
	}

	lastUpdated, err := parseLastUpdated(resp.LastUpdated, now)
	if err != nil {
		return models.StatusSummary{}, err
	}

	severity := severityFor(resp.OverallStatus)

	return models.StatusSummary{
		AllOperational:       severity == models.SeverityNone,
		Severity:             severity,
		Summary:              summaryFor(resp.OverallStatus),
		AffectedComponentIDs: affectedComponentIDs(resp.ActiveIncidents),
		LastUpdated:          lastUpdated,
		Components:           components,
		Name:                 resp.Name,
		Description:          resp.Description,
		LogoURL:              resp.LogoURL,
		PrimaryColor:         resp.PrimaryColor,
		SupportEmail:         resp.SupportEmail,
		SupportURL:           resp.SupportURL,
	}, nil
}

// severityFor maps overall status to the three-value platform severity:
// outage-class statuses are major, degraded performance is minor,
// everything else is none.
func severityFor(status models.OverallStatus) models.Severity {
	switch status {
	case models.OverallMajor, models.OverallPartial:
		return models.SeverityMajor
	case models.OverallDegraded:
		return models.SeverityMinor
	default:
		return models.SeverityNone
	}
}

func summaryFor(status models.OverallStatus) string {
	switch status {
	case models.OverallOperational:
		return summaryOperational
	case models.OverallDegraded:
		return summaryDegraded
	default:
		return summaryOutage
	}
}

// affectedComponentIDs flattens affected components across active incidents.
// Order is incident order, then per-incident component order. Duplicates are
// preserved: a component hit by two incidents appears twice.
func affectedComponentIDs(active []models.Incident) []string {
	ids := make([]string, 0, len(active))
	for _, incident := range active {
		ids = append(ids, incident.AffectedComponents...)
	}
	return ids
}

func normalizeComponents(raw []models.Component) ([]models.StatusComponent, error) {
	components := make([]models.StatusComponent, 0, len(raw))
	for _, comp := range raw {
		uptime, err := parseUptime(comp.ID, comp.UptimePercentage90d)
		if err != nil {
			return nil, err
		}
		sub, err := normalizeComponents(comp.SubComponents)
		if err != nil {
			return nil, err
		}
		if len(sub) == 0 {
			sub = nil
		}
		components = append(components, models.StatusComponent{
			ID:            comp.ID,
			Name:          comp.Name,
			Status:        comp.Status,
			Group:         "Services",
			Uptime90d:     uptime,
			Description:   comp.Description,
			SubComponents: sub,
		})
	}
	return components, nil
}

// parseUptime rejects non-numeric uptime strings instead of coercing them
// to 0 or NaN.
func parseUptime(componentID, raw string) (float64, error) {
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: component %q uptime %q is not numeric", ErrMalformedData, componentID, raw)
	}
	return value, nil
}

func parseLastUpdated(raw string, now func() time.Time) (time.Time, error) {
	if raw == "" {
		if now == nil {
			now = time.Now
		}
		return now(), nil
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: last_updated %q is not a timestamp", ErrMalformedData, raw)
	}
	return ts, nil
}
