package normalize

import (
	"fmt"
	"time"

	"github.com/warrnstack/statuspage-web/internal/models"
)

// Incidents partitions every incident the backend returned into active and
// resolved lists. The partition is exhaustive and disjoint: an unresolved
// incident in the recent list still lands in active, and an id present in
// both backend lists is taken once (first occurrence wins).
func Incidents(resp *models.StatusPageResponse) (models.IncidentsPayload, error) {
	if resp == nil {
		return models.IncidentsPayload{}, fmt.Errorf("%w: nil page payload", ErrMalformedData)
	}

	payload := models.IncidentsPayload{
		Active:   []models.StatusIncident{},
		Resolved: []models.StatusIncident{},
	}

	seen := make(map[string]bool)
	for _, raw := range append(append([]models.Incident{}, resp.ActiveIncidents...), resp.RecentIncidents...) {
		if seen[raw.ID] {
			continue
		}
		seen[raw.ID] = true

		incident, err := normalizeIncident(raw)
		if err != nil {
			return models.IncidentsPayload{}, err
		}
		if incident.State == models.IncidentResolved {
			payload.Resolved = append(payload.Resolved, incident)
		} else {
			payload.Active = append(payload.Active, incident)
		}
	}

	return payload, nil
}

func normalizeIncident(raw models.Incident) (models.StatusIncident, error) {
	startedAt, err := parseIncidentTime(raw.ID, "started_at", raw.StartedAt)
	if err != nil {
		return models.StatusIncident{}, err
	}

	var resolvedAt *time.Time
	if raw.ResolvedAt != "" {
		ts, err := parseIncidentTime(raw.ID, "resolved_at", raw.ResolvedAt)
		if err != nil {
			return models.StatusIncident{}, err
		}
		resolvedAt = &ts
	}

	updates := make([]models.StatusUpdate, 0, len(raw.Updates))
	for _, update := range raw.Updates {
		ts, err := parseIncidentTime(raw.ID, "update created_at", update.CreatedAt)
		if err != nil {
			return models.StatusIncident{}, err
		}
		updates = append(updates, models.StatusUpdate{
			TS:     ts,
			Body:   update.Body,
			Status: update.Status,
		})
	}

	affected := raw.AffectedComponents
	if affected == nil {
		affected = []string{}
	}

	return models.StatusIncident{
		ID:                   raw.ID,
		Title:                raw.Title,
		State:                raw.Status,
		StartedAt:            startedAt,
		ResolvedAt:           resolvedAt,
		Severity:             severityForImpact(raw.Impact),
		AffectedComponentIDs: affected,
		Updates:              updates,
	}, nil
}

// severityForImpact collapses the backend's four impact levels into the
// two-value display severity. Maintenance is a component status, not an
// incident impact; no impact value maps to it.
func severityForImpact(impact models.IncidentImpact) models.IncidentSeverity {
	switch impact {
	case models.ImpactCritical, models.ImpactMajor:
		return models.IncidentSeverityMajor
	default:
		return models.IncidentSeverityMinor
	}
}

func parseIncidentTime(incidentID, field, raw string) (time.Time, error) {
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: incident %q %s %q is not a timestamp", ErrMalformedData, incidentID, field, raw)
	}
	return ts, nil
}
