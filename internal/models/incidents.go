package models

import "time"

// IncidentState tracks an incident through its lifecycle.
type IncidentState string

const (
	IncidentInvestigating IncidentState = "investigating"
	IncidentIdentified    IncidentState = "identified"
	IncidentMonitoring    IncidentState = "monitoring"
	IncidentResolved      IncidentState = "resolved"
)

// IncidentImpact is the backend-reported impact level of an incident.
type IncidentImpact string

const (
	ImpactNone     IncidentImpact = "none"
	ImpactMinor    IncidentImpact = "minor"
	ImpactMajor    IncidentImpact = "major"
	ImpactCritical IncidentImpact = "critical"
)

// IncidentSeverity is the two-value display severity derived from impact.
// Critical and major impacts map to major; everything else is minor.
type IncidentSeverity string

const (
	IncidentSeverityMinor IncidentSeverity = "minor"
	IncidentSeverityMajor IncidentSeverity = "major"
)

// Incident is an incident record as transmitted by the backend.
type Incident struct {
	ID                 string           `json:"id"`
	Title              string           `json:"title"`
	Status             IncidentState    `json:"status"`
	Impact             IncidentImpact   `json:"impact"`
	StartedAt          string           `json:"started_at"`
	ResolvedAt         string           `json:"resolved_at,omitempty"`
	AffectedComponents []string         `json:"affected_components"`
	Updates            []IncidentUpdate `json:"updates,omitempty"`
}

// IncidentUpdate is a progress note attached to a backend incident.
type IncidentUpdate struct {
	CreatedAt string        `json:"created_at"`
	Body      string        `json:"body"`
	Status    IncidentState `json:"status,omitempty"`
}

// StatusIncident is the normalized incident shape consumed by rendering
// surfaces. Field names are unified: state instead of status, parsed
// timestamps, and a derived two-value severity.
type StatusIncident struct {
	ID                   string           `json:"id"`
	Title                string           `json:"title"`
	State                IncidentState    `json:"state"`
	StartedAt            time.Time        `json:"startedAt"`
	ResolvedAt           *time.Time       `json:"resolvedAt,omitempty"`
	Severity             IncidentSeverity `json:"severity"`
	AffectedComponentIDs []string         `json:"affectedComponentIds"`
	Updates              []StatusUpdate   `json:"updates"`
}

// StatusUpdate is a normalized incident update.
type StatusUpdate struct {
	TS     time.Time     `json:"ts"`
	Body   string        `json:"body"`
	Status IncidentState `json:"status,omitempty"`
}

// IncidentsPayload partitions a page's incidents by lifecycle state.
// The partition is exhaustive and disjoint: every incident the backend
// returned appears in exactly one of the two lists.
type IncidentsPayload struct {
	Active   []StatusIncident `json:"active"`
	Resolved []StatusIncident `json:"resolved"`
}
