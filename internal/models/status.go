package models

import "time"

// ComponentStatus enumerates the health states a monitored component reports.
type ComponentStatus string

const (
	ComponentOperational ComponentStatus = "operational"
	ComponentDegraded    ComponentStatus = "degraded_performance"
	ComponentPartial     ComponentStatus = "partial_outage"
	ComponentMajor       ComponentStatus = "major_outage"
	ComponentMaintenance ComponentStatus = "maintenance"
)

// OverallStatus is the page-wide status the backend aggregates across components.
type OverallStatus string

const (
	OverallOperational OverallStatus = "operational"
	OverallDegraded    OverallStatus = "degraded_performance"
	OverallPartial     OverallStatus = "partial_outage"
	OverallMajor       OverallStatus = "major_outage"
)

// Severity is the platform-level aggregate used for banner styling.
type Severity string

const (
	SeverityNone  Severity = "none"
	SeverityMinor Severity = "minor"
	SeverityMajor Severity = "major"
)

// PageIdentity is the result of a lightweight access probe for one slug.
// It answers existence and auth requirements without fetching page data.
type PageIdentity struct {
	Slug         string
	RequiresAuth bool
	Exists       bool
	DisplayName  string
}

// DomainLookup maps a custom hostname to a page slug.
type DomainLookup struct {
	Exists bool   `json:"exists"`
	Slug   string `json:"slug"`
}

// Component is a monitored service as transmitted by the backend. Uptime
// arrives as a decimal string and is parsed during normalization.
type Component struct {
	ID                  string          `json:"id"`
	Name                string          `json:"name"`
	Description         string          `json:"description,omitempty"`
	Status              ComponentStatus `json:"status"`
	UptimePercentage90d string          `json:"uptime_percentage_90d"`
	SubComponents       []Component     `json:"sub_components,omitempty"`
}

// StatusPageResponse is the full page payload returned by the backend's
// public status-page endpoint.
type StatusPageResponse struct {
	Name            string        `json:"name"`
	Description     string        `json:"description,omitempty"`
	OverallStatus   OverallStatus `json:"overall_status"`
	LogoURL         string        `json:"logo_url,omitempty"`
	PrimaryColor    string        `json:"primary_color"`
	SupportEmail    string        `json:"support_email,omitempty"`
	SupportURL      string        `json:"support_url,omitempty"`
	Components      []Component   `json:"components"`
	ActiveIncidents []Incident    `json:"active_incidents"`
	RecentIncidents []Incident    `json:"recent_incidents"`
	LastUpdated     string        `json:"last_updated"`
}

// StatusComponent is the normalized component shape consumed by rendering
// surfaces. Uptime is a parsed percentage in [0, 100].
type StatusComponent struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Status        ComponentStatus   `json:"status"`
	Group         string            `json:"group,omitempty"`
	Uptime90d     float64           `json:"uptime90d"`
	Description   string            `json:"description,omitempty"`
	SubComponents []StatusComponent `json:"subComponents,omitempty"`
}

// StatusSummary is the canonical view model for one status page.
// Invariant: AllOperational is true exactly when Severity is none.
type StatusSummary struct {
	AllOperational       bool              `json:"allOperational"`
	Severity             Severity          `json:"severity"`
	Summary              string            `json:"summary"`
	AffectedComponentIDs []string          `json:"affectedComponentIds"`
	LastUpdated          time.Time         `json:"lastUpdated"`
	Components           []StatusComponent `json:"components"`
	Name                 string            `json:"name"`
	Description          string            `json:"description,omitempty"`
	LogoURL              string            `json:"logo_url,omitempty"`
	PrimaryColor         string            `json:"primary_color"`
	SupportEmail         string            `json:"support_email,omitempty"`
	SupportURL           string            `json:"support_url,omitempty"`
}
