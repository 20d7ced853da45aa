// Package uptime produces the per-component daily history behind the
// battery-style uptime charts. Histories are generated deterministically
// from the component id, so repeated requests paint the same picture; real
// measurements live in the monitoring backend, not here.
package uptime

import "time"

// DayStatus is the health of one component on one day.
type DayStatus struct {
	Date   string `json:"date"` // YYYY-MM-DD, UTC
	Status string `json:"status"`
}

// DefaultDays is the default history window.
const DefaultDays = 90

// History generates a deterministic day-by-day status series for a component.
// currentStatus shapes the failure density; the per-day seed is the first
// byte of the component id plus the day offset, so the pattern is stable
// across calls for a fixed now.
func History(componentID, currentStatus string, days int, now time.Time) []DayStatus {
	if days <= 0 {
		days = DefaultDays
	}

	var seedBase int
	if componentID != "" {
		seedBase = int(componentID[0])
	}

	history := make([]DayStatus, 0, days)
	for i := days - 1; i >= 0; i-- {
		date := now.UTC().AddDate(0, 0, -i)
		seed := seedBase + i

		dayStatus := "operational"
		switch currentStatus {
		case "degraded":
			if seed%20 == 0 {
				dayStatus = "degraded"
			} else if seed%100 == 0 {
				dayStatus = "outage"
			}
		case "maintenance":
			if seed%30 == 0 {
				dayStatus = "maintenance"
			} else if seed%50 == 0 {
				dayStatus = "degraded"
			}
		case "outage":
			if seed%10 == 0 {
				dayStatus = "outage"
			} else if seed%5 == 0 {
				dayStatus = "degraded"
			}
		default:
			if seed%100 == 0 {
				dayStatus = "degraded"
			} else if seed%500 == 0 {
				dayStatus = "outage"
			}
		}

		history = append(history, DayStatus{
			Date:   date.Format("2006-01-02"),
			Status: dayStatus,
		})
	}

	return history
}

// Percentage computes the share of operational days over the window, 0-100.
func Percentage(history []DayStatus) float64 {
	if len(history) == 0 {
		return 0
	}
	operational := 0
	for _, day := range history {
		if day.Status == "operational" {
			operational++
		}
	}
	return float64(operational) / float64(len(history)) * 100
}
