package uptime

import (
	"fmt"
	"time"
)

// Period is a three-month navigation window for the uptime charts.
type Period struct {
	ID        string `json:"id"` // YYYY-MM of the window start
	Label     string `json:"label"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// PeriodCount is how many windows the chart navigation offers.
const PeriodCount = 6

// Periods lists the last six three-month windows, newest first.
func Periods(now time.Time) []Period {
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	periods := make([]Period, 0, PeriodCount)
	for i := 0; i < PeriodCount; i++ {
		start := firstOfMonth.AddDate(0, -(i + 2), 0)
		end := firstOfMonth.AddDate(0, -i, 0).AddDate(0, 0, -1)

		periods = append(periods, Period{
			ID:        fmt.Sprintf("%04d-%02d", start.Year(), int(start.Month())),
			Label:     start.Format("Jan 2006") + " - " + end.Format("Jan 2006"),
			StartDate: start.Format("2006-01-02"),
			EndDate:   end.Format("2006-01-02"),
		})
	}

	return periods
}
