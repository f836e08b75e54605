package trends

import (
	"time"

	"github.com/blockedby/jobtrends/internal/models"
)

// Trend is the direction of weekly application volume.
type Trend string

// Trend constants.
const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// VelocityMetrics summarises weekly application volume.
type VelocityMetrics struct {
	ApplicationsPerWeek float64           `json:"applications_per_week"`
	CurrentWeek         int               `json:"current_week"`
	PreviousWeek        int               `json:"previous_week"`
	Trend               Trend             `json:"trend"`
	Weekly              []TimeSeriesPoint `json:"weekly"`
}

// ComputeVelocity counts records per Sunday-start week across the selected
// range, whatever the range's natural granularity.
func ComputeVelocity(records []*models.Application, r Range, now time.Time) VelocityMetrics {
	dr := DateRangeFor(r, records, now)
	weeks := GenerateBuckets(dr.Start, dr.End, GranularityWeek)
	loc := dr.Start.Location()

	weekly := make([]TimeSeriesPoint, len(weeks))
	total := 0
	for i, start := range weeks {
		end := endOfDay(start.AddDate(0, 0, 6))
		point := TimeSeriesPoint{
			Date:         start,
			Applications: []*models.Application{},
			Label:        bucketLabel(start, GranularityWeek),
		}
		for _, rec := range records {
			if rec == nil {
				continue
			}
			created := rec.CreatedAt.In(loc)
			if created.Before(start) || created.After(end) {
				continue
			}
			point.Applications = append(point.Applications, rec)
			point.Count++
		}
		total += point.Count
		weekly[i] = point
	}

	m := VelocityMetrics{
		ApplicationsPerWeek: float64(total) / float64(max(len(weeks), 1)),
		Weekly:              weekly,
	}
	if n := len(weekly); n > 0 {
		m.CurrentWeek = weekly[n-1].Count
		if n > 1 {
			m.PreviousWeek = weekly[n-2].Count
		}
	}
	m.Trend = ClassifyTrend(m.CurrentWeek, m.PreviousWeek)

	return m
}

// ClassifyTrend compares two weekly counts with a 10% band either side.
// Values on the band edge are stable.
func ClassifyTrend(current, previous int) Trend {
	// integer form of current > previous*1.1 and current < previous*0.9
	switch {
	case current*10 > previous*11:
		return TrendUp
	case current*10 < previous*9:
		return TrendDown
	default:
		return TrendStable
	}
}
