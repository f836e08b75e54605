package trends

import (
	"time"

	"github.com/blockedby/jobtrends/internal/models"
)

// label layouts per granularity
const (
	dayLabelLayout   = "Jan 2"
	monthLabelLayout = "Jan 2006"
)

// TimeSeriesPoint is one bucket of a series.
type TimeSeriesPoint struct {
	Date         time.Time             `json:"date"`
	Count        int                   `json:"count"`
	Applications []*models.Application `json:"applications"`
	Label        string                `json:"label"`
}

// ComputeTimeSeries groups records by creation time into the buckets of the
// selected range. Records created outside the range are dropped; empty
// buckets are kept with a zero count.
func ComputeTimeSeries(records []*models.Application, r Range, now time.Time) []TimeSeriesPoint {
	dr := DateRangeFor(r, records, now)
	return bucketize(records, dr)
}

func bucketize(records []*models.Application, dr DateRange) []TimeSeriesPoint {
	buckets := GenerateBuckets(dr.Start, dr.End, dr.Granularity)
	loc := dr.Start.Location()

	points := make([]TimeSeriesPoint, len(buckets))
	index := make(map[int64]int, len(buckets))
	for i, b := range buckets {
		points[i] = TimeSeriesPoint{
			Date:         b,
			Applications: []*models.Application{},
			Label:        bucketLabel(b, dr.Granularity),
		}
		index[b.Unix()] = i
	}

	for _, rec := range records {
		if rec == nil || !dr.Contains(rec.CreatedAt) {
			continue
		}
		key := BucketStartFor(rec.CreatedAt.In(loc), dr.Granularity).Unix()
		i, ok := index[key]
		if !ok {
			continue
		}
		points[i].Applications = append(points[i].Applications, rec)
		points[i].Count++
	}

	return points
}

func bucketLabel(t time.Time, g Granularity) string {
	if g == GranularityMonth {
		return t.Format(monthLabelLayout)
	}
	return t.Format(dayLabelLayout)
}
