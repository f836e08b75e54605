// Package trends derives read-only analytics from a snapshot of job applications:
// time-bucketed series, weekly velocity, response-time statistics and a
// benchmark-driven success probability.
//
// Every function here is pure. Callers pass the current time explicitly and
// the records are never modified.
package trends

import (
	"errors"
	"strings"
	"time"

	"github.com/blockedby/jobtrends/internal/models"
)

// Range selects the window of history to analyse.
type Range string

// Range constants accepted by the API.
const (
	Range7Days  Range = "7d"
	Range30Days Range = "30d"
	Range90Days Range = "90d"
	RangeAll    Range = "all"
)

// DefaultRange is used when no selector is given.
const DefaultRange = Range30Days

// ErrInvalidRange is returned by ParseRange for unknown selectors.
var ErrInvalidRange = errors.New("range must be one of 7d, 30d, 90d, all")

// ParseRange normalises a user supplied selector.
// An empty string yields DefaultRange.
func ParseRange(s string) (Range, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultRange, nil
	}
	switch r := Range(s); r {
	case Range7Days, Range30Days, Range90Days, RangeAll:
		return r, nil
	}
	return "", ErrInvalidRange
}

// Granularity is the width of a single bucket.
type Granularity string

// Granularity constants.
const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
)

// allRangeMonths is how far back the "all" range reaches when no record is older.
const allRangeMonths = 6

// DateRange is a resolved range selector.
type DateRange struct {
	Start       time.Time   `json:"start"`
	End         time.Time   `json:"end"`
	Granularity Granularity `json:"granularity"`
}

// Contains reports whether t lies inside the range, both ends inclusive.
func (d DateRange) Contains(t time.Time) bool {
	return !t.Before(d.Start) && !t.After(d.End)
}

// DateRangeFor resolves a selector against now.
// For RangeAll the start moves back to the earliest record when one predates
// the six month default.
func DateRangeFor(r Range, records []*models.Application, now time.Time) DateRange {
	today := startOfDay(now)
	dr := DateRange{End: endOfDay(now)}

	switch r {
	case Range7Days:
		dr.Start = today.AddDate(0, 0, -6)
		dr.Granularity = GranularityDay
	case Range90Days:
		dr.Start = today.AddDate(0, 0, -89)
		dr.Granularity = GranularityWeek
	case RangeAll:
		dr.Start = subMonths(today, allRangeMonths)
		dr.Granularity = GranularityMonth
		if earliest, ok := earliestCreated(records); ok {
			if e := startOfDay(earliest.In(now.Location())); e.Before(dr.Start) {
				dr.Start = e
			}
		}
	default:
		dr.Start = today.AddDate(0, 0, -29)
		dr.Granularity = GranularityDay
	}

	return dr
}

// GenerateBuckets returns the start of every bucket touching [start, end].
// The first bucket is aligned with BucketStartFor(start, g).
func GenerateBuckets(start, end time.Time, g Granularity) []time.Time {
	if end.Before(start) {
		return []time.Time{}
	}

	var buckets []time.Time
	for cur := BucketStartFor(start, g); !cur.After(end); cur = nextBucket(cur, g) {
		buckets = append(buckets, cur)
	}
	if buckets == nil {
		return []time.Time{}
	}
	return buckets
}

// BucketStartFor maps t to the start of its containing bucket.
// Weeks start on Sunday.
func BucketStartFor(t time.Time, g Granularity) time.Time {
	switch g {
	case GranularityWeek:
		return startOfWeek(t)
	case GranularityMonth:
		return startOfMonth(t)
	default:
		return startOfDay(t)
	}
}

func nextBucket(t time.Time, g Granularity) time.Time {
	switch g {
	case GranularityWeek:
		return t.AddDate(0, 0, 7)
	case GranularityMonth:
		return t.AddDate(0, 1, 0)
	default:
		return t.AddDate(0, 0, 1)
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

func startOfWeek(t time.Time) time.Time {
	day := startOfDay(t)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

func startOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

// subMonths steps back n calendar months, clamping the day to the target
// month's length (Aug 31 - 6 months is Feb 28, not Mar 3).
func subMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m-time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return first.AddDate(0, 0, d-1)
}

func earliestCreated(records []*models.Application) (time.Time, bool) {
	var earliest time.Time
	found := false
	for _, r := range records {
		if r == nil || r.CreatedAt.IsZero() {
			continue
		}
		if !found || r.CreatedAt.Before(earliest) {
			earliest = r.CreatedAt
			found = true
		}
	}
	return earliest, found
}
