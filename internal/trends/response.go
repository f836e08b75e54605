package trends

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/blockedby/jobtrends/internal/models"
)

const (
	unknownCompany    = "Unknown"
	topCompaniesLimit = 10
)

// ResponseStats holds overall response times in whole days.
// Each field is nil when no application has a measurable response.
type ResponseStats struct {
	Average *int `json:"average"`
	Median  *int `json:"median"`
	Fastest *int `json:"fastest"`
	Slowest *int `json:"slowest"`
}

// CompanyResponse is the average response time for one company.
type CompanyResponse struct {
	Company     string `json:"company"`
	AverageDays int    `json:"average_days"`
	Count       int    `json:"count"`
}

// BenchmarkComparison places an average against a benchmark window.
type BenchmarkComparison string

// BenchmarkComparison constants.
const (
	FasterThanBenchmark BenchmarkComparison = "faster"
	WithinBenchmark     BenchmarkComparison = "within"
	SlowerThanBenchmark BenchmarkComparison = "slower"
)

// ChannelResponse is the average response time for one application source,
// next to the benchmark window for that source when one exists.
type ChannelResponse struct {
	Channel     models.Source       `json:"channel"`
	AverageDays int                 `json:"average_days"`
	Count       int                 `json:"count"`
	Benchmark   *IntRange           `json:"benchmark,omitempty"`
	Versus      BenchmarkComparison `json:"versus,omitempty"`
}

// DistributionBucket counts response times within [MinDays, MaxDays].
// MaxDays is nil for the open-ended last bucket.
type DistributionBucket struct {
	Label      string  `json:"label"`
	MinDays    int     `json:"min_days"`
	MaxDays    *int    `json:"max_days"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// ResponseTimeAnalytics is the output of ComputeResponseTimes.
type ResponseTimeAnalytics struct {
	Overall      ResponseStats        `json:"overall"`
	ByCompany    []CompanyResponse    `json:"by_company"`
	ByChannel    []ChannelResponse    `json:"by_channel"`
	Distribution []DistributionBucket `json:"distribution"`
	Responded    int                  `json:"responded"`
}

type distributionBound struct {
	label string
	min   int
	max   int // -1 means unbounded
}

var distributionBounds = []distributionBound{
	{"0-7 days", 0, 7},
	{"8-14 days", 8, 14},
	{"15-30 days", 15, 30},
	{"31-60 days", 31, 60},
	{"61+ days", 61, -1},
}

// ResponseDays returns whole days between the "applied" history entry and
// the entry right after it. ok is false when the application never got a
// response, was withdrawn, or the history cannot produce a non-negative span.
func ResponseDays(app *models.Application) (days int, ok bool) {
	if app == nil || app.AppliedAt == nil {
		return 0, false
	}
	switch app.Status {
	case models.StatusSaved, models.StatusApplied, models.StatusWithdrawn:
		return 0, false
	}

	applied := -1
	for i, change := range app.StatusHistory {
		if change.Status == models.StatusApplied {
			applied = i
			break
		}
	}
	if applied < 0 || applied == len(app.StatusHistory)-1 {
		return 0, false
	}

	days = daysBetween(app.StatusHistory[applied].Timestamp, app.StatusHistory[applied+1].Timestamp)
	if days < 0 {
		return 0, false
	}
	return days, true
}

// ComputeResponseTimes aggregates ResponseDays over all records.
func ComputeResponseTimes(records []*models.Application) ResponseTimeAnalytics {
	var all []int
	byCompany := make(map[string][]int)
	byChannel := make(map[models.Source][]int)
	var order []string
	var channels []models.Source

	for _, rec := range records {
		days, ok := ResponseDays(rec)
		if !ok {
			continue
		}
		all = append(all, days)

		company := strings.TrimSpace(rec.Company)
		if company == "" {
			company = unknownCompany
		}
		if _, seen := byCompany[company]; !seen {
			order = append(order, company)
		}
		byCompany[company] = append(byCompany[company], days)

		channel := rec.Source
		if channel == "" {
			channel = models.SourceOther
		}
		if _, seen := byChannel[channel]; !seen {
			channels = append(channels, channel)
		}
		byChannel[channel] = append(byChannel[channel], days)
	}

	return ResponseTimeAnalytics{
		Overall:      overallStats(all),
		ByCompany:    topCompanies(byCompany, order),
		ByChannel:    channelResponses(byChannel, channels),
		Distribution: distribution(all),
		Responded:    len(all),
	}
}

func overallStats(days []int) ResponseStats {
	if len(days) == 0 {
		return ResponseStats{}
	}

	sorted := append([]int(nil), days...)
	sort.Ints(sorted)

	avg := roundedMean(sorted)
	var median int
	n := len(sorted)
	if n%2 == 1 {
		median = sorted[n/2]
	} else {
		median = int(math.Round(float64(sorted[n/2-1]+sorted[n/2]) / 2))
	}
	fastest, slowest := sorted[0], sorted[n-1]

	return ResponseStats{
		Average: &avg,
		Median:  &median,
		Fastest: &fastest,
		Slowest: &slowest,
	}
}

func topCompanies(byCompany map[string][]int, order []string) []CompanyResponse {
	out := make([]CompanyResponse, 0, len(order))
	for _, company := range order {
		days := byCompany[company]
		out = append(out, CompanyResponse{
			Company:     company,
			AverageDays: roundedMean(days),
			Count:       len(days),
		})
	}

	// stable keeps first-seen order among equal counts
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})

	if len(out) > topCompaniesLimit {
		out = out[:topCompaniesLimit]
	}
	return out
}

func channelResponses(byChannel map[models.Source][]int, order []models.Source) []ChannelResponse {
	out := make([]ChannelResponse, 0, len(order))
	for _, channel := range order {
		days := byChannel[channel]
		cr := ChannelResponse{
			Channel:     channel,
			AverageDays: roundedMean(days),
			Count:       len(days),
		}
		if bench, ok := ResponseTimeForChannel(string(channel)); ok {
			cr.Benchmark = &bench
			switch {
			case cr.AverageDays < bench.Min:
				cr.Versus = FasterThanBenchmark
			case cr.AverageDays > bench.Max:
				cr.Versus = SlowerThanBenchmark
			default:
				cr.Versus = WithinBenchmark
			}
		}
		out = append(out, cr)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

func distribution(days []int) []DistributionBucket {
	buckets := make([]DistributionBucket, len(distributionBounds))
	for i, b := range distributionBounds {
		buckets[i] = DistributionBucket{Label: b.label, MinDays: b.min}
		if b.max >= 0 {
			upper := b.max
			buckets[i].MaxDays = &upper
		}
	}

	for _, d := range days {
		for i, b := range distributionBounds {
			if d >= b.min && (b.max < 0 || d <= b.max) {
				buckets[i].Count++
				break
			}
		}
	}

	total := len(days)
	for i := range buckets {
		buckets[i].Percentage = percentage(buckets[i].Count, total)
	}
	return buckets
}

func roundedMean(values []int) int {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return int(math.Round(float64(sum) / float64(len(values))))
}

// percentage rounds to one decimal place; zero total yields zero.
func percentage(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(count)/float64(total)*1000) / 10
}

// daysBetween is the whole number of days from a to b, floored.
func daysBetween(a, b time.Time) int {
	return int(math.Floor(b.Sub(a).Hours() / 24))
}
