package trends

import (
	"time"

	"github.com/blockedby/jobtrends/internal/models"
)

// Overview bundles every derived view for one range.
type Overview struct {
	Range               Range                 `json:"range"`
	Window              DateRange             `json:"window"`
	TimeSeries          []TimeSeriesPoint     `json:"time_series"`
	Velocity            VelocityMetrics       `json:"velocity"`
	ResponseTimes       ResponseTimeAnalytics `json:"response_times"`
	Factors             SuccessFactors        `json:"factors"`
	Probability         ProbabilityBreakdown  `json:"probability"`
	AdjustedProbability float64               `json:"adjusted_probability"`
	Market              MarketBenchmarks      `json:"market"`
	Seasonal            Seasonal              `json:"seasonal"`
	WeeksToOffer        *int                  `json:"weeks_to_offer"`
	GeneratedAt         time.Time             `json:"generated_at"`
}

// BuildOverview computes every analytic over the same snapshot.
func BuildOverview(records []*models.Application, r Range, now time.Time, market MarketBenchmarks) Overview {
	velocity := ComputeVelocity(records, r, now)
	factors := FactorsFromApplications(records, velocity, now)

	// month index is always valid here
	seasonal, _ := SeasonalRecommendation(int(now.Month()) - 1)

	return Overview{
		Range:               r,
		Window:              DateRangeFor(r, records, now),
		TimeSeries:          ComputeTimeSeries(records, r, now),
		Velocity:            velocity,
		ResponseTimes:       ComputeResponseTimes(records),
		Factors:             factors,
		Probability:         SuccessBreakdown(factors),
		AdjustedProbability: AdjustedSuccessProbability(factors, market),
		Market:              market,
		Seasonal:            seasonal,
		WeeksToOffer:        EstimateWeeksToOffer(factors.ApplicationVolume, factors.WeeklyRate, factors.InterviewRate),
		GeneratedAt:         now,
	}
}
