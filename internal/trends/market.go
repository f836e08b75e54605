package trends

import "time"

// MarketCondition is a coarse reading of the labor market.
type MarketCondition string

// MarketCondition constants.
const (
	MarketHot  MarketCondition = "hot"
	MarketWarm MarketCondition = "warm"
	MarketCool MarketCondition = "cool"
	MarketCold MarketCondition = "cold"
)

// thresholds; rates in percent, openings in thousands
const (
	hotUnemploymentBelow  = 4.0
	hotOpeningsAbove      = 8000.0
	hotHiringRateAbove    = 4.0
	coldUnemploymentAbove = 6.0
	coldOpeningsBelow     = 5000.0
	coolUnemploymentAbove = 5.0
	coolOpeningsBelow     = 6000.0
)

// Adjustment is the offset applied to a success probability.
func (c MarketCondition) Adjustment() float64 {
	switch c {
	case MarketHot:
		return 0.15
	case MarketCool:
		return -0.10
	case MarketCold:
		return -0.20
	default:
		return 0
	}
}

// LaborIndicators are the national figures published by the labor market
// data source. Rates are percentages and openings are in thousands.
type LaborIndicators struct {
	NationalUnemploymentRate    float64  `json:"nationalUnemploymentRate"`
	JobOpenings                 float64  `json:"jobOpenings"`
	LaborForceParticipationRate float64  `json:"laborForceParticipationRate"`
	UnemploymentRateChange      float64  `json:"unemploymentRateChange"`
	MonthlyJobChange            float64  `json:"monthlyJobChange"`
	Inflation                   *float64 `json:"inflation,omitempty"`
	QuitsRate                   *float64 `json:"quitsRate,omitempty"`
	HiringRate                  *float64 `json:"hiringRate,omitempty"`
}

// ClassifyMarket derives the market condition from indicators.
// Without a hiring rate the market is never classified as hot.
func ClassifyMarket(ind LaborIndicators) MarketCondition {
	unemployment := ind.NationalUnemploymentRate
	openings := ind.JobOpenings

	switch {
	case unemployment < hotUnemploymentBelow && openings > hotOpeningsAbove &&
		ind.HiringRate != nil && *ind.HiringRate > hotHiringRateAbove:
		return MarketHot
	case unemployment > coldUnemploymentAbove || openings < coldOpeningsBelow:
		return MarketCold
	case unemployment > coolUnemploymentAbove || openings < coolOpeningsBelow:
		return MarketCool
	default:
		return MarketWarm
	}
}

// MarketBenchmarks are the benchmark values in effect, either the static
// tables or the static tables enriched with a live market reading.
type MarketBenchmarks struct {
	IsLive                     bool             `json:"is_live"`
	Condition                  MarketCondition  `json:"condition"`
	Indicators                 *LaborIndicators `json:"indicators,omitempty"`
	FetchedAt                  *time.Time       `json:"fetched_at,omitempty"`
	OptimalWeeklyApplications  IntRange         `json:"optimal_weekly_applications"`
	ApplicationsForOffer       IntRange         `json:"applications_for_offer"`
	ApplicationToInterviewRate RateRange        `json:"application_to_interview_rate"`
	InterviewToOfferRate       RateRange        `json:"interview_to_offer_rate"`
	MedianSearchWeeks          int              `json:"median_search_weeks"`
}

// StaticMarketBenchmarks is the fallback used whenever live data is unavailable.
var StaticMarketBenchmarks = MarketBenchmarks{
	IsLive:                     false,
	Condition:                  MarketWarm,
	OptimalWeeklyApplications:  OptimalWeeklyApplications,
	ApplicationsForOffer:       ApplicationsForOffer,
	ApplicationToInterviewRate: ApplicationToInterviewRate,
	InterviewToOfferRate:       InterviewToOfferRate,
	MedianSearchWeeks:          MedianSearchWeeks,
}

// LiveMarketBenchmarks builds live benchmarks from a successful reading.
func LiveMarketBenchmarks(ind LaborIndicators, fetchedAt time.Time) MarketBenchmarks {
	mb := StaticMarketBenchmarks
	mb.IsLive = true
	mb.Condition = ClassifyMarket(ind)
	mb.Indicators = &ind
	mb.FetchedAt = &fetchedAt
	return mb
}
