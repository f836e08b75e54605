package trends

import (
	"errors"
	"maps"
	"math"
	"time"
)

// IntRange is an inclusive [Min, Max] range of whole numbers.
type IntRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// RateRange is an inclusive [Min, Max] range of fractions.
type RateRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// reference values from industry hiring data
var (
	OptimalWeeklyApplications  = IntRange{Min: 10, Max: 15}
	ApplicationsForOffer       = IntRange{Min: 100, Max: 200}
	ApplicationToInterviewRate = RateRange{Min: 0.03, Max: 0.08}
	InterviewToOfferRate       = RateRange{Min: 0.27, Max: 0.36}
)

// MedianSearchWeeks is the median length of a job search.
const MedianSearchWeeks = 10

// response times in days, keyed by application source
var responseTimeByChannel = map[string]IntRange{
	"referral":     {Min: 3, Max: 7},
	"recruiter":    {Min: 2, Max: 5},
	"company_site": {Min: 7, Max: 14},
	"job_board":    {Min: 10, Max: 21},
}

var responseTimeByIndustry = map[string]IntRange{
	"technology": {Min: 7, Max: 14},
	"finance":    {Min: 14, Max: 28},
	"healthcare": {Min: 10, Max: 21},
	"consulting": {Min: 7, Max: 14},
	"retail":     {Min: 5, Max: 10},
	"education":  {Min: 14, Max: 30},
	"government": {Min: 30, Max: 60},
}

// seasonalScores rates hiring activity per month, January first.
var seasonalScores = [12]int{9, 10, 9, 8, 7, 6, 5, 6, 9, 8, 5, 3}

// ErrInvalidMonth is returned for month indexes outside 0..11.
var ErrInvalidMonth = errors.New("month must be between 0 and 11")

// SeasonalBand groups seasonal scores.
type SeasonalBand string

// SeasonalBand constants.
const (
	BandPeak     SeasonalBand = "peak"
	BandGood     SeasonalBand = "good"
	BandModerate SeasonalBand = "moderate"
	BandLow      SeasonalBand = "low"
)

// Seasonal is the hiring outlook for a calendar month.
type Seasonal struct {
	Month   int          `json:"month"`
	Name    string       `json:"name"`
	Score   int          `json:"score"`
	Band    SeasonalBand `json:"band"`
	Message string       `json:"message"`
	Action  string       `json:"action"`
}

type bandCopy struct {
	message string
	action  string
}

var bandCopies = map[SeasonalBand]bandCopy{
	BandPeak: {
		message: "Peak hiring season. Companies are actively filling open roles.",
		action:  "Apply at the top of your weekly target and follow up quickly.",
	},
	BandGood: {
		message: "Good hiring activity with steady demand for candidates.",
		action:  "Keep a consistent weekly application pace.",
	},
	BandModerate: {
		message: "Moderate hiring activity. Some teams are slowing down.",
		action:  "Favour tailored applications and networking over volume.",
	},
	BandLow: {
		message: "Low hiring activity. Many companies pause recruiting.",
		action:  "Build referrals and polish your materials for the next upswing.",
	},
}

// SeasonalRecommendation maps a 0-based month index to its hiring outlook.
func SeasonalRecommendation(month int) (Seasonal, error) {
	if month < 0 || month > 11 {
		return Seasonal{}, ErrInvalidMonth
	}

	score := seasonalScores[month]
	band := BandLow
	switch {
	case score >= 9:
		band = BandPeak
	case score >= 7:
		band = BandGood
	case score >= 5:
		band = BandModerate
	}

	c := bandCopies[band]
	return Seasonal{
		Month:   month,
		Name:    time.Month(month + 1).String(),
		Score:   score,
		Band:    band,
		Message: c.message,
		Action:  c.action,
	}, nil
}

// EstimateWeeksToOffer projects how many more weeks of applying it takes to
// reach one offer at the benchmark interview-to-offer rate. It returns nil
// when the weekly rate is zero. A non-positive interview rate falls back to
// the benchmark minimum.
func EstimateWeeksToOffer(totalApps int, weeklyRate, interviewRate float64) *int {
	if weeklyRate <= 0 {
		return nil
	}

	effective := interviewRate
	if effective <= 0 {
		effective = ApplicationToInterviewRate.Min
	}

	needed := 1 / (effective * InterviewToOfferRate.Min)
	remaining := math.Max(needed-float64(totalApps), 0)
	weeks := int(math.Ceil(remaining / weeklyRate))
	return &weeks
}

// Tables is a read-only copy of every benchmark table.
type Tables struct {
	OptimalWeeklyApplications  IntRange            `json:"optimal_weekly_applications"`
	ApplicationsForOffer       IntRange            `json:"applications_for_offer"`
	ApplicationToInterviewRate RateRange           `json:"application_to_interview_rate"`
	InterviewToOfferRate       RateRange           `json:"interview_to_offer_rate"`
	MedianSearchWeeks          int                 `json:"median_search_weeks"`
	ResponseTimeByChannel      map[string]IntRange `json:"response_time_by_channel"`
	ResponseTimeByIndustry     map[string]IntRange `json:"response_time_by_industry"`
	SeasonalScores             [12]int             `json:"seasonal_scores"`
}

// BenchmarkTables returns a copy callers may modify freely.
func BenchmarkTables() Tables {
	return Tables{
		OptimalWeeklyApplications:  OptimalWeeklyApplications,
		ApplicationsForOffer:       ApplicationsForOffer,
		ApplicationToInterviewRate: ApplicationToInterviewRate,
		InterviewToOfferRate:       InterviewToOfferRate,
		MedianSearchWeeks:          MedianSearchWeeks,
		ResponseTimeByChannel:      maps.Clone(responseTimeByChannel),
		ResponseTimeByIndustry:     maps.Clone(responseTimeByIndustry),
		SeasonalScores:             seasonalScores,
	}
}

// ResponseTimeForChannel looks up the expected response window for a source.
func ResponseTimeForChannel(channel string) (IntRange, bool) {
	r, ok := responseTimeByChannel[channel]
	return r, ok
}
