package trends

import (
	"math"
	"time"

	"github.com/blockedby/jobtrends/internal/models"
)

// weights and saturation points of the success model
const (
	volumeWeight        = 0.30
	volumeSaturation    = 100.0
	rateWeight          = 0.20
	rateSaturation      = 10.0
	interviewWeight     = 0.30
	referralBonus       = 0.10
	longSearchPenalty   = 0.10
	longSearchThreshold = 2 * MedianSearchWeeks
)

// SuccessFactors are the inputs of the success model.
type SuccessFactors struct {
	ApplicationVolume int     `json:"application_volume"`
	WeeklyRate        float64 `json:"weekly_rate"`
	InterviewRate     float64 `json:"interview_rate"`
	ResponseRate      float64 `json:"response_rate"`
	HasReferrals      bool    `json:"has_referrals"`
	WeeksActive       int     `json:"weeks_active"`
}

// ProbabilityBreakdown exposes each term of the model.
type ProbabilityBreakdown struct {
	Volume      float64 `json:"volume"`
	Rate        float64 `json:"rate"`
	Interview   float64 `json:"interview"`
	Referral    float64 `json:"referral"`
	TimePenalty float64 `json:"time_penalty"`
	Total       float64 `json:"total"`
}

// FactorsFromApplications derives model inputs from a record snapshot.
// Volume counts every record past the saved stage, and both rates are taken
// over that volume so unsubmitted bookmarks do not dilute them.
func FactorsFromApplications(records []*models.Application, velocity VelocityMetrics, now time.Time) SuccessFactors {
	f := SuccessFactors{WeeklyRate: velocity.ApplicationsPerWeek}

	interviews, responses := 0, 0
	for _, rec := range records {
		if rec == nil {
			continue
		}
		if rec.Source == models.SourceReferral {
			f.HasReferrals = true
		}
		if rec.Status == models.StatusSaved {
			continue
		}
		f.ApplicationVolume++
		if rec.Status.IsInterview() {
			interviews++
		}
		if rec.Status.IsResponse() {
			responses++
		}
	}
	if f.ApplicationVolume > 0 {
		f.InterviewRate = float64(interviews) / float64(f.ApplicationVolume)
		f.ResponseRate = float64(responses) / float64(f.ApplicationVolume)
	}

	if earliest, ok := earliestCreated(records); ok {
		if days := daysBetween(earliest, now); days > 0 {
			f.WeeksActive = int(math.Ceil(float64(days) / 7))
		}
	}

	return f
}

// SuccessBreakdown scores the factors term by term.
func SuccessBreakdown(f SuccessFactors) ProbabilityBreakdown {
	b := ProbabilityBreakdown{
		Volume: clamp(float64(f.ApplicationVolume)/volumeSaturation, 0, 1) * volumeWeight,
		Rate:   clamp(f.WeeklyRate/rateSaturation, 0, 1) * rateWeight,
	}

	spread := ApplicationToInterviewRate.Max - ApplicationToInterviewRate.Min
	if spread > 0 {
		norm := (f.InterviewRate - ApplicationToInterviewRate.Min) / spread
		b.Interview = clamp(norm, 0, 1) * interviewWeight
	}

	if f.HasReferrals {
		b.Referral = referralBonus
	}
	if f.WeeksActive > longSearchThreshold {
		b.TimePenalty = -longSearchPenalty
	}

	b.Total = clamp(b.Volume+b.Rate+b.Interview+b.Referral+b.TimePenalty, 0, 1)
	return b
}

// SuccessProbability returns the chance of landing an offer, in [0, 1].
func SuccessProbability(f SuccessFactors) float64 {
	return SuccessBreakdown(f).Total
}

// AdjustedSuccessProbability shifts the base score by the live market
// condition. Static benchmarks leave the score unchanged.
func AdjustedSuccessProbability(f SuccessFactors, mb MarketBenchmarks) float64 {
	base := SuccessProbability(f)
	if !mb.IsLive {
		return base
	}
	return clamp(base+mb.Condition.Adjustment(), 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Min(math.Max(v, lo), hi)
}
