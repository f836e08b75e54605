package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/blockedby/jobtrends/internal/logger"
	"github.com/blockedby/jobtrends/internal/metrics"
	"github.com/blockedby/jobtrends/internal/models"
	"github.com/blockedby/jobtrends/internal/repository"
	"github.com/blockedby/jobtrends/internal/trends"
)

// TrendsHandler serves analytics computed over the tracked applications.
type TrendsHandler struct {
	records RecordLister
	market  MarketProvider
	log     *logger.Logger
	now     func() time.Time
}

// NewTrendsHandler creates a trends handler. A nil market provider means
// live=true still answers with static benchmarks.
func NewTrendsHandler(records RecordLister, market MarketProvider) *TrendsHandler {
	return &TrendsHandler{
		records: records,
		market:  market,
		log:     logger.Get().Component("trends-api"),
		now:     time.Now,
	}
}

// trendsQuery holds the parsed query parameters shared by every view.
type trendsQuery struct {
	rng  trends.Range
	now  time.Time
	live bool
}

// parseQuery reads ?range=, ?tz= and ?live=. Calendar math runs in the tz
// location, UTC when absent.
func (h *TrendsHandler) parseQuery(w http.ResponseWriter, r *http.Request) (trendsQuery, bool) {
	q := r.URL.Query()

	rng, err := trends.ParseRange(q.Get("range"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return trendsQuery{}, false
	}

	loc := time.UTC
	if tz := q.Get("tz"); tz != "" {
		loc, err = time.LoadLocation(tz)
		if err != nil {
			respondError(w, http.StatusBadRequest, "unknown time zone: "+tz)
			return trendsQuery{}, false
		}
	}

	live := false
	if s := q.Get("live"); s != "" {
		live, err = strconv.ParseBool(s)
		if err != nil {
			respondError(w, http.StatusBadRequest, "live must be a boolean")
			return trendsQuery{}, false
		}
	}

	return trendsQuery{rng: rng, now: h.now().In(loc), live: live}, true
}

func (h *TrendsHandler) snapshot(w http.ResponseWriter, r *http.Request) ([]*models.Application, bool) {
	records, err := h.records.List(r.Context(), repository.ApplicationFilter{})
	if err != nil {
		h.log.Error().Err(err).Msg("failed to load applications")
		respondError(w, http.StatusInternalServerError, "failed to load applications")
		return nil, false
	}
	return records, true
}

func (h *TrendsHandler) benchmarks(r *http.Request, live bool) trends.MarketBenchmarks {
	if !live || h.market == nil {
		return trends.StaticMarketBenchmarks
	}
	return h.market.LiveBenchmarks(r.Context())
}

// TimeSeries returns bucketed counts for the range.
// GET /api/v1/trends/timeseries?range=
func (h *TrendsHandler) TimeSeries(w http.ResponseWriter, r *http.Request) {
	q, ok := h.parseQuery(w, r)
	if !ok {
		return
	}
	records, ok := h.snapshot(w, r)
	if !ok {
		return
	}

	start := time.Now()
	window := trends.DateRangeFor(q.rng, records, q.now)
	points := trends.ComputeTimeSeries(records, q.rng, q.now)
	metrics.ObserveTrend("timeseries", time.Since(start).Seconds())

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"range":       q.rng,
		"granularity": window.Granularity,
		"points":      points,
	})
}

// Velocity returns the application pace for the range.
// GET /api/v1/trends/velocity?range=
func (h *TrendsHandler) Velocity(w http.ResponseWriter, r *http.Request) {
	q, ok := h.parseQuery(w, r)
	if !ok {
		return
	}
	records, ok := h.snapshot(w, r)
	if !ok {
		return
	}

	start := time.Now()
	v := trends.ComputeVelocity(records, q.rng, q.now)
	metrics.ObserveTrend("velocity", time.Since(start).Seconds())

	respondJSON(w, http.StatusOK, v)
}

// ResponseTimes returns employer response time analytics.
// GET /api/v1/trends/response-times
func (h *TrendsHandler) ResponseTimes(w http.ResponseWriter, r *http.Request) {
	records, ok := h.snapshot(w, r)
	if !ok {
		return
	}

	start := time.Now()
	a := trends.ComputeResponseTimes(records)
	metrics.ObserveTrend("response_times", time.Since(start).Seconds())

	respondJSON(w, http.StatusOK, a)
}

// ProbabilityResponse is the success model evaluated for the current records.
type ProbabilityResponse struct {
	Factors             trends.SuccessFactors       `json:"factors"`
	Breakdown           trends.ProbabilityBreakdown `json:"breakdown"`
	Probability         float64                     `json:"probability"`
	AdjustedProbability float64                     `json:"adjusted_probability"`
	Market              trends.MarketBenchmarks     `json:"market"`
}

// Probability returns the success probability, market adjusted when live.
// GET /api/v1/trends/probability?range=&live=true
func (h *TrendsHandler) Probability(w http.ResponseWriter, r *http.Request) {
	q, ok := h.parseQuery(w, r)
	if !ok {
		return
	}
	records, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	mb := h.benchmarks(r, q.live)

	start := time.Now()
	velocity := trends.ComputeVelocity(records, q.rng, q.now)
	factors := trends.FactorsFromApplications(records, velocity, q.now)
	breakdown := trends.SuccessBreakdown(factors)
	resp := ProbabilityResponse{
		Factors:             factors,
		Breakdown:           breakdown,
		Probability:         breakdown.Total,
		AdjustedProbability: trends.AdjustedSuccessProbability(factors, mb),
		Market:              mb,
	}
	metrics.ObserveTrend("probability", time.Since(start).Seconds())

	respondJSON(w, http.StatusOK, resp)
}

// Overview returns every view for the range in one payload.
// GET /api/v1/trends/overview?range=&live=true
func (h *TrendsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	q, ok := h.parseQuery(w, r)
	if !ok {
		return
	}
	records, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	mb := h.benchmarks(r, q.live)

	start := time.Now()
	o := trends.BuildOverview(records, q.rng, q.now, mb)
	metrics.ObserveTrend("overview", time.Since(start).Seconds())

	respondJSON(w, http.StatusOK, o)
}
