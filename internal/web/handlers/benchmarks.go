package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/blockedby/jobtrends/internal/trends"
)

// BenchmarksHandler serves the static benchmark tables and helpers over them.
type BenchmarksHandler struct {
	market MarketProvider
	now    func() time.Time
}

// NewBenchmarksHandler creates a benchmarks handler.
func NewBenchmarksHandler(market MarketProvider) *BenchmarksHandler {
	return &BenchmarksHandler{
		market: market,
		now:    time.Now,
	}
}

// Tables returns every benchmark table.
// GET /api/v1/benchmarks
func (h *BenchmarksHandler) Tables(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, trends.BenchmarkTables())
}

// Seasonal returns the hiring outlook for a 0-based month, the current one
// by default.
// GET /api/v1/benchmarks/seasonal?month=
func (h *BenchmarksHandler) Seasonal(w http.ResponseWriter, r *http.Request) {
	month := int(h.now().Month()) - 1
	if s := r.URL.Query().Get("month"); s != "" {
		m, err := strconv.Atoi(s)
		if err != nil {
			respondError(w, http.StatusBadRequest, "month must be an integer")
			return
		}
		month = m
	}

	s, err := trends.SeasonalRecommendation(month)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, s)
}

// WeeksToOfferResponse carries the projection. Weeks is null when the weekly
// rate is zero.
type WeeksToOfferResponse struct {
	Weeks *int `json:"weeks"`
}

// WeeksToOffer projects the remaining weeks until an offer.
// GET /api/v1/benchmarks/weeks-to-offer?total=&rate=&interview_rate=
func (h *BenchmarksHandler) WeeksToOffer(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	total, err := intParam(q.Get("total"))
	if err != nil || total < 0 {
		respondError(w, http.StatusBadRequest, "total must be a non-negative integer")
		return
	}
	rate, err := floatParam(q.Get("rate"))
	if err != nil || rate < 0 {
		respondError(w, http.StatusBadRequest, "rate must be a non-negative number")
		return
	}
	interviewRate, err := floatParam(q.Get("interview_rate"))
	if err != nil || interviewRate < 0 || interviewRate > 1 {
		respondError(w, http.StatusBadRequest, "interview_rate must be between 0 and 1")
		return
	}

	respondJSON(w, http.StatusOK, WeeksToOfferResponse{
		Weeks: trends.EstimateWeeksToOffer(total, rate, interviewRate),
	})
}

// Market returns live benchmarks, or the static ones when unavailable.
// GET /api/v1/benchmarks/market
func (h *BenchmarksHandler) Market(w http.ResponseWriter, r *http.Request) {
	if h.market == nil {
		respondJSON(w, http.StatusOK, trends.StaticMarketBenchmarks)
		return
	}
	respondJSON(w, http.StatusOK, h.market.LiveBenchmarks(r.Context()))
}

func intParam(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func floatParam(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}
