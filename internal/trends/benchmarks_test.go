package trends

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeasonalRecommendation(t *testing.T) {
	tests := []struct {
		month     int
		wantName  string
		wantScore int
		wantBand  SeasonalBand
	}{
		{0, "January", 9, BandPeak},
		{1, "February", 10, BandPeak},
		{3, "April", 8, BandGood},
		{5, "June", 6, BandModerate},
		{6, "July", 5, BandModerate},
		{10, "November", 5, BandModerate},
		{11, "December", 3, BandLow},
	}

	for _, tt := range tests {
		t.Run(tt.wantName, func(t *testing.T) {
			got, err := SeasonalRecommendation(tt.month)
			require.NoError(t, err)
			assert.Equal(t, tt.month, got.Month)
			assert.Equal(t, tt.wantName, got.Name)
			assert.Equal(t, tt.wantScore, got.Score)
			assert.Equal(t, tt.wantBand, got.Band)
			assert.NotEmpty(t, got.Message)
			assert.NotEmpty(t, got.Action)
		})
	}
}

func TestSeasonalRecommendation_PeakMessage(t *testing.T) {
	got, err := SeasonalRecommendation(1)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got.Message, "Peak hiring season"), got.Message)
}

func TestSeasonalRecommendation_InvalidMonth(t *testing.T) {
	for _, m := range []int{-1, 12, 99} {
		_, err := SeasonalRecommendation(m)
		assert.ErrorIs(t, err, ErrInvalidMonth)
	}
}

func TestEstimateWeeksToOffer(t *testing.T) {
	tests := []struct {
		name          string
		total         int
		weeklyRate    float64
		interviewRate float64
		want          *int
	}{
		{"zero rate", 10, 0, 0.05, nil},
		{"negative rate", 10, -2, 0.05, nil},
		{"fresh search at benchmark minimum", 0, 10, 0.03, intPtr(13)},
		{"no interviews falls back to minimum", 0, 10, 0, intPtr(13)},
		{"midway", 20, 5, 0.10, intPtr(4)},
		{"already past the needed volume", 500, 5, 0.10, intPtr(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateWeeksToOffer(tt.total, tt.weeklyRate, tt.interviewRate)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestBenchmarkTables_ReturnsCopy(t *testing.T) {
	tables := BenchmarkTables()
	tables.ResponseTimeByChannel["referral"] = IntRange{Min: 99, Max: 99}
	tables.SeasonalScores[0] = 0

	r, ok := ResponseTimeForChannel("referral")
	require.True(t, ok)
	assert.Equal(t, IntRange{Min: 3, Max: 7}, r)

	s, err := SeasonalRecommendation(0)
	require.NoError(t, err)
	assert.Equal(t, 9, s.Score)
}

func TestResponseTimeLookups(t *testing.T) {
	_, ok := ResponseTimeForChannel("carrier_pigeon")
	assert.False(t, ok)

	r, ok := BenchmarkTables().ResponseTimeByIndustry["government"]
	require.True(t, ok)
	assert.Equal(t, 30, r.Min)
}

func TestBuildOverview(t *testing.T) {
	records := spreadRecords()

	ov := BuildOverview(records, Range30Days, testNow, StaticMarketBenchmarks)

	assert.Equal(t, Range30Days, ov.Range)
	assert.Len(t, ov.TimeSeries, 30)
	assert.Equal(t, ComputeVelocity(records, Range30Days, testNow), ov.Velocity)
	assert.Equal(t, "March", ov.Seasonal.Name)
	assert.Equal(t, ov.Probability.Total, ov.AdjustedProbability)
	assert.False(t, ov.Market.IsLive)
	assert.Equal(t, testNow, ov.GeneratedAt)
}

func intPtr(v int) *int { return &v }
