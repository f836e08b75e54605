package report

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockedby/jobtrends/internal/models"
	"github.com/blockedby/jobtrends/internal/trends"
)

func sampleOverview(t *testing.T) trends.Overview {
	t.Helper()
	now := time.Date(2026, 3, 18, 12, 0, 0, 0, time.UTC)

	app := models.NewApplication("Acme", "SRE", time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	app.Source = models.SourceReferral
	require.NoError(t, app.TransitionTo(models.StatusApplied, time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC), nil))
	require.NoError(t, app.TransitionTo(models.StatusScreening, time.Date(2026, 3, 8, 9, 0, 0, 0, time.UTC), nil))

	return trends.BuildOverview([]*models.Application{app}, trends.Range30Days, now, trends.StaticMarketBenchmarks)
}

func TestPrinter_Table(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, false).Print(sampleOverview(t), FormatTable))

	out := buf.String()
	assert.Contains(t, out, "Overview (30d, 2026-02-17 to 2026-03-18)")
	assert.Contains(t, out, "warm (static)")
	assert.Contains(t, out, "Weekly velocity")
	assert.Contains(t, out, "0-7 days")
	assert.Contains(t, out, "Acme")
	assert.Contains(t, out, "March")
	assert.Contains(t, out, "Response times by channel")
	assert.Contains(t, out, "3-7")
	assert.Contains(t, out, "within")
	assert.NotContains(t, out, "\x1b[")
}

func TestPrinter_JSON(t *testing.T) {
	var buf bytes.Buffer
	o := sampleOverview(t)
	require.NoError(t, NewPrinter(&buf, false).Print(o, FormatJSON))

	var got trends.Overview
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, o.Range, got.Range)
	assert.Equal(t, o.Factors, got.Factors)
}

func TestPrinter_UnknownFormat(t *testing.T) {
	err := NewPrinter(&bytes.Buffer{}, false).Print(sampleOverview(t), Format("csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "csv")
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "n/a", weeks(nil))
	w := 3
	assert.Equal(t, "3", weeks(&w))
	assert.Equal(t, "14%", percent(0.136))
}
