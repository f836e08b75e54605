// Package report renders a trends overview for the terminal.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/blockedby/jobtrends/internal/trends"
)

// Format of the rendered report.
type Format string

// Format constants.
const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// Printer writes reports to out.
type Printer struct {
	out       io.Writer
	useColors bool
}

// NewPrinter creates a printer. Colors apply to section titles and the
// market condition only.
func NewPrinter(out io.Writer, useColors bool) *Printer {
	return &Printer{out: out, useColors: useColors}
}

// Print writes o in the given format.
func (p *Printer) Print(o trends.Overview, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(p.out)
		enc.SetIndent("", "  ")
		return enc.Encode(o)
	case FormatTable, "":
		return p.table(o)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

func (p *Printer) table(o trends.Overview) error {
	p.title(fmt.Sprintf("Overview (%s, %s to %s)", o.Range,
		o.Window.Start.Format("2006-01-02"), o.Window.End.Format("2006-01-02")))

	summary := [][]string{
		{"Applications", strconv.Itoa(o.Factors.ApplicationVolume)},
		{"Per week", fmt.Sprintf("%.1f", o.Velocity.ApplicationsPerWeek)},
		{"Trend", string(o.Velocity.Trend)},
		{"Interview rate", percent(o.Factors.InterviewRate)},
		{"Response rate", percent(o.Factors.ResponseRate)},
		{"Success probability", percent(o.Probability.Total)},
		{"Market adjusted", percent(o.AdjustedProbability)},
		{"Market", p.condition(o.Market)},
		{"Weeks to offer", weeks(o.WeeksToOffer)},
		{"Season", fmt.Sprintf("%s (%s, %d/10)", o.Seasonal.Name, o.Seasonal.Band, o.Seasonal.Score)},
	}
	if err := p.render(nil, summary); err != nil {
		return err
	}

	p.title("Weekly velocity")
	rows := make([][]string, 0, len(o.Velocity.Weekly))
	for _, w := range o.Velocity.Weekly {
		rows = append(rows, []string{w.Label, strconv.Itoa(w.Count)})
	}
	if err := p.render([]string{"Week", "Applications"}, rows); err != nil {
		return err
	}

	p.title("Response times")
	rows = make([][]string, 0, len(o.ResponseTimes.Distribution))
	for _, b := range o.ResponseTimes.Distribution {
		rows = append(rows, []string{b.Label, strconv.Itoa(b.Count), fmt.Sprintf("%.1f%%", b.Percentage)})
	}
	if err := p.render([]string{"Days", "Count", "Share"}, rows); err != nil {
		return err
	}

	if len(o.ResponseTimes.ByCompany) > 0 {
		p.title("Fastest responding companies")
		rows = make([][]string, 0, len(o.ResponseTimes.ByCompany))
		for _, c := range o.ResponseTimes.ByCompany {
			rows = append(rows, []string{c.Company, strconv.Itoa(c.AverageDays), strconv.Itoa(c.Count)})
		}
		if err := p.render([]string{"Company", "Avg days", "Responses"}, rows); err != nil {
			return err
		}
	}

	if len(o.ResponseTimes.ByChannel) > 0 {
		p.title("Response times by channel")
		rows = make([][]string, 0, len(o.ResponseTimes.ByChannel))
		for _, c := range o.ResponseTimes.ByChannel {
			bench, versus := "n/a", "-"
			if c.Benchmark != nil {
				bench = fmt.Sprintf("%d-%d", c.Benchmark.Min, c.Benchmark.Max)
				versus = string(c.Versus)
			}
			rows = append(rows, []string{string(c.Channel), strconv.Itoa(c.AverageDays), bench, versus})
		}
		if err := p.render([]string{"Channel", "Avg days", "Benchmark", "Versus"}, rows); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(p.out, "\n%s\n", o.Seasonal.Action)
	return err
}

func (p *Printer) title(text string) {
	c := color.New(color.FgWhite, color.Bold)
	if !p.useColors {
		c.DisableColor()
	}
	c.Fprintf(p.out, "\n%s\n", text)
}

func (p *Printer) condition(mb trends.MarketBenchmarks) string {
	label := string(mb.Condition)
	if !mb.IsLive {
		label += " (static)"
	}
	if !p.useColors {
		return label
	}

	var c *color.Color
	switch mb.Condition {
	case trends.MarketHot:
		c = color.New(color.FgGreen)
	case trends.MarketCool:
		c = color.New(color.FgYellow)
	case trends.MarketCold:
		c = color.New(color.FgRed)
	default:
		c = color.New(color.FgCyan)
	}
	return c.Sprint(label)
}

func (p *Printer) render(header []string, rows [][]string) error {
	table := tablewriter.NewTable(p.out,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{ShowHeader: tw.Off},
			},
		}),
	)

	if header != nil {
		table.Header(header)
	}
	if err := table.Bulk(rows); err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	return nil
}

func percent(v float64) string {
	return fmt.Sprintf("%.0f%%", v*100)
}

func weeks(w *int) string {
	if w == nil {
		return "n/a"
	}
	return strconv.Itoa(*w)
}
