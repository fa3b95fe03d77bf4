package tui

import (
	"fmt"
	"strings"

	"github.com/amellido/triagetui/internal/services"
	"github.com/derailed/tview"
	"github.com/mattn/go-runewidth"
)

// AnalyticsChart is the owned chart resource. The dashboard holds at most
// one live instance: installChart disposes the previous one before creating
// the replacement, never appends.
type AnalyticsChart struct {
	view   *tview.TextView
	closed bool
}

// NewAnalyticsChart acquires a fresh chart surface.
func NewAnalyticsChart() *AnalyticsChart {
	view := tview.NewTextView().SetDynamicColors(true)
	return &AnalyticsChart{view: view}
}

// View exposes the chart primitive for layout placement.
func (c *AnalyticsChart) View() tview.Primitive {
	return c.view
}

// Render draws the series as horizontal bars. A closed chart ignores the
// call.
func (c *AnalyticsChart) Render(series []services.ChartPoint, width int) {
	if c.closed {
		return
	}
	c.view.SetText(renderBars(series, width))
}

// Close releases the chart; it will not draw again.
func (c *AnalyticsChart) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.view.SetText("")
}

// renderBars lays out one labelled bar per point, scaled to the widest bar
// that fits. Zero-valued points still get their label so the series order
// stays readable.
func renderBars(series []services.ChartPoint, width int) string {
	if len(series) == 0 {
		return ""
	}

	labelWidth := 0
	maxValue := 0
	for _, p := range series {
		if w := runewidth.StringWidth(p.Label); w > labelWidth {
			labelWidth = w
		}
		if p.Value > maxValue {
			maxValue = p.Value
		}
	}

	barWidth := width - labelWidth - 8
	if barWidth < 4 {
		barWidth = 4
	}

	var b strings.Builder
	for _, p := range series {
		bar := ""
		if maxValue > 0 && p.Value > 0 {
			n := p.Value * barWidth / maxValue
			if n == 0 {
				n = 1
			}
			bar = strings.Repeat("█", n)
		}
		fmt.Fprintf(&b, " %s%s %s %d\n",
			p.Label,
			strings.Repeat(" ", labelWidth-runewidth.StringWidth(p.Label)),
			bar,
			p.Value,
		)
	}
	return b.String()
}

// installChart swaps in a freshly rendered chart, disposing the prior one
// first. Must run on the UI thread.
func (a *App) installChart(series []services.ChartPoint) {
	if a.chartContainer == nil {
		a.logger.Error().Msg("chart container missing; skipping chart update")
		return
	}

	if a.chart != nil {
		a.chart.Close()
		a.chartContainer.Clear()
	}

	a.chart = NewAnalyticsChart()
	_, _, w, _ := a.chartContainer.GetInnerRect()
	if w <= 0 {
		w = 40
	}
	a.chart.Render(series, w)
	a.chartContainer.AddItem(a.chart.View(), 0, 1, false)
}
