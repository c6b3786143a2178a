package monitor

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"smole/internal/volstats"
)

// handleVolumeChart renders an HTML bar chart of the sorted volume
// distribution using go-echarts. This is a debugging endpoint (no auth) to
// eyeball natural gaps without a frontend; the log axis makes multiplicative
// jumps show up as visible steps.
func (ws *WebServer) handleVolumeChart(w http.ResponseWriter, r *http.Request) {
	stats, pop, _ := volstats.AnalyzeWithOptions(ws.scn.Objects(), ws.measureFn, ws.cfg.StatsOptions())
	if stats.NoData {
		ws.writeJSONError(w, http.StatusNotFound, "no valid objects in scene")
		return
	}

	names := make([]string, len(pop))
	data := make([]opts.BarData, len(pop))
	for i, e := range pop {
		names[i] = e.ID
		data[i] = opts.BarData{Value: e.Volume}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Volume Distribution", Theme: "dark", Width: "1200px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Scene Volume Distribution",
			Subtitle: fmt.Sprintf("objects=%d median=%.4g mean=%.4g gaps=%d", stats.Count, stats.Median, stats.Mean, len(stats.Gaps)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "volume", Type: "log"}),
	)
	bar.SetXAxis(names)
	bar.AddSeries("volume", data)

	var buf bytes.Buffer
	if err := bar.Render(&buf); err != nil {
		ws.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to render chart: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
