package eval

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// RenderRegretChart writes a cumulative-regret line chart for one or more
// completed runs.
func RenderRegretChart(w io.Writer, results []Result) error {
	if len(results) == 0 {
		return fmt.Errorf("no results to plot")
	}

	numSteps := 0
	for _, r := range results {
		if len(r.RegretCurve) > numSteps {
			numSteps = len(r.RegretCurve)
		}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: "cumulative regret",
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: "shine",
		}),
	)

	var steps []string
	for i := 0; i < numSteps; i++ {
		steps = append(steps, fmt.Sprintf("%d", i))
	}
	line = line.SetXAxis(steps)

	for _, r := range results {
		items := make([]opts.LineData, 0, len(r.RegretCurve))
		for _, v := range r.RegretCurve {
			items = append(items, opts.LineData{Value: v})
		}
		line.AddSeries(r.Agent, items)
	}

	page := components.NewPage()
	page.AddCharts(line)
	return page.Render(w)
}

// WriteRegretChart renders to an HTML file, creating parent directories
// as needed.
func WriteRegretChart(path string, results []Result) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create chart dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}
	defer f.Close()

	return RenderRegretChart(f, results)
}
