// Package report renders a ready comparison session into a standalone HTML
// page of aligned metric charts.
package report

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/strideworks/gaitalign/pkg/model"
	"github.com/strideworks/gaitalign/pkg/session"
	"github.com/strideworks/gaitalign/pkg/usecase"
)

// Render writes the HTML comparison report for a ready session.
func Render(s *session.Session, w io.Writer) error {
	if s.State() != session.Ready {
		return fmt.Errorf("report requires a ready session: %w", model.ErrSessionNotReady)
	}

	results, err := collectResults(s)
	if err != nil {
		return err
	}

	page := components.NewPage()
	page.PageTitle = "Gait Comparison Report"

	for _, name := range usecase.FrameMetricNames {
		page.AddCharts(metricChart(s, results, name))
	}
	page.AddCharts(cadenceChart(s))

	return page.Render(w)
}

// RenderFile writes the report to path.
func RenderFile(s *session.Session, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer f.Close()
	return Render(s, f)
}

func collectResults(s *session.Session) ([]*model.ComparisonResult, error) {
	track := s.Track(session.SlotA)
	results := make([]*model.ComparisonResult, 0, track.Len())
	for i := 0; i < track.Len(); i++ {
		res, err := s.CompareFrame(i)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// metricChart plots one per-frame metric across A's aligned frames: the A
// value, the B value at the mapped position, and their delta. Invalid samples
// leave gaps instead of zeros.
func metricChart(s *session.Session, results []*model.ComparisonResult, name string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: "macarons"}),
		charts.WithTitleOpts(opts.Title{
			Title:    name,
			Subtitle: fmt.Sprintf("%s vs %s", s.Track(session.SlotA).Name, s.Track(session.SlotB).Name),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)

	var xAxis []string
	var seriesA, seriesB, seriesD []opts.LineData
	for _, res := range results {
		if !res.Aligned {
			continue
		}
		d, ok := res.Deltas[name]
		xAxis = append(xAxis, strconv.Itoa(res.AFrame))
		if ok && d.Valid {
			seriesA = append(seriesA, opts.LineData{Value: d.ValueA})
			seriesB = append(seriesB, opts.LineData{Value: d.ValueB})
			seriesD = append(seriesD, opts.LineData{Value: d.Delta})
		} else {
			seriesA = append(seriesA, opts.LineData{Value: "-"})
			seriesB = append(seriesB, opts.LineData{Value: "-"})
			seriesD = append(seriesD, opts.LineData{Value: "-"})
		}
	}

	line.SetXAxis(xAxis)
	line.AddSeries("A", seriesA)
	line.AddSeries("B (aligned)", seriesB)
	line.AddSeries("delta", seriesD)
	line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
	return line
}

// cadenceChart plots per-cycle cadence of both tracks over the paired cycle
// ordinals.
func cadenceChart(s *session.Session) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: "macarons"}),
		charts.WithTitleOpts(opts.Title{Title: "cadence", Subtitle: "strides/min per paired cycle"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)

	comparisons, err := s.CycleComparisons()
	if err != nil {
		return line
	}

	var xAxis []string
	var seriesA, seriesB []opts.LineData
	for _, c := range comparisons {
		xAxis = append(xAxis, strconv.Itoa(c.Ordinal))
		seriesA = append(seriesA, cadencePoint(c.A))
		seriesB = append(seriesB, cadencePoint(c.B))
	}
	line.SetXAxis(xAxis)
	line.AddSeries("A", seriesA)
	line.AddSeries("B", seriesB)
	return line
}

func cadencePoint(cm model.CycleMetrics) opts.LineData {
	if !cm.Cadence.Valid {
		return opts.LineData{Value: "-"}
	}
	return opts.LineData{Value: cm.Cadence.Value}
}
