package widgets

import (
	"fmt"
	"math"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
)

// Block characters giving 8 sub-levels per row.
var lineBlocks = [8]rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// ChartPoint is one plotted sample.
type ChartPoint struct {
	Label string // x-axis label, e.g. a date
	Value float64
}

// TrendChart renders a single-line trend over a fixed y range.
//
//	Compliance %                      ── compliance
//	100 ┤
//	 50 ┤      ▂▃▄▅▆▇
//	  0 ┤▁▂▃▄▅
//	    2024-05-01             2024-06-01
type TrendChart struct {
	YLabel     string
	Legend     string
	ShowLegend bool
	Points     []ChartPoint
	Min, Max   float64 // y range; Max <= Min means 0–100
	Color      vaxis.Color
}

const chartGutter = 5 // "100 ┤"

func (tc *TrendChart) yRange() (float64, float64) {
	if tc.Max <= tc.Min {
		return 0, 100
	}
	return tc.Min, tc.Max
}

// Columns maps points onto width plot columns. Extra points keep the most
// recent; fewer points are stretched so the line spans the plot.
func (tc *TrendChart) Columns(width int) []ChartPoint {
	n := len(tc.Points)
	if n == 0 || width <= 0 {
		return nil
	}
	if n >= width {
		return tc.Points[n-width:]
	}
	out := make([]ChartPoint, width)
	for col := range out {
		out[col] = tc.Points[col*n/width]
	}
	return out
}

// Level returns the sub-row level of v in a plot of the given height, in
// [0, height*8).
func (tc *TrendChart) Level(v float64, height int) int {
	lo, hi := tc.yRange()
	steps := height * len(lineBlocks)
	if steps <= 0 {
		return 0
	}
	frac := (v - lo) / (hi - lo)
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	return int(math.Round(frac * float64(steps-1)))
}

// Draw renders the title row, the plot, and an x-axis label row.
func (tc *TrendChart) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	s := vxfw.NewSurface(ctx.Max.Width, ctx.Max.Height, tc)
	width := int(ctx.Max.Width)
	height := int(ctx.Max.Height)
	if height < 3 || width <= chartGutter {
		return s, nil
	}

	put := func(col, row int, text string, style vaxis.Style) {
		for _, ch := range ctx.Characters(text) {
			if col+ch.Width > width {
				return
			}
			s.WriteCell(uint16(col), uint16(row), vaxis.Cell{Character: ch, Style: style})
			col += ch.Width
		}
	}

	// Title row
	put(0, 0, tc.YLabel, vaxis.Style{Attribute: vaxis.AttrBold})
	lineStyle := vaxis.Style{Foreground: tc.Color}
	if tc.Color == 0 {
		lineStyle.Foreground = vaxis.IndexColor(6) // cyan
	}
	if tc.ShowLegend && tc.Legend != "" {
		legend := "── " + tc.Legend
		col := width - len([]rune(legend))
		if col > len(tc.YLabel)+1 {
			put(col, 0, legend, lineStyle)
		}
	}

	plotHeight := height - 2
	plotWidth := width - chartGutter
	lo, hi := tc.yRange()
	axis := vaxis.Style{Attribute: vaxis.AttrDim}

	// Y axis: top, middle and bottom labels
	for r := 0; r < plotHeight; r++ {
		label := "    "
		switch r {
		case 0:
			label = fmt.Sprintf("%3.0f ", hi)
		case plotHeight - 1:
			label = fmt.Sprintf("%3.0f ", lo)
		case (plotHeight - 1) / 2:
			label = fmt.Sprintf("%3.0f ", (hi+lo)/2)
		}
		put(0, 1+r, label+"┤", axis)
	}

	cols := tc.Columns(plotWidth)
	for i, p := range cols {
		level := tc.Level(p.Value, plotHeight)
		row := plotHeight - 1 - level/len(lineBlocks)
		put(chartGutter+i, 1+row, string(lineBlocks[level%len(lineBlocks)]), lineStyle)
	}

	// X axis: first and last label
	if len(cols) > 0 {
		first := cols[0].Label
		last := cols[len(cols)-1].Label
		put(chartGutter, height-1, first, axis)
		if last != first {
			col := width - len([]rune(last))
			if col > chartGutter+len([]rune(first)) {
				put(col, height-1, last, axis)
			}
		}
	}

	return s, nil
}
