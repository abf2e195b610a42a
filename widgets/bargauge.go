package widgets

import (
	"fmt"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
)

// BarGauge is a horizontal percentage gauge.
//
//	NOW  [████████████████░░░░]  81.3%  +2.1 pts
type BarGauge struct {
	Label      string  // left column, padded to LabelWidth
	LabelWidth int     // defaults to 4
	Value      float64 // 0.0–100.0
	Suffix     string  // dim text after the percentage
	BarWidth   int     // width of the bar excluding brackets
	HighIsGood bool    // colour high values green instead of red
}

const (
	barFilled = '█' // U+2588
	barEmpty  = '░' // U+2591
)

// barColor returns the colour for pct. Thresholds flip when high is good.
func barColor(pct float64, highIsGood bool) vaxis.Color {
	if highIsGood {
		pct = 100 - pct
	}
	switch {
	case pct >= 85:
		return vaxis.IndexColor(1) // red
	case pct >= 60:
		return vaxis.IndexColor(3) // yellow
	default:
		return vaxis.IndexColor(2) // green
	}
}

// Draw renders the gauge as a single row.
func (bg *BarGauge) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	s := vxfw.NewSurface(ctx.Max.Width, 1, bg)
	w := &rowWriter{surf: &s, ctx: ctx}

	labelWidth := bg.LabelWidth
	if labelWidth <= 0 {
		labelWidth = 4
	}
	w.write(fmt.Sprintf("%-*s ", labelWidth, bg.Label), vaxis.Style{Attribute: vaxis.AttrBold})
	w.write("[", vaxis.Style{})

	v := clampPercent(bg.Value)
	filled := int(v / 100 * float64(bg.BarWidth))
	fill := vaxis.Style{Foreground: barColor(v, bg.HighIsGood)}
	empty := vaxis.Style{Foreground: vaxis.IndexColor(8)}
	for i := 0; i < bg.BarWidth; i++ {
		if i < filled {
			w.write(string(barFilled), fill)
		} else {
			w.write(string(barEmpty), empty)
		}
	}

	w.write(fmt.Sprintf("] %5.1f%%", v), vaxis.Style{})
	if bg.Suffix != "" {
		w.write("  "+bg.Suffix, vaxis.Style{Attribute: vaxis.AttrDim})
	}
	return s, nil
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// rowWriter appends styled text to row 0 of a surface, clipping at its width.
type rowWriter struct {
	surf *vxfw.Surface
	ctx  vxfw.DrawContext
	col  uint16
}

func (w *rowWriter) write(text string, style vaxis.Style) {
	for _, ch := range w.ctx.Characters(text) {
		if w.col+uint16(ch.Width) > w.surf.Size.Width {
			return
		}
		w.surf.WriteCell(w.col, 0, vaxis.Cell{Character: ch, Style: style})
		w.col += uint16(ch.Width)
	}
}
