package widgets

import (
	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
)

// TabBar is a horizontal selector, used for asset groups.
type TabBar struct {
	Title  string // optional bold prefix, e.g. "Asset group"
	labels []string
	active int
}

// NewTabBar creates a TabBar with the given labels. Active defaults to 0.
func NewTabBar(labels []string) *TabBar {
	return &TabBar{labels: labels}
}

// Labels returns the tab labels.
func (tb *TabBar) Labels() []string {
	return tb.labels
}

// Active returns the currently active tab index.
func (tb *TabBar) Active() int {
	return tb.active
}

// ActiveLabel returns the label of the active tab, or "" when empty.
func (tb *TabBar) ActiveLabel() string {
	if tb.active < 0 || tb.active >= len(tb.labels) {
		return ""
	}
	return tb.labels[tb.active]
}

// SetActive sets the active tab index. Out-of-range values are ignored.
func (tb *TabBar) SetActive(i int) {
	if i >= 0 && i < len(tb.labels) {
		tb.active = i
	}
}

// SetActiveLabel activates the tab named label and reports whether it exists.
func (tb *TabBar) SetActiveLabel(label string) bool {
	for i, l := range tb.labels {
		if l == label {
			tb.active = i
			return true
		}
	}
	return false
}

// Next advances to the next tab, wrapping around.
func (tb *TabBar) Next() {
	if len(tb.labels) == 0 {
		return
	}
	tb.active = (tb.active + 1) % len(tb.labels)
}

// Prev moves to the previous tab, wrapping around.
func (tb *TabBar) Prev() {
	if len(tb.labels) == 0 {
		return
	}
	tb.active = (tb.active - 1 + len(tb.labels)) % len(tb.labels)
}

// Draw renders the bar as a single row: " Title: aws-all | azure "
// The active tab is rendered with reverse video; overflow is clipped.
func (tb *TabBar) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	s := vxfw.NewSurface(ctx.Max.Width, 1, tb)
	w := &rowWriter{surf: &s, ctx: ctx}

	if tb.Title != "" {
		w.write(" "+tb.Title+":", vaxis.Style{Attribute: vaxis.AttrBold})
	}
	for i, label := range tb.labels {
		if i > 0 {
			w.write(" |", vaxis.Style{Attribute: vaxis.AttrDim})
		}
		style := vaxis.Style{}
		if i == tb.active {
			style.Attribute |= vaxis.AttrReverse
		}
		w.write(" ", vaxis.Style{})
		w.write(label, style)
	}
	return s, nil
}
