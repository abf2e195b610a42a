package widgets

import (
	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
)

// TableColumn defines a column in a Table.
type TableColumn struct {
	Width      int         // fixed character width
	AlignRight bool        // right-align text within the column
	Style      vaxis.Style // applied to all cells in this column
}

// Table renders rows of text with fixed-width columns.
// Each row is a []string matching the Columns slice.
type Table struct {
	Columns []TableColumn
	Rows    [][]string
	Header  []string // optional header row rendered with AttrDim
	Gap     int      // spaces between columns (default 1)
	Tail    bool     // when rows overflow, show the last rows instead of the first
}

// writeText writes s into surf at (col, row) within maxWidth.
// Right-aligned text is padded on the left.
func writeText(surf *vxfw.Surface, col, row uint16, maxWidth int, s string, style vaxis.Style, alignRight bool) {
	chars := vaxis.Characters(s)

	displayWidth := 0
	for _, ch := range chars {
		displayWidth += ch.Width
	}

	offset := 0
	if alignRight && displayWidth < maxWidth {
		offset = maxWidth - displayWidth
	}

	pos := offset
	for _, ch := range chars {
		if pos+ch.Width > maxWidth || int(col)+pos+ch.Width > int(surf.Size.Width) {
			break
		}
		surf.WriteCell(col+uint16(pos), row, vaxis.Cell{
			Character: ch,
			Style:     style,
		})
		pos += ch.Width
	}
}

func (t *Table) writeRow(surf *vxfw.Surface, row uint16, cells []string, header bool) {
	gap := t.Gap
	if gap == 0 {
		gap = 1
	}
	col := 0
	for i, c := range t.Columns {
		if col >= int(surf.Size.Width) {
			break
		}
		text := ""
		if i < len(cells) {
			text = cells[i]
		}
		style := c.Style
		if header {
			style = vaxis.Style{Attribute: vaxis.AttrDim}
		}
		writeText(surf, uint16(col), row, c.Width, text, style, c.AlignRight)
		col += c.Width + gap
	}
}

// Draw renders the table header (if set) and as many rows as fit.
func (t *Table) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	totalRows := len(t.Rows)
	if t.Header != nil {
		totalRows++
	}

	height := uint16(totalRows)
	if height > ctx.Max.Height {
		height = ctx.Max.Height
	}

	s := vxfw.NewSurface(ctx.Max.Width, height, t)
	row := uint16(0)

	if t.Header != nil && row < height {
		t.writeRow(&s, row, t.Header, true)
		row++
	}

	rows := t.Rows
	if avail := int(height - row); t.Tail && len(rows) > avail {
		rows = rows[len(rows)-avail:]
	}
	for _, cells := range rows {
		if row >= height {
			break
		}
		t.writeRow(&s, row, cells, false)
		row++
	}

	return s, nil
}
