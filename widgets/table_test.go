package widgets_test

import (
	"testing"

	"git.sr.ht/~rockorager/vaxis"
	"github.com/deevus/compliance-tui/widgets"
)

func cellText(s vaxis.Cell) string {
	return s.Character.Grapheme
}

func TestTable_Draw_AlignedColumns(t *testing.T) {
	tbl := &widgets.Table{
		Columns: []widgets.TableColumn{
			{Width: 10},
			{Width: 6, AlignRight: true},
			{Width: 8, AlignRight: true},
		},
		Header: []string{"DATE", "PCT", "DELTA"},
		Rows: [][]string{
			{"2024-05-01", "81.2%", "+0.4"},
			{"2024-05-02", "81.6%", "+0.4"},
		},
		Gap: 2,
	}

	ctx := testDrawContext(40, 10)
	surf, err := tbl.Draw(ctx)
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}

	// Should have 3 rows: header + 2 data
	if surf.Size.Height != 3 {
		t.Fatalf("expected height=3, got %d", surf.Size.Height)
	}

	if g := cellText(surf.Buffer[0]); g != "D" {
		t.Errorf("header col 0: expected 'D', got %q", g)
	}

	// "PCT" is right-aligned in width 6 starting at col 12 (10+2 gap), so col 15.
	if g := cellText(surf.Buffer[15]); g != "P" {
		t.Errorf("header PCT col 15: expected 'P', got %q", g)
	}

	// Data row 1 starts at offset 1*40
	if g := cellText(surf.Buffer[40]); g != "2" {
		t.Errorf("row1 col 0: expected '2', got %q", g)
	}

	// "81.2%" is 5 chars, right-aligned in 6 = 1 offset, col 13
	if g := cellText(surf.Buffer[40+13]); g != "8" {
		t.Errorf("row1 pct col 13: expected '8', got %q", g)
	}

	// Both percentages start at the same column (13)
	if g := cellText(surf.Buffer[80+13]); g != "8" {
		t.Errorf("row2 pct col 13: expected '8', got %q", g)
	}
}

func TestTable_Draw_NoHeader(t *testing.T) {
	tbl := &widgets.Table{
		Columns: []widgets.TableColumn{
			{Width: 8},
			{Width: 6},
		},
		Rows: [][]string{
			{"hello", "world"},
		},
	}

	ctx := testDrawContext(30, 5)
	surf, err := tbl.Draw(ctx)
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}

	if surf.Size.Height != 1 {
		t.Errorf("expected height=1 (no header), got %d", surf.Size.Height)
	}
}

func TestTable_Draw_TruncatesLongText(t *testing.T) {
	tbl := &widgets.Table{
		Columns: []widgets.TableColumn{
			{Width: 4},
		},
		Rows: [][]string{
			{"toolongname"},
		},
	}

	ctx := testDrawContext(20, 5)
	surf, err := tbl.Draw(ctx)
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}

	if g := cellText(surf.Buffer[0]); g != "t" {
		t.Errorf("col 0: expected 't', got %q", g)
	}
	if g := cellText(surf.Buffer[3]); g != "l" {
		t.Errorf("col 3: expected 'l', got %q", g)
	}
	if g := cellText(surf.Buffer[4]); g != "" {
		t.Errorf("col 4: expected empty, got %q", g)
	}
}

func TestTable_Draw_Tail(t *testing.T) {
	tbl := &widgets.Table{
		Columns: []widgets.TableColumn{{Width: 4}},
		Header:  []string{"N"},
		Rows:    [][]string{{"a"}, {"b"}, {"c"}, {"d"}},
		Tail:    true,
	}

	surf, err := tbl.Draw(testDrawContext(10, 3))
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}

	// Header plus the last two rows
	if g := cellText(surf.Buffer[10]); g != "c" {
		t.Errorf("row1: expected 'c', got %q", g)
	}
	if g := cellText(surf.Buffer[20]); g != "d" {
		t.Errorf("row2: expected 'd', got %q", g)
	}
}
