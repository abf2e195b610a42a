package widgets_test

import (
	"strings"
	"testing"

	"github.com/deevus/compliance-tui/widgets"
)

func TestTabBar_Labels(t *testing.T) {
	tb := widgets.NewTabBar([]string{"aws-all", "azure", "gcp"})
	if tb.Active() != 0 {
		t.Errorf("expected initial active=0, got %d", tb.Active())
	}
	if tb.ActiveLabel() != "aws-all" {
		t.Errorf("expected active label aws-all, got %s", tb.ActiveLabel())
	}
	if len(tb.Labels()) != 3 {
		t.Errorf("expected 3 labels, got %d", len(tb.Labels()))
	}
}

func TestTabBar_Next(t *testing.T) {
	tb := widgets.NewTabBar([]string{"A", "B", "C"})
	tb.Next()
	if tb.Active() != 1 {
		t.Errorf("expected active=1, got %d", tb.Active())
	}
	tb.Next()
	tb.Next()
	if tb.Active() != 0 {
		t.Errorf("expected active=0 after wrap, got %d", tb.Active())
	}
}

func TestTabBar_Prev(t *testing.T) {
	tb := widgets.NewTabBar([]string{"A", "B", "C"})
	tb.Prev()
	if tb.Active() != 2 {
		t.Errorf("expected active=2 after backward wrap, got %d", tb.Active())
	}
	tb.Prev()
	if tb.Active() != 1 {
		t.Errorf("expected active=1, got %d", tb.Active())
	}
}

func TestTabBar_Empty(t *testing.T) {
	tb := widgets.NewTabBar(nil)
	tb.Next()
	tb.Prev()
	if tb.ActiveLabel() != "" {
		t.Errorf("expected empty label, got %q", tb.ActiveLabel())
	}
}

func TestTabBar_SetActive(t *testing.T) {
	tb := widgets.NewTabBar([]string{"A", "B", "C"})
	tb.SetActive(2)
	if tb.Active() != 2 {
		t.Errorf("expected active=2, got %d", tb.Active())
	}
	tb.SetActive(5)
	if tb.Active() != 2 {
		t.Errorf("expected active=2 (ignored), got %d", tb.Active())
	}
	tb.SetActive(-1)
	if tb.Active() != 2 {
		t.Errorf("expected active=2 (ignored negative), got %d", tb.Active())
	}
}

func TestTabBar_SetActiveLabel(t *testing.T) {
	tb := widgets.NewTabBar([]string{"aws-all", "azure"})
	if !tb.SetActiveLabel("azure") || tb.Active() != 1 {
		t.Errorf("expected azure to become active, got %d", tb.Active())
	}
	if tb.SetActiveLabel("missing") {
		t.Error("expected unknown label to be rejected")
	}
	if tb.Active() != 1 {
		t.Errorf("expected active unchanged, got %d", tb.Active())
	}
}

func TestTabBar_Draw(t *testing.T) {
	tb := widgets.NewTabBar([]string{"aws-all", "azure"})
	tb.Title = "Asset group"
	ctx := testDrawContext(80, 1)

	s, err := tb.Draw(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Size.Height != 1 || s.Size.Width != 80 {
		t.Errorf("expected 80x1 surface, got %dx%d", s.Size.Width, s.Size.Height)
	}
	if !strings.HasPrefix(rowText(s, 0), " Asset group: aws-all | azure") {
		t.Errorf("unexpected row %q", rowText(s, 0))
	}
}

func TestTabBar_Draw_Clips(t *testing.T) {
	tb := widgets.NewTabBar([]string{"a-very-long-asset-group", "another-long-one"})
	s, err := tb.Draw(testDrawContext(10, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Size.Width != 10 {
		t.Errorf("expected width=10, got %d", s.Size.Width)
	}
}
