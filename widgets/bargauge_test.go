package widgets_test

import (
	"strings"
	"testing"

	"github.com/deevus/compliance-tui/widgets"
)

func TestBarGauge_Draw(t *testing.T) {
	bg := &widgets.BarGauge{
		Label:    "NOW",
		Value:    42.5,
		Suffix:   "+1.2 pts",
		BarWidth: 20,
	}

	ctx := testDrawContext(80, 1)
	s, err := bg.Draw(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Size.Height != 1 {
		t.Errorf("expected height=1, got %d", s.Size.Height)
	}
	row := rowText(s, 0)
	if !strings.HasPrefix(row, "NOW  [") {
		t.Errorf("expected label and bracket, got %q", row)
	}
	if !strings.Contains(row, " 42.5%  +1.2 pts") {
		t.Errorf("expected percentage and suffix, got %q", row)
	}
}

func TestBarGauge_Draw_FilledCells(t *testing.T) {
	bg := &widgets.BarGauge{Label: "NOW", Value: 50, BarWidth: 10}

	s, err := bg.Draw(testDrawContext(40, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	row := rowText(s, 0)
	if !strings.Contains(row, "[█████░░░░░]") {
		t.Errorf("expected half filled bar, got %q", row)
	}
}

func TestBarGauge_Draw_LabelWidth(t *testing.T) {
	bg := &widgets.BarGauge{Label: "LATEST", LabelWidth: 8, Value: 10, BarWidth: 4}

	s, err := bg.Draw(testDrawContext(40, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(rowText(s, 0), "LATEST   [") {
		t.Errorf("expected padded label, got %q", rowText(s, 0))
	}
}

func TestBarGauge_Draw_ClampNegative(t *testing.T) {
	bg := &widgets.BarGauge{Label: "NOW", Value: -10, BarWidth: 20}

	s, err := bg.Draw(testDrawContext(80, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(rowText(s, 0), "  0.0%") {
		t.Errorf("expected clamp to 0, got %q", rowText(s, 0))
	}
}

func TestBarGauge_Draw_ClampOver100(t *testing.T) {
	bg := &widgets.BarGauge{Label: "NOW", Value: 120, BarWidth: 20}

	s, err := bg.Draw(testDrawContext(80, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(rowText(s, 0), "100.0%") {
		t.Errorf("expected clamp to 100, got %q", rowText(s, 0))
	}
}

func TestBarGauge_Draw_ClipsToWidth(t *testing.T) {
	bg := &widgets.BarGauge{Label: "NOW", Value: 70, Suffix: "a long suffix", BarWidth: 30}

	s, err := bg.Draw(testDrawContext(12, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Size.Width != 12 {
		t.Errorf("expected width=12, got %d", s.Size.Width)
	}
}

func TestBarGauge_Draw_HighIsGood(t *testing.T) {
	bg := &widgets.BarGauge{Label: "NOW", Value: 95, BarWidth: 20, HighIsGood: true}

	if _, err := bg.Draw(testDrawContext(80, 1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
