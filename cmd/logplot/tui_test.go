package main

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func press(m tuiModel, msg tea.KeyMsg) tuiModel {
	next, _ := m.Update(msg)
	return next.(tuiModel)
}

func TestTUI_Navigation(t *testing.T) {
	m := newTUIModel(synthDataset(t, 250, 100))
	if m.win.Start != 0 || m.win.MaxIndex() != 150 {
		t.Fatalf("initial window %+v", m.win)
	}
	m = press(m, tea.KeyMsg{Type: tea.KeyRight})
	if m.win.Start != 1 {
		t.Fatalf("right: start %d", m.win.Start)
	}
	m = press(m, tea.KeyMsg{Type: tea.KeyLeft})
	m = press(m, tea.KeyMsg{Type: tea.KeyLeft})
	if m.win.Start != 0 {
		t.Fatalf("left must clamp at 0, got %d", m.win.Start)
	}
	m = press(m, tea.KeyMsg{Type: tea.KeyPgDown})
	if m.win.Start != 100 {
		t.Fatalf("pgdown: start %d", m.win.Start)
	}
	m = press(m, tea.KeyMsg{Type: tea.KeyPgDown})
	if m.win.Start != 150 {
		t.Fatalf("pgdown must clamp at max index, got %d", m.win.Start)
	}
	m = press(m, tea.KeyMsg{Type: tea.KeyHome})
	if m.win.Start != 0 {
		t.Fatalf("home: start %d", m.win.Start)
	}
	m = press(m, tea.KeyMsg{Type: tea.KeyEnd})
	if m.win.Start != 150 || m.win.End() != 250 {
		t.Fatalf("end: window [%d,%d)", m.win.Start, m.win.End())
	}
}

func TestTUI_QuitAndView(t *testing.T) {
	m := newTUIModel(synthDataset(t, 30, 10))
	next, _ := m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	m = next.(tuiModel)
	if m.width != 60 || m.help.Width != 60 {
		t.Fatalf("resize not applied: width=%d help=%d", m.width, m.help.Width)
	}
	view := m.View()
	if !strings.Contains(view, "samples 0-9 of 30") {
		t.Fatalf("caption missing:\n%s", view)
	}
	if !strings.Contains(view, "Zoomed Detail") {
		t.Fatalf("detail section missing:\n%s", view)
	}
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}); cmd == nil {
		t.Fatalf("q should quit")
	}
}

func TestResample(t *testing.T) {
	vals := []float64{1, 3, 5, 7, 9, 11}
	got := resample(vals, 3)
	want := []float64{2, 6, 10}
	if len(got) != len(want) {
		t.Fatalf("len %d", len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("bucket %d = %v want %v", i, got[i], want[i])
		}
	}
	if short := resample(vals[:2], 10); len(short) != 2 {
		t.Fatalf("short series must not be stretched: %v", short)
	}
}

func TestSparkline(t *testing.T) {
	got := []rune(sparkline([]float64{0, 5, 10}, 0, 10))
	if len(got) != 3 || got[0] != '▁' || got[2] != '█' {
		t.Fatalf("sparkline %q", string(got))
	}
	flat := sparkline([]float64{4, 4}, 4, 4)
	if flat != "▁▁" {
		t.Fatalf("flat sparkline %q", flat)
	}
}

func TestBucket_CoversAllSamples(t *testing.T) {
	total, n := 17, 5
	next := 0
	for i := 0; i < n; i++ {
		from, to := bucket(i, n, total)
		if from != next || to <= from {
			t.Fatalf("bucket %d = [%d,%d) want start %d", i, from, to, next)
		}
		next = to
	}
	if next != total {
		t.Fatalf("buckets end at %d want %d", next, total)
	}
}
