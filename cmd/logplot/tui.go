package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/GKD-RM-Lab/logplot/src/logging"
	"github.com/GKD-RM-Lab/logplot/src/render"
)

const (
	defaultTUIWidth = 80
	labelWidth      = 18
)

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

type tuiKeyMap struct {
	Left     key.Binding
	Right    key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
	Help     key.Binding
	Quit     key.Binding
}

var tuiKeys = tuiKeyMap{
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "back 1"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "forward 1"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup", "b"),
		key.WithHelp("pgup/b", "back one window"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown", " "),
		key.WithHelp("pgdn/space", "forward one window"),
	),
	Home: key.NewBinding(
		key.WithKeys("home", "g"),
		key.WithHelp("g", "start"),
	),
	End: key.NewBinding(
		key.WithKeys("end", "G"),
		key.WithHelp("G", "end"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "toggle help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k tuiKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.PageDown, k.Help, k.Quit}
}

func (k tuiKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.PageUp, k.PageDown},
		{k.Home, k.End},
		{k.Help, k.Quit},
	}
}

var (
	titleStyle     = lipgloss.NewStyle().Bold(true)
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	highlightStyle = lipgloss.NewStyle().Background(lipgloss.Color("238"))
	captionStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236")).Padding(0, 1)
)

// tuiModel is the terminal viewer: the same window state as the desktop viewer, drawn as
// sparklines.
type tuiModel struct {
	data  *dataset
	win   render.Window
	keys  tuiKeyMap
	help  help.Model
	width int
}

func newTUIModel(data *dataset) tuiModel {
	return tuiModel{
		data:  data,
		win:   render.NewWindow(data.set.Len(), data.cfg.WindowSize),
		keys:  tuiKeys,
		help:  help.New(),
		width: defaultTUIWidth,
	}
}

func runTUI(data *dataset) error {
	release := logging.Hold()
	defer release()
	if _, err := tea.NewProgram(newTUIModel(data), tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("terminal viewer: %w", err)
	}
	return nil
}

func (m tuiModel) Init() tea.Cmd { return nil }

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Left):
			m.win = m.win.Step(-1)
		case key.Matches(msg, m.keys.Right):
			m.win = m.win.Step(1)
		case key.Matches(msg, m.keys.PageUp):
			m.win = m.win.Step(-m.win.Size)
		case key.Matches(msg, m.keys.PageDown):
			m.win = m.win.Step(m.win.Size)
		case key.Matches(msg, m.keys.Home):
			m.win = m.win.Apply(0)
		case key.Matches(msg, m.keys.End):
			m.win = m.win.Apply(m.win.MaxIndex())
		}
	}
	return m, nil
}

func (m tuiModel) View() string {
	set, v := m.data.set, m.data.variant
	plotW := m.width - labelWidth - 1
	if plotW < 10 {
		plotW = 10
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(v.OverviewTitle(m.data.logPath)))
	b.WriteString("\n")

	lo, hi, _ := set.Bounds(0, set.Len())
	for _, f := range v.Fields {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color("#" + f.Color))
		line := overviewStrip(set.Values(f.Name), m.win, plotW, lo, hi, style)
		fmt.Fprintf(&b, "%s %s\n", padLabel(f.Label), line)
	}

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("Zoomed Detail"))
	b.WriteString("\n")
	dlo, dhi, _ := set.Bounds(m.win.Start, m.win.End())
	for _, f := range v.Fields {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color("#" + f.Color))
		vals := set.Window(f.Name, m.win.Start, m.win.End())
		fmt.Fprintf(&b, "%s %s\n", padLabel(f.Label), style.Render(sparkline(resample(vals, plotW), dlo, dhi)))
	}
	fmt.Fprintf(&b, "%s %s\n", padLabel(""), mutedStyle.Render(fmt.Sprintf("y %s .. %s", render.FormatNumericTick(dlo), render.FormatNumericTick(dhi))))

	b.WriteString("\n")
	b.WriteString(captionStyle.Render(m.win.Caption()))
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func padLabel(s string) string {
	if r := []rune(s); len(r) > labelWidth {
		s = string(r[:labelWidth-1]) + "…"
	}
	return mutedStyle.Render(fmt.Sprintf("%-*s", labelWidth, s))
}

// resample averages values into at most n buckets.
func resample(values []float64, n int) []float64 {
	if n <= 0 || len(values) <= n {
		return append([]float64(nil), values...)
	}
	out := make([]float64, n)
	for i := range out {
		from, to := bucket(i, n, len(values))
		sum := 0.0
		for _, x := range values[from:to] {
			sum += x
		}
		out[i] = sum / float64(to-from)
	}
	return out
}

// bucket is the index range of column i when total samples are spread over n columns.
func bucket(i, n, total int) (int, int) {
	from := i * total / n
	to := (i + 1) * total / n
	if to <= from {
		to = from + 1
	}
	if to > total {
		to = total
	}
	return from, to
}

// sparkline maps each value onto eight block heights between lo and hi.
func sparkline(values []float64, lo, hi float64) string {
	var b strings.Builder
	span := hi - lo
	for _, x := range values {
		idx := 0
		if span > 0 && !math.IsNaN(x) {
			idx = int((x - lo) / span * float64(len(sparkRunes)-1))
		}
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkRunes) {
			idx = len(sparkRunes) - 1
		}
		b.WriteRune(sparkRunes[idx])
	}
	return b.String()
}

// overviewStrip draws the whole series with the columns inside the window highlighted.
func overviewStrip(values []float64, win render.Window, width int, lo, hi float64, style lipgloss.Style) string {
	cols := resample(values, width)
	line := []rune(sparkline(cols, lo, hi))
	var b strings.Builder
	for i, r := range line {
		from, to := bucket(i, len(line), len(values))
		cell := style
		if from < win.End() && to > win.Start {
			cell = cell.Inherit(highlightStyle)
		}
		b.WriteString(cell.Render(string(r)))
	}
	return b.String()
}
