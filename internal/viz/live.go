package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/cachelayout/internal/aos"
	"github.com/san-kum/cachelayout/internal/bench"
	"github.com/san-kum/cachelayout/internal/layout"
	"github.com/san-kum/cachelayout/internal/soa"
)

const (
	historyCapacity = 240
	canvasWidth     = 40
	canvasHeight    = 10
	scatterPoints   = 2000
)

type TickMsg time.Time

// LiveModel steps an AoS and an SoA system of equal size with one full
// Update per tick and shows the frame time of each.
type LiveModel struct {
	count   int
	params  bench.Params
	fps     int
	aos     layout.System
	soa     layout.System
	running bool
	frame   int

	aosFrame, soaFrame     time.Duration
	aosHistory, soaHistory []float64
	energyHistory          []float64
	energy                 float32
	match                  bool

	canvas *Canvas
}

func NewLiveModel(count int, p bench.Params, fps int) (LiveModel, error) {
	if count < 0 {
		return LiveModel{}, fmt.Errorf("%w: %d", layout.ErrNegativeCount, count)
	}
	if fps <= 0 {
		fps = 30
	}
	m := LiveModel{
		count:   count,
		params:  p,
		fps:     fps,
		running: true,
		canvas:  NewCanvas(canvasWidth, canvasHeight),
	}
	m.reset()
	return m, nil
}

// reset reseeds both systems with the same count.
func (m *LiveModel) reset() {
	a, s := aos.New(m.count), soa.New(m.count)
	m.aos, m.soa = a, s
	m.frame = 0
	m.aosFrame, m.soaFrame = 0, 0
	m.aosHistory = make([]float64, 0, historyCapacity)
	m.soaHistory = make([]float64, 0, historyCapacity)
	m.energyHistory = make([]float64, 0, historyCapacity)
	m.energy = a.KineticEnergy()
	m.match = true
}

func (m LiveModel) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m LiveModel) Init() tea.Cmd {
	return m.tick()
}

func (m LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		}
	case TickMsg:
		if m.running {
			m.Step()
		}
		return m, m.tick()
	}
	return m, nil
}

// Step advances both systems by one frame.
func (m *LiveModel) Step() {
	g, dt := m.params.Gravity, m.params.Dt

	t0 := time.Now()
	ea := m.aos.Update(g, dt)
	m.aosFrame = time.Since(t0)

	t0 = time.Now()
	es := m.soa.Update(g, dt)
	m.soaFrame = time.Since(t0)

	m.frame++
	m.energy = ea
	m.match = m.match && layout.Same(ea, es)
	m.aosHistory = pushCapped(m.aosHistory, micros(m.aosFrame))
	m.soaHistory = pushCapped(m.soaHistory, micros(m.soaFrame))
	m.energyHistory = pushCapped(m.energyHistory, float64(ea))
}

func (m LiveModel) Frame() int { return m.frame }

func (m LiveModel) Running() bool { return m.running }

// Match reports whether both layouts have returned identical energies on
// every frame since the last reset.
func (m LiveModel) Match() bool { return m.match }

func (m LiveModel) View() string {
	var b strings.Builder

	status := StatusRunning.Render("● running")
	if !m.running {
		status = StatusPaused.Render("■ paused")
	}
	b.WriteString(HeaderStyle.Render(fmt.Sprintf("cachebench live  %s particles  frame %d", formatCount(m.count), m.frame)))
	b.WriteString("  " + status + "\n\n")

	stats := []string{
		stat("aos frame", formatDuration(m.aosFrame)),
		stat("soa frame", formatDuration(m.soaFrame)),
		stat("aos/soa", ratioText(m.aosFrame, m.soaFrame)),
		stat("energy", fmt.Sprintf("%.6g", m.energy)),
		stat("layouts", matchText(m.match)),
		stat("energy trend", Sparkline(m.energyHistory, 24)),
	}

	m.canvas.Scatter(m.soa, scatterPoints)
	left := panel.Render(strings.Join(stats, "\n"))
	right := panel.Render(Subtle.Render("x/y positions") + "\n" + m.canvas.String())
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right))
	b.WriteString("\n")

	if len(m.aosHistory) >= 2 {
		b.WriteString(asciigraph.PlotMany([][]float64{m.aosHistory, m.soaHistory},
			asciigraph.Height(8),
			asciigraph.Width(70),
			asciigraph.SeriesColors(asciigraph.Red, asciigraph.Blue),
			asciigraph.Caption("frame time µs (red aos, blue soa)"),
		))
		b.WriteString("\n")
	}

	b.WriteString(KeyHint.Render("space pause • r reset • q quit"))
	return b.String()
}

func stat(label, value string) string {
	return MetricLabel.Render(label) + MetricValue.Render(value)
}

func ratioText(a, s time.Duration) string {
	if s <= 0 {
		return "-"
	}
	r := float64(a) / float64(s)
	return ratioStyle(r).Render(fmt.Sprintf("%.2fx", r))
}

func matchText(ok bool) string {
	if ok {
		return Faster.Render("identical")
	}
	return Slower.Render("DIVERGED")
}

func micros(d time.Duration) float64 {
	return float64(d) / float64(time.Microsecond)
}

func pushCapped(h []float64, v float64) []float64 {
	if len(h) >= historyCapacity {
		copy(h, h[1:])
		h = h[:len(h)-1]
	}
	return append(h, v)
}

// RunLive starts the interactive view on the terminal.
func RunLive(count int, p bench.Params, fps int) error {
	m, err := NewLiveModel(count, p, fps)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
