package viz

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/nkoval/plife/internal/life"
	"github.com/nkoval/plife/internal/step"
)

const (
	defaultCanvasWidth  = 80
	defaultCanvasHeight = 24
	historyCapacity     = 120
	statsPanelWidth     = 38
)

// presetKeys maps live-view hotkeys to preset names.
var presetKeys = map[string]string{
	"b": "balanced",
	"c": "chaos",
	"d": "diversity",
	"f": "frictionless",
	"g": "gliders",
	"h": "homogeneity",
	"l": "large_clusters",
	"m": "medium_clusters",
	"q": "quiescence",
	"s": "small_clusters",
}

type frameMsg step.Frame

type errMsg struct{ err error }

// Model is the consumer side of the live view: it drains frames from the
// step channel and turns key presses into commands. It never touches
// simulation state directly.
type Model struct {
	ch step.Channel

	preset   string
	settings life.Settings
	world    step.Extent
	wrap     bool

	canvas     *Canvas
	kindStyles []lipgloss.Style

	frame     step.Frame
	speedHist []float64

	err      error
	quitting bool
}

// NewModel wires a live view to an already seeded channel.
func NewModel(ch step.Channel, preset string, settings life.Settings, world step.Extent, wrap bool) Model {
	return Model{
		ch:         ch,
		preset:     preset,
		settings:   settings,
		world:      world,
		wrap:       wrap,
		canvas:     NewCanvas(defaultCanvasWidth, defaultCanvasHeight),
		kindStyles: kindStyles(settings.Kinds),
		speedHist:  make([]float64, 0, historyCapacity),
	}
}

func kindStyles(kinds int) []lipgloss.Style {
	palette := life.Palette(kinds)
	styles := make([]lipgloss.Style, len(palette))
	for i, c := range palette {
		styles[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex()))
	}
	return styles
}

func (m Model) Init() tea.Cmd {
	return m.waitForFrame()
}

func (m Model) waitForFrame() tea.Cmd {
	ch := m.ch
	return func() tea.Msg {
		f, err := ch.Next(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return frameMsg(f)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.resize(msg)

	case frameMsg:
		m.frame = step.Frame(msg)
		m.speedHist = append(m.speedHist, meanSpeed(m.frame.Particles))
		if len(m.speedHist) > historyCapacity {
			m.speedHist = m.speedHist[1:]
		}
		return m, m.waitForFrame()

	case errMsg:
		if !m.quitting && !errors.Is(msg.err, step.ErrClosed) {
			m.err = msg.err
		}
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if name, ok := presetKeys[key]; ok {
		settings, err := life.GetPreset(name)
		if err != nil {
			return m, nil
		}
		m.preset = name
		m.settings = settings
		m.kindStyles = kindStyles(settings.Kinds)
		m.speedHist = m.speedHist[:0]
		if err := m.ch.Send(step.Seed(settings)); err != nil {
			m.err = err
			return m, tea.Quit
		}
		return m, nil
	}

	switch key {
	case "ctrl+c", "esc":
		m.quitting = true
		_ = m.ch.Close()
		return m, tea.Quit
	case "w":
		m.wrap = !m.wrap
		if err := m.ch.Send(step.ToggleWrap()); err != nil {
			m.err = err
			return m, tea.Quit
		}
	case "enter":
		if err := m.ch.Send(step.RandomizeParticles()); err != nil {
			m.err = err
			return m, tea.Quit
		}
	case "r":
		// Reseed with the current preset: new table, new population.
		m.speedHist = m.speedHist[:0]
		if err := m.ch.Send(step.Seed(m.settings)); err != nil {
			m.err = err
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) resize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	cols := msg.Width - statsPanelWidth - 4
	rows := msg.Height - 2
	if cols < 20 {
		cols = 20
	}
	if rows < 10 {
		rows = 10
	}
	m.canvas = NewCanvas(cols, rows)

	// Keep the world width and follow the terminal's aspect ratio, so one
	// world pixel stays roughly square on screen. The population itself
	// survives: a resize does not reset the round.
	m.world.Height = m.world.Width * float64(rows*4) / float64(cols*2)
	if err := m.ch.Send(step.Resize(m.world.Width, m.world.Height)); err != nil {
		m.err = err
		return m, tea.Quit
	}
	return m, nil
}

func meanSpeed(particles []life.Particle) float64 {
	if len(particles) == 0 {
		return 0
	}
	total := 0.0
	for _, p := range particles {
		total += math.Hypot(p.VX, p.VY)
	}
	return total / float64(len(particles))
}

// View renders the particle field next to a stats panel.
func (m Model) View() string {
	if m.err != nil {
		return fmt.Sprintf("error: %v\n", m.err)
	}
	if m.quitting {
		return ""
	}

	m.canvas.Clear()
	sx := float64(2*m.canvas.Width) / m.world.Width
	sy := float64(4*m.canvas.Height) / m.world.Height
	for _, p := range m.frame.Particles {
		m.canvas.Set(int(p.X*sx), int(p.Y*sy), p.Kind)
	}
	canvasView := canvasStyle.Render(m.canvas.Render(m.kindStyles))

	var s strings.Builder
	s.WriteString(headerStyle.Render("PARTICLE LIFE") + "\n")
	s.WriteString(labelStyle.Render("Preset") + valueStyle.Render(m.preset) + "\n")
	s.WriteString(labelStyle.Render("Round") + valueStyle.Render(fmt.Sprintf("%d", m.frame.Round)) + "\n")
	s.WriteString(labelStyle.Render("Particles") + valueStyle.Render(fmt.Sprintf("%d", len(m.frame.Particles))) + "\n")
	s.WriteString(labelStyle.Render("Kinds") + valueStyle.Render(fmt.Sprintf("%d", m.settings.Kinds)) + "\n")
	s.WriteString(labelStyle.Render("Wrap") + valueStyle.Render(fmt.Sprintf("%v", m.wrap)) + "\n")
	s.WriteString(labelStyle.Render("World") + valueStyle.Render(fmt.Sprintf("%.0fx%.0f", m.world.Width, m.world.Height)) + "\n")

	if len(m.speedHist) > 1 {
		chart := asciigraph.Plot(m.speedHist, asciigraph.Height(4), asciigraph.Width(26), asciigraph.Caption("mean speed"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	s.WriteString(helpStyle.Render("─────────────────────\n" +
		"b/c/d/f/g/h/l/m/q/s: presets\n" +
		"w: wrap  r: reseed\n" +
		"enter: randomize\n" +
		"esc: quit"))

	statsView := statsStyle.Render(s.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
}
