package viz

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/perihelion-dev/astrosim/internal/body"
	"github.com/perihelion-dev/astrosim/internal/sim"
	"github.com/perihelion-dev/astrosim/internal/units"
)

const (
	canvasWidth     = 72
	canvasHeight    = 24
	historyCapacity = 600
	frameInterval   = time.Second / 30
)

// speedSteps are the multipliers cycled by the +/- keys.
var speedSteps = []float32{1, 1000, 86_400, 604_800, 1_000_000, 10_000_000}

type TickMsg time.Time

// Model renders a running Coordinator. It only reads snapshots; the
// coordinator's own goroutine keeps advancing the bodies between frames.
type Model struct {
	coord  *sim.Coordinator
	canvas *Canvas

	scaleAU float64
	speedIx int
	paused  bool
	resume  float32

	energyHistory []float64
	started       time.Time
	elapsed       float64
	lastFrame     time.Time
	showHelp      bool
}

// NewModel wraps a started coordinator. scaleAU is the half-width of the
// view in astronomical units; pass 0 for a default that fits the inner
// solar system.
func NewModel(c *sim.Coordinator, scaleAU float64) Model {
	if scaleAU <= 0 {
		scaleAU = 2
	}
	ix := 0
	sp := c.Speed()
	for i, s := range speedSteps {
		if s <= sp {
			ix = i
		}
	}
	return Model{
		coord:         c,
		canvas:        NewCanvas(canvasWidth, canvasHeight),
		scaleAU:       scaleAU,
		speedIx:       ix,
		energyHistory: make([]float64, 0, historyCapacity),
		started:       time.Now(),
		lastFrame:     time.Now(),
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			if m.paused {
				m.coord.SetSpeed(m.resume)
			} else {
				m.resume = m.coord.Speed()
				m.coord.SetSpeed(0)
			}
			m.paused = !m.paused
		case "+", "=":
			if m.speedIx < len(speedSteps)-1 {
				m.speedIx++
			}
			if !m.paused {
				m.coord.SetSpeed(speedSteps[m.speedIx])
			} else {
				m.resume = speedSteps[m.speedIx]
			}
		case "-", "_":
			if m.speedIx > 0 {
				m.speedIx--
			}
			if !m.paused {
				m.coord.SetSpeed(speedSteps[m.speedIx])
			} else {
				m.resume = speedSteps[m.speedIx]
			}
		case "z":
			m.scaleAU *= 2
		case "x":
			m.scaleAU /= 2
		case "h", "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		now := time.Time(msg)
		if !m.paused {
			m.elapsed += now.Sub(m.lastFrame).Seconds() * float64(m.coord.Speed())
		}
		m.lastFrame = now
		e := m.coord.TotalEnergy()
		m.energyHistory = append(m.energyHistory, e)
		if len(m.energyHistory) > historyCapacity {
			m.energyHistory = m.energyHistory[1:]
		}
		return m, tick()
	}
	return m, nil
}

func (m Model) View() string {
	bodies := m.coord.Bodies()
	m.canvas.Clear()
	for _, b := range bodies {
		m.plot(b)
	}

	canvasView := panelStyle.Render(m.canvas.String())
	statsView := m.statsView(bodies)
	main := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)

	help := "space pause  +/- speed  z/x zoom  q quit"
	if m.showHelp {
		help = "space: pause/resume   +/-: step speed up/down   z/x: zoom out/in   h: toggle help   q: quit"
	}
	return titleStyle.Render("astrosim") + "\n" + main + "\n" + hintStyle.Render(help) + "\n"
}

// plot maps a body's x/y position onto the canvas, centered on the
// origin. Bodies outside the view are dropped.
func (m Model) plot(b body.Body) {
	half := m.scaleAU * units.MetersPerAU
	fx := (b.Position.X + half) / (2 * half)
	fy := (b.Position.Y + half) / (2 * half)
	if fx < 0 || fx >= 1 || fy < 0 || fy >= 1 {
		return
	}
	// Flip y so positive is up on screen.
	col := int(fx * float64(m.canvas.Width))
	row := int((1 - fy) * float64(m.canvas.Height))
	glyph := 'o'
	if b.Mass >= 0.1*units.SolarMass {
		glyph = '*'
	}
	m.canvas.Mark(col, row, glyph)
}

func (m Model) statsView(bodies []body.Body) string {
	status := statusRunning.Render("RUNNING")
	if m.paused {
		status = statusPaused.Render("PAUSED")
	}

	rows := []string{
		status,
		"",
		statLine("bodies", fmt.Sprintf("%d", len(bodies))),
		statLine("speed", fmt.Sprintf("%.0fx", m.coord.Speed())),
		statLine("sim time", fmt.Sprintf("%.1f d", units.SecondsToDays(m.elapsed))),
		statLine("view", fmt.Sprintf("±%.2g AU", m.scaleAU)),
		statLine("energy", fmt.Sprintf("%.3e J", m.coord.TotalEnergy())),
	}
	stats := lipgloss.JoinVertical(lipgloss.Left, rows...)

	if len(m.energyHistory) >= 2 {
		graph := asciigraph.Plot(m.energyHistory,
			asciigraph.Height(6),
			asciigraph.Width(34),
			asciigraph.Caption("total energy"))
		stats = lipgloss.JoinVertical(lipgloss.Left, stats, "", graph)
	}
	return panelStyle.Render(stats)
}

func statLine(label, value string) string {
	return labelStyle.Width(10).Render(label) + valueStyle.Render(value)
}

// Run starts the terminal program and blocks until the user quits.
func Run(c *sim.Coordinator, scaleAU float64) error {
	p := tea.NewProgram(NewModel(c, scaleAU), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
