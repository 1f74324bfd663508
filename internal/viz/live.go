package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/springsim/internal/config"
	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/experiment"
	"github.com/san-kum/springsim/internal/metrics"
)

const (
	canvasWidth     = 60
	canvasHeight    = 22
	fps             = 60
	historyCapacity = 300
	zoomStep        = 1.25
)

type TickMsg time.Time

// Model is the live viewer. It steps its scene in real time and eases zoom
// changes with a critically damped spring.
type Model struct {
	cfg    *config.Config
	scene  *experiment.Scene
	canvas *Canvas
	view   Viewport

	baseScale  float64
	zoom       float64
	zoomVel    float64
	zoomTarget float64
	spring     harmonica.Spring

	stepsPerFrame int
	running       bool
	gravityOn     bool
	err           error
	energy        []float64
	theme         Theme
	showHelp      bool
}

func NewModel(cfg *config.Config) (Model, error) {
	m := Model{
		cfg:           cfg,
		canvas:        NewCanvas(canvasWidth, canvasHeight),
		zoom:          1,
		zoomTarget:    1,
		spring:        harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
		stepsPerFrame: max(1, int(math.Round(1.0/fps/cfg.Dt))),
		running:       true,
		theme:         ThemeCyberpunk,
	}
	if err := m.reset(); err != nil {
		return Model{}, err
	}
	return m, nil
}

func (m *Model) reset() error {
	scene, err := experiment.NewScene(m.cfg.Clone())
	if err != nil {
		return err
	}
	m.scene = scene
	m.gravityOn = true
	m.err = nil
	m.energy = make([]float64, 0, historyCapacity)
	m.fit()
	return nil
}

func (m *Model) fit() {
	m.view = NewViewport(m.canvas).Fit(FrameFromScene(m.scene).Points)
	m.baseScale = m.view.Scale
	m.zoom, m.zoomVel, m.zoomTarget = 1, 0, 1
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/fps, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			if err := m.reset(); err != nil {
				m.err = err
			}
		case "v":
			next := dynamo.Variant((int(m.scene.Variant()) + 1) % len(dynamo.Variants()))
			if err := m.scene.SetVariant(next); err != nil {
				m.err = err
			}
		case "g":
			m.gravityOn = !m.gravityOn
			if m.gravityOn {
				m.scene.SetGravity(m.cfg.Gravity)
			} else {
				m.scene.SetGravity(mgl64.Vec3{})
			}
		case "+", "=":
			m.zoomTarget *= zoomStep
		case "-", "_":
			m.zoomTarget /= zoomStep
		case "0":
			m.fit()
		case "t":
			m.theme = nextTheme(m.theme)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		m.advance()
		return m, tick()
	}
	return m, nil
}

func (m *Model) advance() {
	if m.running && m.err == nil {
		for i := 0; i < m.stepsPerFrame; i++ {
			if err := m.scene.Step(); err != nil {
				m.err = err
				m.running = false
				break
			}
		}
		m.energy = append(m.energy, metrics.TotalEnergy(m.scene.Simulator()))
		if len(m.energy) > historyCapacity {
			m.energy = m.energy[1:]
		}
	}

	m.zoom, m.zoomVel = m.spring.Update(m.zoom, m.zoomVel, m.zoomTarget)
	m.view.Scale = m.baseScale * m.zoom
}

func (m Model) View() string {
	m.canvas.Clear()
	FrameFromScene(m.scene).Draw(m.canvas, m.view)
	canvasView := lipgloss.NewStyle().Padding(1, 2).Foreground(m.theme.Canvas).Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(HeaderStyle.Foreground(m.theme.Accent).Render(strings.ToUpper(m.cfg.Name)) + "\n")
	s.WriteString(m.status() + "\n\n")

	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	sim := m.scene.Simulator()
	s.WriteString(MetricRow("Time", fmt.Sprintf("%.2fs", sim.Time())) + "\n")
	s.WriteString(MetricRow("Steps", fmt.Sprintf("%d", sim.Steps())) + "\n")
	s.WriteString(MetricRow("Progress", ProgressBar(float64(sim.Steps())/float64(m.cfg.Steps), 20)) + "\n")
	s.WriteString(MetricRow("Integrator", m.scene.Variant().String()) + "\n")
	if len(m.energy) > 0 {
		s.WriteString(MetricRow("Energy", fmt.Sprintf("%.4f", m.energy[len(m.energy)-1])) + "\n")
	}
	s.WriteString(MetricRow("Gravity", fmt.Sprintf("%.2f", m.scene.Gravity().Len())) + "\n")
	s.WriteString(MetricRow("Zoom", fmt.Sprintf("%.2fx", m.zoom)) + "\n")

	if m.err != nil {
		s.WriteString("\n" + StatusFailed.Render(m.err.Error()) + "\n")
	}

	s.WriteString(KeyHint.Render("\nSP:Pause R:Reset V:Integrator\nG:Gravity +/-:Zoom 0:Fit\nT:Theme ?:Help Q:Quit"))

	main := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return helpText + "\n" + main
	}
	return main
}

func (m Model) status() string {
	switch {
	case m.err != nil:
		return StatusFailed.Render("FAILED")
	case m.running:
		return StatusRunning.Render("RUNNING")
	default:
		return StatusPaused.Render("PAUSED")
	}
}

const helpText = `
  Space   pause or resume
  R       rebuild the scene from its config
  V       cycle integrator (euler, leapfrog, verlet, rk4)
  G       toggle gravity
  + / -   zoom in or out
  0       refit the view
  T       cycle themes
  Q       quit
`

// Run starts the viewer on the terminal until the user quits.
func Run(cfg *config.Config) error {
	m, err := NewModel(cfg)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
