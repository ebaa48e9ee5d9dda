package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/galaxysim/internal/dynamo"
	"github.com/san-kum/galaxysim/internal/metrics"
	"github.com/san-kum/galaxysim/internal/sim"
)

const (
	canvasWidth     = 80
	canvasHeight    = 40
	historyCapacity = 300
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(42)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
)

type TickMsg time.Time

// LiveModel is a Bubble Tea model that advances an engine on every tick and
// draws the resulting snapshot on a braille canvas.
type LiveModel struct {
	engine        *sim.Engine
	canvas        *Canvas
	radius        float64
	interval      time.Duration
	running       bool
	showHelp      bool
	snap          dynamo.Snapshot
	visible       int
	energyHistory []float64
	recorder      *Raster
	gifPath       string
	title         string
	err           error
}

// NewLiveModel prepares a live view. fps <= 0 means 30 frames per second.
// When gifPath is set, G toggles recording frames into it.
func NewLiveModel(eng *sim.Engine, title string, fps int, gifPath string) *LiveModel {
	if fps <= 0 {
		fps = 30
	}
	radius := eng.Config().SimRadius
	m := &LiveModel{
		engine:        eng,
		canvas:        NewCanvas(canvasWidth, canvasHeight),
		radius:        radius,
		interval:      time.Second / time.Duration(fps),
		running:       true,
		snap:          eng.Snapshot(),
		energyHistory: make([]float64, 0, historyCapacity),
		gifPath:       gifPath,
		title:         title,
	}
	m.visible = m.canvas.Plot(m.snap, radius)
	return m
}

// Err returns the first error hit while writing a recording.
func (m *LiveModel) Err() error { return m.err }

func (m *LiveModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m *LiveModel) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the simulation.
func (m *LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.stopRecording()
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "n":
			if !m.running {
				m.step()
			}
		case "g":
			if m.recorder != nil {
				m.stopRecording()
			} else if m.gifPath != "" {
				m.recorder = NewRaster(512, m.radius)
				m.recorder.RecordGIF()
			}
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *LiveModel) step() {
	if m.engine.Done() {
		m.running = false
		return
	}
	snap, err := m.engine.Advance()
	if err != nil {
		m.running = false
		return
	}
	m.snap = snap
	m.visible = m.canvas.Plot(snap, m.radius)

	ps := m.engine.Particles()
	m.energyHistory = append(m.energyHistory, metrics.TotalEnergy(ps, m.engine.Config().G))
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}

	if m.recorder != nil {
		if err := m.recorder.Consume(snap); err != nil && m.err == nil {
			m.err = err
		}
	}
}

func (m *LiveModel) stopRecording() {
	if m.recorder == nil {
		return
	}
	if m.recorder.Frames() > 0 {
		if err := m.recorder.WriteGIF(m.gifPath); err != nil && m.err == nil {
			m.err = err
		}
	}
	m.recorder = nil
}

func (m *LiveModel) status() string {
	switch {
	case m.engine.Done():
		return StatusPaused.Render("FINISHED")
	case m.recorder != nil:
		return StatusRecording.Render("● REC")
	case m.running:
		return StatusRunning.Render("RUNNING")
	default:
		return StatusPaused.Render("PAUSED")
	}
}

// View renders the canvas and a stats panel.
func (m *LiveModel) View() string {
	cfg := m.engine.Config()

	var s strings.Builder
	s.WriteString(HeaderStyle.Render(strings.ToUpper(m.title)) + "\n")
	s.WriteString(m.status() + "\n\n")

	s.WriteString(MetricLabel.Render("Step") + MetricValue.Render(fmt.Sprintf("%d/%d", m.engine.StepCount(), cfg.EndStep)) + "\n")
	s.WriteString(ProgressBar(float64(m.engine.StepCount())/float64(cfg.EndStep), 24) + "\n")
	s.WriteString(MetricLabel.Render("Particles") + MetricValue.Render(fmt.Sprintf("%d", m.engine.Len())) + "\n")
	s.WriteString(MetricLabel.Render("Visible") + MetricValue.Render(fmt.Sprintf("%d", m.visible)) + "\n")
	s.WriteString(MetricLabel.Render("Phase") + MetricValue.Render(m.engine.Phase().String()) + "\n")

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(5), asciigraph.Width(30), asciigraph.Caption("Energy (J)"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}
	if m.err != nil {
		s.WriteString(StatusRecording.Render("error: "+m.err.Error()) + "\n")
	}
	s.WriteString(KeyHint.Render("\nSP:Pause N:Step G:Record ?:Help Q:Quit"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasStyle.Render(m.canvas.String()), statsStyle.Render(s.String()))
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  N        - Single step while paused ║
║  G        - Toggle GIF recording     ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}
