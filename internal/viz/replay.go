package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/golfsim/internal/flight"
)

type TickMsg time.Time

// Replay is a Bubble Tea model that redraws a finished flight one sample per
// tick.
type Replay struct {
	title    string
	tr       flight.Trajectory
	view     Viewport
	canvas   *Canvas
	head     int
	running  bool
	interval time.Duration
}

func NewReplay(title string, tr flight.Trajectory, width, height int, interval time.Duration) Replay {
	if interval <= 0 {
		interval = 200 * time.Millisecond
	}
	return Replay{
		title:    title,
		tr:       tr,
		view:     Fit(tr.Points()),
		canvas:   NewCanvas(width, height),
		head:     min(1, len(tr)),
		running:  true,
		interval: interval,
	}
}

func (m Replay) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Replay) Init() tea.Cmd {
	return m.tick()
}

func (m Replay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
			if m.running && m.Done() {
				m.head = min(1, len(m.tr))
			}
		case "r":
			m.head = min(1, len(m.tr))
			m.running = true
		case "[":
			m.running = false
			m.head = max(min(1, len(m.tr)), m.head-1)
		case "]":
			m.running = false
			m.head = min(len(m.tr), m.head+1)
		case "t":
			SetTheme(nextTheme(CurrentTheme.Name))
		}
	case TickMsg:
		if m.running && !m.Done() {
			m.head++
		}
		if m.Done() {
			m.running = false
		}
		return m, m.tick()
	}
	return m, nil
}

// Done reports whether every sample has been drawn.
func (m Replay) Done() bool {
	return m.head >= len(m.tr)
}

// Current returns the most recently drawn sample.
func (m Replay) Current() flight.Sample {
	if m.head == 0 {
		return flight.Sample{}
	}
	return m.tr[m.head-1]
}

func (m Replay) View() string {
	st := currentStyles()

	m.canvas.Clear()
	m.canvas.Ground(m.view)
	m.canvas.Polyline(m.view, m.tr[:m.head].Points())
	canvasView := st.Canvas.Render(m.canvas.String())

	cur := m.Current()
	status := st.Flying.Render("FLYING")
	switch {
	case m.Done() && len(m.tr) > 0 && m.tr.Last().Position.Y < 0:
		status = st.Landed.Render("LANDED")
	case !m.running:
		status = st.Hint.Render("PAUSED")
	}

	var s strings.Builder
	s.WriteString(st.Title.Render(strings.ToUpper(m.title)) + "\n")
	s.WriteString(status + "\n\n")
	s.WriteString(st.Label.Render("step") + st.Value.Render(fmt.Sprintf("%d / %d", cur.Step, max(0, len(m.tr)-1))) + "\n")
	s.WriteString(st.Label.Render("x") + st.Value.Render(fmt.Sprintf("%.2f", cur.Position.X)) + "\n")
	s.WriteString(st.Label.Render("y") + st.Value.Render(fmt.Sprintf("%.2f", cur.Position.Y)) + "\n")
	s.WriteString(st.Label.Render("speed") + st.Value.Render(fmt.Sprintf("%.2f", cur.Velocity.Magnitude)) + "\n")
	s.WriteString(st.Label.Render("heading") + st.Value.Render(fmt.Sprintf("%.1f°", cur.Velocity.Angle)) + "\n")
	s.WriteString(st.Label.Render("spin") + st.Value.Render(fmt.Sprintf("%.1f", cur.Spin)) + "\n\n")

	progress := 0.0
	if len(m.tr) > 0 {
		progress = float64(m.head) / float64(len(m.tr))
	}
	s.WriteString(ProgressBar(progress, 20) + "\n\n")
	s.WriteString(st.Hint.Render("SP:Pause R:Restart [ ]:Step T:Theme Q:Quit"))

	return SideBySide(canvasView, st.Panel.Render(s.String()))
}
