package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/msaeedsaeedi/stress/internal/domain"
	"github.com/msaeedsaeedi/stress/internal/stats"
)

var (
	colorActiveBlue = lipgloss.Color("39")
	colorDimGray    = lipgloss.Color("240")
	colorGreen      = lipgloss.Color("42")
	colorRed        = lipgloss.Color("196")
	colorYellow     = lipgloss.Color("220")
	colorWhite      = lipgloss.Color("255")
	colorLightGray  = lipgloss.Color("250")

	styleBoldWhite = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	styleDim       = lipgloss.NewStyle().Foreground(colorDimGray)
	styleActive    = lipgloss.NewStyle().Foreground(colorActiveBlue).Bold(true)
	styleSuccess   = lipgloss.NewStyle().Foreground(colorGreen)
	styleFailure   = lipgloss.NewStyle().Foreground(colorRed)
	styleRunning   = lipgloss.NewStyle().Foreground(colorYellow)
	styleHelpKey   = lipgloss.NewStyle().Foreground(colorLightGray)

	styleSidebar = lipgloss.NewStyle().PaddingLeft(1).PaddingRight(1)
	styleMain    = lipgloss.NewStyle().PaddingLeft(4)
	styleFooter  = lipgloss.NewStyle().PaddingTop(1).PaddingLeft(1)
	styleScreen  = lipgloss.NewStyle().Margin(1, 2)
)

// maxTrackedRuns bounds memory on unbounded runs; older runs drop off the list.
const maxTrackedRuns = 1000

type startMsg struct{ runID int }
type completeMsg struct {
	result domain.RunResult
	counts stats.Counts
}
type finishMsg struct{ outcome domain.Outcome }

type runStatus int

const (
	statusRunning runStatus = iota
	statusSuccess
	statusFailed
)

type runState struct {
	id        int
	status    runStatus
	exitCode  int
	duration  time.Duration
	output    string
	startedAt time.Time
}

type Model struct {
	cfg      *domain.RunConfig
	spinner  spinner.Model
	progress progress.Model
	runs     []runState
	counts   stats.Counts
	selected int
	follow   bool
	finished bool
	state    domain.State
	width    int
	height   int
}

func NewModel(cfg *domain.RunConfig) *Model {
	return &Model{
		cfg:      cfg,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styleRunning)),
		progress: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		follow:   true,
	}
}

func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case startMsg:
		m.runs = append(m.runs, runState{id: msg.runID, status: statusRunning, startedAt: time.Now()})
		if len(m.runs) > maxTrackedRuns {
			drop := len(m.runs) - maxTrackedRuns
			m.runs = m.runs[drop:]
			m.selected = max(0, m.selected-drop)
		}
		if m.follow {
			m.selected = len(m.runs) - 1
		}

	case completeMsg:
		m.counts = msg.counts
		if run := m.find(msg.result.ID); run != nil {
			run.status = statusSuccess
			if !msg.result.Success {
				run.status = statusFailed
				run.output = msg.result.Output
			}
			run.exitCode = msg.result.ExitCode
			run.duration = msg.result.Duration
		}

	case finishMsg:
		m.finished = true
		m.state = msg.outcome.State
		m.counts = msg.outcome.Snapshot.Counts()
		// An interrupted run never completed; it has no result to show.
		if n := len(m.runs); n > 0 && m.runs[n-1].status == statusRunning {
			m.runs = m.runs[:n-1]
			m.selected = min(m.selected, max(0, len(m.runs)-1))
		}
		return m, nil

	case spinner.TickMsg:
		if m.finished {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "up", "k":
			if m.selected > 0 {
				m.selected--
				m.follow = false
			}
		case "down", "j":
			if m.selected < len(m.runs)-1 {
				m.selected++
			}
			m.follow = m.selected == len(m.runs)-1
		case "n":
			m.jumpToFailure()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, nil
}

func (m *Model) find(id int) *runState {
	for i := len(m.runs) - 1; i >= 0; i-- {
		if m.runs[i].id == id {
			return &m.runs[i]
		}
	}
	return nil
}

// jumpToFailure selects the next failed run after the current one, wrapping.
func (m *Model) jumpToFailure() {
	n := len(m.runs)
	for step := 1; step <= n; step++ {
		i := (m.selected + step) % n
		if m.runs[i].status == statusFailed {
			m.selected = i
			m.follow = false
			return
		}
	}
}

func (m *Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	availWidth := max(20, m.width-4)
	availHeight := max(10, m.height-2)
	sidebarW := max(30, availWidth/4)
	mainW := availWidth - sidebarW - 1
	contentH := max(10, availHeight-6)

	header := m.renderHeader(availWidth)
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderSidebar(sidebarW, contentH),
		m.renderMainPanel(mainW, contentH))
	footer := m.renderFooter()

	return styleScreen.Render(lipgloss.JoinVertical(lipgloss.Left, header, body, footer))
}

func (m *Model) renderHeader(width int) string {
	var sb strings.Builder

	sb.WriteString(styleBoldWhite.Render("$ " + strings.Join(m.cfg.Command, " ")))
	sb.WriteString("\n")

	if m.finished {
		sb.WriteString(styleDim.Render("done (" + m.state.String() + ")"))
	} else {
		sb.WriteString(m.spinner.View() + " running")
	}

	fmt.Fprintf(&sb, "  %s  %s",
		styleSuccess.Render(fmt.Sprintf("passed %d", m.counts.Total-m.counts.Failed)),
		styleFailure.Render(fmt.Sprintf("failed %d", m.counts.Failed)))

	if m.cfg.Bounded() {
		limit := m.cfg.Limit()
		ratio := 1.0
		if limit > 0 {
			ratio = float64(m.counts.Total) / float64(limit)
		}
		m.progress.Width = max(10, width/3)
		fmt.Fprintf(&sb, "  %s %d/%d", m.progress.ViewAs(ratio), m.counts.Total, limit)
	} else {
		fmt.Fprintf(&sb, "  %d/∞", m.counts.Total)
	}
	sb.WriteString("\n")

	return sb.String()
}

func (m *Model) renderSidebar(width, height int) string {
	var sb strings.Builder

	sb.WriteString(styleBoldWhite.Render("RUN HISTORY"))
	sb.WriteString("\n\n")

	visible := max(1, height-4)
	start := max(0, m.selected-visible+1)
	end := min(len(m.runs), start+visible)

	if start > 0 {
		sb.WriteString(styleDim.Render("  ▲ more above") + "\n")
	}
	for i := start; i < end; i++ {
		sb.WriteString(m.renderRunLine(i) + "\n")
	}
	if end < len(m.runs) {
		sb.WriteString(styleDim.Render("  ▼ more below"))
	}

	return styleSidebar.Width(width).MaxWidth(width).Height(height).Render(sb.String())
}

func (m *Model) renderRunLine(index int) string {
	run := m.runs[index]

	var icon string
	var style lipgloss.Style
	switch run.status {
	case statusSuccess:
		icon, style = "✓", styleSuccess
	case statusFailed:
		icon, style = "✗", styleFailure
	default:
		icon, style = "…", styleRunning
	}

	line := fmt.Sprintf("Run #%04d %s", run.id, icon)
	if run.status != statusRunning {
		line += " " + run.duration.Round(time.Millisecond).String()
	}

	if index == m.selected {
		return styleActive.Render("┃ " + line)
	}
	return style.Render("  " + line)
}

func (m *Model) renderMainPanel(width, height int) string {
	if m.selected >= len(m.runs) {
		return styleMain.Width(width).Render("")
	}
	run := m.runs[m.selected]

	var w strings.Builder
	w.WriteString(styleBoldWhite.Render(fmt.Sprintf("RUN DETAILS: #%04d", run.id)))
	w.WriteString("\n\n")

	w.WriteString(styleBoldWhite.Render("Status") + "\n  ")
	switch run.status {
	case statusSuccess:
		w.WriteString(styleSuccess.Render("Success"))
	case statusFailed:
		w.WriteString(styleFailure.Render(fmt.Sprintf("Failed (Exit Code: %d)", run.exitCode)))
	default:
		w.WriteString(styleRunning.Render(fmt.Sprintf("Running for %s", time.Since(run.startedAt).Round(time.Second))))
	}
	w.WriteString("\n\n")

	if run.status == statusFailed {
		w.WriteString(styleBoldWhite.Render("OUTPUT") + "\n")
		lines := strings.Split(strings.TrimRight(run.output, "\n"), "\n")
		room := max(1, height-8)
		if len(lines) > room {
			lines = lines[len(lines)-room:]
		}
		for _, line := range lines {
			w.WriteString(styleDim.Render(line) + "\n")
		}
	}

	return styleMain.Width(width).Height(height).Render(w.String())
}

func (m *Model) renderFooter() string {
	help := []string{
		styleHelpKey.Render("↑/k ↓/j") + styleDim.Render(" navigate"),
		styleHelpKey.Render("n") + styleDim.Render(" next failure"),
		styleHelpKey.Render("q") + styleDim.Render(" quit"),
	}
	return styleFooter.Render(strings.Join(help, "   "))
}

// TUIFormatter drives a bubbletea program from the loop's callbacks.
type TUIFormatter struct {
	model   *Model
	program *tea.Program
	ready   chan struct{}
	once    sync.Once
}

func NewTUIFormatter(cfg *domain.RunConfig) *TUIFormatter {
	return &TUIFormatter{model: NewModel(cfg), ready: make(chan struct{})}
}

func (f *TUIFormatter) Run(ctx context.Context) error {
	f.program = tea.NewProgram(f.model, tea.WithAltScreen(), tea.WithContext(ctx))
	f.once.Do(func() { close(f.ready) })

	_, err := f.program.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

func (f *TUIFormatter) WaitReady(ctx context.Context) error {
	select {
	case <-f.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *TUIFormatter) OnStart(runID int) {
	f.send(startMsg{runID: runID})
}

func (f *TUIFormatter) OnComplete(result domain.RunResult, counts stats.Counts) {
	f.send(completeMsg{result: result, counts: counts})
}

func (f *TUIFormatter) OnFinish(outcome domain.Outcome) {
	f.send(finishMsg{outcome: outcome})
}

func (f *TUIFormatter) send(msg tea.Msg) {
	if f.program != nil {
		f.program.Send(msg)
	}
}
