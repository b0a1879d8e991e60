package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/setupflow/internal/pages"
	"github.com/jask/setupflow/internal/setupflow"
)

// App plays the flow's pages in the terminal.
type App struct {
	ctx    context.Context
	flow   *setupflow.Flow
	player *setupflow.Player
	logger *slog.Logger

	status    string
	endedSub  setupflow.Subscription
	cancelRun context.CancelFunc
	running   *pages.Loading
}

// executionDoneMsg carries a loading result back to the UI goroutine.
type executionDoneMsg struct {
	page   *pages.Loading
	result pages.Result
}

// Caller names reported when the user leaves a flow.
const (
	CallerSummaryDone = "DoneButton_SummaryPage"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	stepStyle   = lipgloss.NewStyle().Faint(true)
	statusStyle = lipgloss.NewStyle().Italic(true)
	helpStyle   = lipgloss.NewStyle().Faint(true)
)

func New(ctx context.Context, flow *setupflow.Flow, player *setupflow.Player, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{ctx: ctx, flow: flow, player: player, logger: logger}
	a.endedSub = flow.OnEndFlow(a.handleEndFlow)
	return a
}

// Init starts loading right away if a flow was started before the program.
func (a *App) Init() tea.Cmd {
	return a.beginLoading()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.KeyMsg:
		return a.handleKey(m)
	case executionDoneMsg:
		if a.running == m.page {
			a.running = nil
			a.cancelRun = nil
			a.status = ""
		}
		// a stale page still completes; its flow session is already closed
		m.page.Complete(m.result)
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		a.Close()
		return a, tea.Quit
	}

	page := a.player.CurrentPage()
	if in, ok := page.(pages.Interactive); ok && in.HandleKey(msg) {
		return a, a.beginLoading()
	}

	kind := setupflow.KindMain
	if page != nil {
		kind = page.Kind()
	}
	switch msg.String() {
	case "q":
		if kind == setupflow.KindMain {
			a.Close()
			return a, tea.Quit
		}
	case "esc":
		if kind != setupflow.KindMain {
			a.flow.Cancel()
			a.status = "Setup cancelled"
		}
	case "enter", "right", "l":
		switch kind {
		case setupflow.KindMain, setupflow.KindLoading:
		case setupflow.KindSummary:
			a.flow.Terminate(CallerSummaryDone)
			a.status = "Setup finished"
		default:
			a.player.AdvanceToNextPage()
		}
	case "left", "h", "backspace":
		if kind == setupflow.KindTaskGroup || kind == setupflow.KindReview {
			a.player.GoToPreviousPage()
		}
	}
	return a, a.beginLoading()
}

// beginLoading starts the current loading page once. Execution happens in
// a command; completion is delivered back as executionDoneMsg.
func (a *App) beginLoading() tea.Cmd {
	l, ok := a.player.CurrentPage().(*pages.Loading)
	if !ok || !l.Begin() {
		return nil
	}
	ctx, cancel := context.WithCancel(a.ctx)
	a.running = l
	a.cancelRun = cancel
	a.status = "Working..."
	return func() tea.Msg {
		defer cancel()
		return executionDoneMsg{page: l, result: l.Execute(ctx)}
	}
}

func (a *App) handleEndFlow() {
	if a.cancelRun != nil {
		a.logger.Info("Cancelling running setup tasks")
		a.cancelRun()
		a.cancelRun = nil
	}
	a.running = nil
}

// Close detaches the app from the flow and stops running tasks.
func (a *App) Close() {
	a.handleEndFlow()
	if a.endedSub != nil {
		a.endedSub.Cancel()
		a.endedSub = nil
	}
}

func (a *App) Status() string { return a.status }

func (a *App) View() string {
	page := a.player.CurrentPage()
	if page == nil {
		return ""
	}
	var b strings.Builder
	if page.Kind() != setupflow.KindMain {
		title := a.player.Title()
		if title == "" {
			title = "Setup"
		}
		b.WriteString(titleStyle.Render(title) + " ")
		b.WriteString(stepStyle.Render(fmt.Sprintf("step %d of %d",
			a.player.CurrentIndex()+1, len(a.player.Pages()))) + "\n\n")
	}
	if v, ok := page.(pages.View); ok {
		b.WriteString(v.Render())
	} else {
		b.WriteString(page.Title())
	}
	b.WriteString("\n\n")
	if a.status != "" {
		b.WriteString(statusStyle.Render(a.status) + "\n")
	}
	b.WriteString(helpStyle.Render(help(page.Kind())))
	return b.String()
}

func help(kind setupflow.PageKind) string {
	switch kind {
	case setupflow.KindMain:
		return "[enter] start  [q] quit"
	case setupflow.KindLoading:
		return "[esc] cancel"
	case setupflow.KindSummary:
		return "[enter] done  [esc] close"
	default:
		return "[enter] next  [backspace] back  [esc] cancel"
	}
}
