// Package pages implements the concrete setup flow pages and the factory
// the flow uses to create per-flow review, loading and summary pages.
package pages

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/setupflow/internal/setupflow"
)

type (
	// Task is one unit of work executed by the loading page.
	Task interface {
		Description() string
		Execute(ctx context.Context) error
	}

	// TaskSource is implemented by task groups that contribute work.
	TaskSource interface {
		Tasks() []Task
	}

	// View renders a page body.
	View interface {
		Render() string
	}

	// Interactive pages react to keys while they are current. HandleKey
	// reports whether the key was consumed.
	Interactive interface {
		HandleKey(msg tea.KeyMsg) bool
	}
)

// Localized string keys for page titles.
const (
	StringMainPageTitle    = "MainPageTitle"
	StringReviewPageTitle  = "ReviewPageTitle"
	StringLoadingPageTitle = "LoadingPageTitle"
	StringSummaryPageTitle = "SummaryPageTitle"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	headingStyle = lipgloss.NewStyle().Bold(true)
	cursorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// SetAccent recolors the cursor and other highlights.
func SetAccent(color string) {
	if color != "" {
		cursorStyle = cursorStyle.Foreground(lipgloss.Color(color))
	}
}

type keyStrings struct{}

func ensureStrings(s setupflow.StringResource) setupflow.StringResource {
	if s == nil {
		return keyStrings{}
	}
	return s
}

func (keyStrings) Localized(key string) string { return key }

func cursor(selected bool) string {
	if selected {
		return cursorStyle.Render(">") + " "
	}
	return "  "
}

func checkbox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}
