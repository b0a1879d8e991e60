package pages

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	flowlog "github.com/jask/setupflow/internal/log"
	"github.com/jask/setupflow/internal/setupflow"
)

type (
	// Catalog builds the task groups behind each kind of flow the main page
	// can start.
	Catalog interface {
		AppManagement(query string) []setupflow.TaskGroup
		RepoConfig(title string) []setupflow.TaskGroup
		ConfigurationFile(ctx context.Context, path string) ([]setupflow.TaskGroup, error)
		CreateEnvironment(query, originPage string) []setupflow.TaskGroup
		TargetEnvironment(
			query, originPage string, item setupflow.EnvironmentItem,
		) []setupflow.TaskGroup
	}

	// Main is the landing page. Choosing an option, or one of the entry
	// methods, builds task groups and raises the start-flow event.
	Main struct {
		ctx     context.Context
		catalog Catalog
		strings setupflow.StringResource
		logger  *slog.Logger
		start   setupflow.Event[setupflow.StartFlowArgs]

		cursor     int
		fileInput  *string
		status     string
		lastMarker string
	}

	mainOption struct {
		label string
		run   func(m *Main)
	}
)

// Localized string keys for flow titles.
const (
	StringAppManagementPageTitle     = "AppManagementPageTitle"
	StringCreateEnvironmentPageTitle = "CreateEnvironmentPageTitle"
	StringSetupTargetEnvironment     = "SetupTargetEnvironmentTitle"
	StringConfigurationFileTitle     = "ConfigurationFileTitle"
)

var _ setupflow.MainPage = (*Main)(nil)

var mainOptions = []mainOption{
	{label: "Install applications", run: func(m *Main) { m.StartAppManagement("") }},
	{label: "Clone repositories", run: func(m *Main) {
		m.StartRepoConfig(m.strings.Localized(setupflow.StringReposConfigPageTitle))
	}},
	{label: "Create an environment", run: func(m *Main) {
		m.StartCreateEnvironment("", setupflow.CreationFlowMarker, "")
	}},
	{label: "Apply a configuration file", run: func(m *Main) {
		path := ""
		m.fileInput = &path
	}},
}

func NewMain(
	ctx context.Context, catalog Catalog, strings setupflow.StringResource,
	logger *slog.Logger,
) *Main {
	if logger == nil {
		logger = slog.Default()
	}
	return &Main{
		ctx:     ctx,
		catalog: catalog,
		strings: ensureStrings(strings),
		logger:  logger,
	}
}

func (m *Main) Kind() setupflow.PageKind { return setupflow.KindMain }
func (m *Main) Title() string            { return m.strings.Localized(StringMainPageTitle) }

func (m *Main) OnStartFlow(fn func(setupflow.StartFlowArgs)) setupflow.Subscription {
	return m.start.Subscribe(fn)
}

// Status is the last message shown to the user, such as a file error.
func (m *Main) Status() string { return m.status }

// LastMarker is the flow marker passed by the most recent entry call.
func (m *Main) LastMarker() string { return m.lastMarker }

func (m *Main) OnNavigatedTo(bool) {
	m.fileInput = nil
}

func (m *Main) StartConfigurationFile(ctx context.Context, file string) error {
	groups, err := m.catalog.ConfigurationFile(ctx, file)
	if err != nil {
		m.status = err.Error()
		return fmt.Errorf("start configuration file %s: %w", file, err)
	}
	m.status = ""
	m.raise(m.strings.Localized(StringConfigurationFileTitle), groups)
	return nil
}

func (m *Main) StartAppManagement(query string) {
	m.raise(m.strings.Localized(StringAppManagementPageTitle),
		m.catalog.AppManagement(query))
}

func (m *Main) StartCreateEnvironment(query, marker, originPage string) {
	m.lastMarker = marker
	m.raise(m.strings.Localized(StringCreateEnvironmentPageTitle),
		m.catalog.CreateEnvironment(query, originPage))
}

func (m *Main) StartRepoConfig(title string) {
	m.raise(title, m.catalog.RepoConfig(title))
}

func (m *Main) StartSetupForTargetEnvironment(
	query, marker, originPage string, item setupflow.EnvironmentItem,
) {
	m.lastMarker = marker
	m.raise(m.strings.Localized(StringSetupTargetEnvironment),
		m.catalog.TargetEnvironment(query, originPage, item))
}

func (m *Main) HandleKey(msg tea.KeyMsg) bool {
	if m.fileInput != nil {
		return m.handleFileKey(msg)
	}
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(mainOptions)-1 {
			m.cursor++
		}
	case "enter":
		mainOptions[m.cursor].run(m)
	default:
		return false
	}
	return true
}

func (m *Main) Render() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.Title()) + "\n")
	for i, opt := range mainOptions {
		b.WriteString(cursor(i == m.cursor) + opt.label + "\n")
	}
	if m.fileInput != nil {
		b.WriteString("\nConfiguration file: " + *m.fileInput + "_\n")
		b.WriteString(mutedStyle.Render("[enter] apply  [esc] back"))
	}
	if m.status != "" {
		b.WriteString("\n" + failureStyle.Render(m.status))
	}
	return b.String()
}

func (m *Main) handleFileKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyEsc:
		m.fileInput = nil
	case tea.KeyEnter:
		path := strings.TrimSpace(*m.fileInput)
		m.fileInput = nil
		if path == "" {
			return true
		}
		if err := m.StartConfigurationFile(m.ctx, path); err != nil {
			m.logger.Warn("Configuration file rejected",
				slog.String("path", path),
				flowlog.Error(err))
		}
	case tea.KeyBackspace:
		if s := *m.fileInput; s != "" {
			*m.fileInput = s[:len(s)-1]
		}
	case tea.KeySpace:
		*m.fileInput += " "
	case tea.KeyRunes:
		*m.fileInput += string(msg.Runes)
	}
	return true
}

func (m *Main) raise(title string, groups []setupflow.TaskGroup) {
	m.logger.Debug("Starting flow from main page",
		slog.String("title", title),
		slog.Int("task_groups", len(groups)))
	m.start.Emit(setupflow.StartFlowArgs{Title: title, Groups: groups})
}
