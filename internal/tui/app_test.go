package tui_test

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jask/setupflow/internal/catalog"
	"github.com/jask/setupflow/internal/log"
	"github.com/jask/setupflow/internal/pages"
	"github.com/jask/setupflow/internal/setupflow"
	"github.com/jask/setupflow/internal/taskgroups"
	"github.com/jask/setupflow/internal/tui"
)

type harness struct {
	app       *tui.App
	flow      *setupflow.Flow
	player    *setupflow.Player
	main      *pages.Main
	selection *catalog.Provider
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	logger := log.Discard()
	selection := catalog.NewProvider()
	cat := taskgroups.NewCatalog(taskgroups.Options{
		Selection: selection,
		Logger:    logger,
	})
	main := pages.NewMain(context.Background(), cat, nil, logger)
	player := setupflow.NewPlayer(nil, logger)
	flow, err := setupflow.New(setupflow.Deps{
		Main:         main,
		Orchestrator: player,
		Pages:        pages.NewFactory(nil, logger),
		Packages:     selection,
		Devices:      cat.Drives(),
		Logger:       logger,
	})
	require.NoError(t, err)
	t.Cleanup(flow.Close)

	app := tui.New(context.Background(), flow, player, logger)
	t.Cleanup(app.Close)
	return &harness{app: app, flow: flow, player: player, main: main, selection: selection}
}

func (h *harness) press(keys ...tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = h.app.Update(k)
	}
	return cmd
}

func (h *harness) kind() setupflow.PageKind {
	return h.player.CurrentPage().Kind()
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
	space = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	back  = tea.KeyMsg{Type: tea.KeyBackspace}
	quit  = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}
)

func TestAppRunsFlowToSummary(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, setupflow.KindMain, h.kind())
	assert.Contains(t, h.app.View(), "[q] quit")

	// main page's first option is app management
	h.press(enter)
	require.Equal(t, setupflow.KindTaskGroup, h.kind())
	h.press(space)
	require.Len(t, h.selection.Selected(), 1)

	h.press(enter)
	require.Equal(t, setupflow.KindReview, h.kind())
	assert.Contains(t, h.app.View(), "step 2 of 4")

	cmd := h.press(enter)
	require.Equal(t, setupflow.KindLoading, h.kind())
	require.NotNil(t, cmd)
	assert.Equal(t, "Working...", h.app.Status())

	h.app.Update(cmd())
	assert.Equal(t, setupflow.KindSummary, h.kind())
	assert.Empty(t, h.app.Status())
	assert.Contains(t, h.app.View(), "Install Git")

	h.press(enter)
	assert.Equal(t, setupflow.KindMain, h.kind())
	assert.Empty(t, h.selection.Selected())
}

func TestAppBackAndCancel(t *testing.T) {
	h := newHarness(t)
	h.press(enter, enter)
	require.Equal(t, setupflow.KindReview, h.kind())

	h.press(back)
	assert.Equal(t, setupflow.KindTaskGroup, h.kind())

	h.press(esc)
	assert.Equal(t, setupflow.KindMain, h.kind())
	assert.Equal(t, "Setup cancelled", h.app.Status())
}

func TestAppStaleExecutionDoesNotAdvance(t *testing.T) {
	h := newHarness(t)
	h.press(enter, enter)
	cmd := h.press(enter)
	require.Equal(t, setupflow.KindLoading, h.kind())
	require.NotNil(t, cmd)

	h.press(esc)
	require.Equal(t, setupflow.KindMain, h.kind())

	// start another flow, then deliver the first flow's completion
	h.press(enter)
	require.Equal(t, setupflow.KindTaskGroup, h.kind())
	h.app.Update(cmd())
	assert.Equal(t, setupflow.KindTaskGroup, h.kind())
	assert.Equal(t, 0, h.player.CurrentIndex())
}

func TestAppQuit(t *testing.T) {
	h := newHarness(t)
	_, cmd := h.app.Update(quit)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestAppStartsLoadingOnInit(t *testing.T) {
	h := newHarness(t)
	assert.Nil(t, h.app.Init())

	h.flow.BuildPages(nil, "Empty")
	require.Equal(t, setupflow.KindLoading, h.kind())
	cmd := h.app.Init()
	require.NotNil(t, cmd)
	h.app.Update(cmd())
	assert.Equal(t, setupflow.KindSummary, h.kind())
	assert.Contains(t, h.app.View(), "Nothing needed to be done")
}
