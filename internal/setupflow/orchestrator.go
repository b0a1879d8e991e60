package setupflow

import (
	"log/slog"

	"github.com/google/uuid"

	flowlog "github.com/jask/setupflow/internal/log"
)

type (
	// Orchestrator holds the current flow's pages and position.
	Orchestrator interface {
		Pages() []Page
		SetPages(pages []Page)
		CurrentPage() Page
		Title() string
		SetTitle(title string)
		ActivityID() uuid.UUID
		BeginActivity() uuid.UUID
		AdvanceToNextPage() bool
		ReleaseRemoteOperationObject()
		SubNavigator() SubNavigator
	}

	// SubNavigator is an embedded navigator for card-driven sub-flows.
	SubNavigator interface {
		ResetFlowNavigator()
	}

	// RemoteOperation is a handle to work running outside this process.
	RemoteOperation interface {
		Release()
	}

	// Player is the index-based Orchestrator implementation.
	Player struct {
		pages      []Page
		visited    []bool
		index      int
		title      string
		activityID uuid.UUID
		remote     RemoteOperation
		navigator  SubNavigator
		changed    Event[Page]
		logger     *slog.Logger
	}
)

var _ Orchestrator = (*Player)(nil)

// NewPlayer creates an empty Player. A nil navigator is replaced with one
// that has nothing to reset.
func NewPlayer(navigator SubNavigator, logger *slog.Logger) *Player {
	if navigator == nil {
		navigator = nopNavigator{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Player{
		navigator: navigator,
		logger:    logger,
	}
}

func (p *Player) Pages() []Page {
	res := make([]Page, len(p.pages))
	copy(res, p.pages)
	return res
}

// SetPages replaces the page list and moves to its first page.
func (p *Player) SetPages(pages []Page) {
	p.pages = make([]Page, len(pages))
	copy(p.pages, pages)
	p.visited = make([]bool, len(pages))
	p.index = 0
	p.activate()
}

func (p *Player) CurrentPage() Page {
	if p.index < 0 || p.index >= len(p.pages) {
		return nil
	}
	return p.pages[p.index]
}

func (p *Player) CurrentIndex() int {
	return p.index
}

func (p *Player) Title() string {
	return p.title
}

func (p *Player) SetTitle(title string) {
	p.title = title
}

func (p *Player) ActivityID() uuid.UUID {
	return p.activityID
}

// BeginActivity issues a fresh activity id for a new flow.
func (p *Player) BeginActivity() uuid.UUID {
	p.activityID = uuid.New()
	return p.activityID
}

func (p *Player) IsFirstPage() bool {
	return p.index == 0
}

func (p *Player) IsLastPage() bool {
	return p.index >= len(p.pages)-1
}

// AdvanceToNextPage moves forward one page. It returns false when already
// on the last page.
func (p *Player) AdvanceToNextPage() bool {
	if p.IsLastPage() {
		return false
	}
	p.index++
	p.logger.Debug("Advanced to next page",
		flowlog.ActivityID(p.activityID),
		flowlog.Page(p.pages[p.index].Kind()),
		slog.Int("index", p.index))
	p.activate()
	return true
}

// GoToPreviousPage moves back one page. It returns false when already on the
// first page.
func (p *Player) GoToPreviousPage() bool {
	if p.IsFirstPage() {
		return false
	}
	p.index--
	p.activate()
	return true
}

// SetRemoteOperation holds op until ReleaseRemoteOperationObject. A
// previously held handle is released first.
func (p *Player) SetRemoteOperation(op RemoteOperation) {
	p.ReleaseRemoteOperationObject()
	p.remote = op
}

func (p *Player) HasRemoteOperation() bool {
	return p.remote != nil
}

// ReleaseRemoteOperationObject releases the held handle, if any.
func (p *Player) ReleaseRemoteOperationObject() {
	if p.remote == nil {
		return
	}
	p.remote.Release()
	p.remote = nil
}

func (p *Player) SubNavigator() SubNavigator {
	return p.navigator
}

// OnPageChanged subscribes to current-page changes.
func (p *Player) OnPageChanged(fn func(Page)) Subscription {
	return p.changed.Subscribe(fn)
}

func (p *Player) activate() {
	page := p.CurrentPage()
	if page == nil {
		return
	}
	first := !p.visited[p.index]
	p.visited[p.index] = true
	if nav, ok := page.(Navigable); ok {
		nav.OnNavigatedTo(first)
	}
	p.changed.Emit(page)
}

type nopNavigator struct{}

func (nopNavigator) ResetFlowNavigator() {}
