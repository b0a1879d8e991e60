package pages

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/setupflow/internal/setupflow"
)

type (
	// Item is a row on a ListPage.
	Item struct {
		ID     string
		Label  string
		Detail string
	}

	// ListPage is the setup page of a task group: a list of items the user
	// picks from. In single mode at most one item is chosen at a time.
	ListPage struct {
		title    string
		items    []Item
		chosen   map[string]bool
		cursor   int
		single   bool
		onToggle func(Item, bool)
	}
)

// NewListPage creates a multi-select list. onToggle is called whenever an
// item's selection changes.
func NewListPage(title string, items []Item, onToggle func(Item, bool)) *ListPage {
	return &ListPage{
		title:    title,
		items:    items,
		chosen:   map[string]bool{},
		onToggle: onToggle,
	}
}

// NewChoicePage creates a single-select list.
func NewChoicePage(title string, items []Item, onToggle func(Item, bool)) *ListPage {
	p := NewListPage(title, items, onToggle)
	p.single = true
	return p
}

func (p *ListPage) Kind() setupflow.PageKind { return setupflow.KindTaskGroup }
func (p *ListPage) Title() string            { return p.title }
func (p *ListPage) Items() []Item            { return p.items }
func (p *ListPage) Cursor() int              { return p.cursor }

func (p *ListPage) IsChosen(id string) bool { return p.chosen[id] }

// Choose sets an item's selection by id. It reports whether the id exists.
func (p *ListPage) Choose(id string, on bool) bool {
	for _, it := range p.items {
		if it.ID == id {
			p.set(it, on)
			return true
		}
	}
	return false
}

func (p *ListPage) HandleKey(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.items)-1 {
			p.cursor++
		}
	case " ", "space", "x":
		if len(p.items) == 0 {
			return true
		}
		it := p.items[p.cursor]
		p.set(it, !p.chosen[it.ID])
	default:
		return false
	}
	return true
}

func (p *ListPage) Render() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(p.title) + "\n")
	if len(p.items) == 0 {
		b.WriteString(mutedStyle.Render("Nothing to choose from") + "\n")
		return b.String()
	}
	for i, it := range p.items {
		b.WriteString(cursor(i == p.cursor) + checkbox(p.chosen[it.ID]) + " " + it.Label)
		if it.Detail != "" {
			b.WriteString(" " + mutedStyle.Render(it.Detail))
		}
		b.WriteString("\n")
	}
	b.WriteString(mutedStyle.Render("[space] toggle"))
	return b.String()
}

func (p *ListPage) set(it Item, on bool) {
	if p.chosen[it.ID] == on {
		return
	}
	if on && p.single {
		for _, other := range p.items {
			if p.chosen[other.ID] {
				delete(p.chosen, other.ID)
				p.notify(other, false)
			}
		}
	}
	if on {
		p.chosen[it.ID] = true
	} else {
		delete(p.chosen, it.ID)
	}
	p.notify(it, on)
}

func (p *ListPage) notify(it Item, on bool) {
	if p.onToggle != nil {
		p.onToggle(it, on)
	}
}
