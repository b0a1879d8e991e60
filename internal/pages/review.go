package pages

import (
	"strings"

	"github.com/jask/setupflow/internal/setupflow"
)

// Review shows what every task group is about to do.
type Review struct {
	title  string
	groups []setupflow.TaskGroup
}

func (p *Review) Kind() setupflow.PageKind { return setupflow.KindReview }
func (p *Review) Title() string            { return p.title }

// Contributions returns the non-empty review sections in group order.
func (p *Review) Contributions() []setupflow.ReviewContribution {
	var res []setupflow.ReviewContribution
	for _, g := range p.groups {
		if g == nil {
			continue
		}
		if c := g.ReviewContribution(); c != nil {
			res = append(res, c)
		}
	}
	return res
}

func (p *Review) Render() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(p.title) + "\n")
	for _, c := range p.Contributions() {
		b.WriteString(headingStyle.Render(c.Heading()) + "\n")
		items := c.Items()
		if len(items) == 0 {
			b.WriteString("  " + mutedStyle.Render("(none)") + "\n")
		}
		for _, it := range items {
			b.WriteString("  - " + it + "\n")
		}
	}
	b.WriteString(mutedStyle.Render("[enter] set up"))
	return b.String()
}
