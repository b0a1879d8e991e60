package pages

import (
	"strings"

	"github.com/jask/setupflow/internal/setupflow"
)

// Summary reports the outcome of the flow's loading page.
type Summary struct {
	title   string
	loading *Loading
}

func (p *Summary) Kind() setupflow.PageKind { return setupflow.KindSummary }
func (p *Summary) Title() string            { return p.title }

func (p *Summary) Result() Result {
	if p.loading == nil {
		return Result{}
	}
	return p.loading.Result()
}

func (p *Summary) Render() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(p.title) + "\n")
	res := p.Result()
	if len(res.Outcomes) == 0 {
		b.WriteString(mutedStyle.Render("Nothing needed to be done") + "\n")
	}
	for _, o := range res.Outcomes {
		if o.Err != nil {
			b.WriteString(failureStyle.Render("x ") + o.Task + ": " + o.Err.Error() + "\n")
			continue
		}
		b.WriteString(successStyle.Render("v ") + o.Task + "\n")
	}
	b.WriteString(mutedStyle.Render("[enter] done"))
	return b.String()
}
