package setupflow

import (
	"log/slog"

	flowlog "github.com/jask/setupflow/internal/log"
)

// BuildPages sequences a new flow from groups and installs it on the
// orchestrator. The result is the groups' setup pages in order, a review
// page when any group contributes to review, then the loading and summary
// pages. A non-empty title replaces the flow title; an empty one keeps
// whatever an entry point set earlier.
func (f *Flow) BuildPages(groups []TaskGroup, title string) []Page {
	f.devices.RemoveAllEphemeralResources()
	if title != "" {
		f.orch.SetTitle(title)
	}

	pages := make([]Page, 0, len(groups)+3)
	for _, g := range groups {
		if g == nil {
			continue
		}
		if page := g.SetupPage(); page != nil {
			pages = append(pages, page)
		}
	}

	if hasReview(groups) {
		pages = append(pages, f.pages.NewReviewPage(groups))
	} else {
		f.logger.Info("Review page will be skipped for this flow")
	}

	session := newSession(f.orch.BeginActivity())

	// the loading page advances on its own once execution completes
	loading := f.pages.NewLoadingPage(groups)
	pages = append(pages, loading)
	session.Track(loading.OnExecutionFinished(session.Once(f.autoAdvance)))

	pages = append(pages, f.pages.NewSummaryPage(groups, loading))

	f.logger.Info("Setup flow pages built",
		flowlog.ActivityID(session.ActivityID()),
		slog.Int("task_groups", len(groups)),
		slog.Int("pages", len(pages)))
	f.telemetry.Log(EventStarted, session.ActivityID(), map[string]string{
		"title": f.orch.Title(),
	})

	f.setPages(pages, session)
	return pages
}

func (f *Flow) autoAdvance() {
	f.metrics.AutoAdvanced()
	f.orch.AdvanceToNextPage()
}

func hasReview(groups []TaskGroup) bool {
	for _, g := range groups {
		if g != nil && g.ReviewContribution() != nil {
			return true
		}
	}
	return false
}
