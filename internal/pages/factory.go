package pages

import (
	"log/slog"
	"slices"

	"github.com/jask/setupflow/internal/setupflow"
)

// Factory creates fresh review, loading and summary pages for each flow.
type Factory struct {
	strings setupflow.StringResource
	logger  *slog.Logger
}

var _ setupflow.PageFactory = (*Factory)(nil)

func NewFactory(strings setupflow.StringResource, logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{strings: ensureStrings(strings), logger: logger}
}

func (f *Factory) NewReviewPage(groups []setupflow.TaskGroup) setupflow.Page {
	return &Review{
		title:  f.strings.Localized(StringReviewPageTitle),
		groups: slices.Clone(groups),
	}
}

func (f *Factory) NewLoadingPage(groups []setupflow.TaskGroup) setupflow.LoadingPage {
	return &Loading{
		title:  f.strings.Localized(StringLoadingPageTitle),
		groups: slices.Clone(groups),
		logger: f.logger,
	}
}

func (f *Factory) NewSummaryPage(
	_ []setupflow.TaskGroup, loading setupflow.LoadingPage,
) setupflow.Page {
	l, _ := loading.(*Loading)
	return &Summary{
		title:   f.strings.Localized(StringSummaryPageTitle),
		loading: l,
	}
}
