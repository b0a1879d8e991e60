// Package setupflow drives a user through an ordered, dynamically assembled
// sequence of setup pages.
//
// The package owns four concerns:
// - building the page sequence from the selected task groups
// - routing external navigation requests to flow entry points
// - tearing a flow down so that exactly one flow is ever active
// - advancing past the loading page once task execution finishes
//
// Rendering, task execution and the task groups themselves live elsewhere and
// reach this package only through the interfaces declared here.
package setupflow

import "context"

// PageKind identifies the role a page plays in a flow.
type PageKind int

const (
	KindMain PageKind = iota
	KindTaskGroup
	KindReview
	KindLoading
	KindSummary
)

func (k PageKind) String() string {
	switch k {
	case KindMain:
		return "MainPage"
	case KindTaskGroup:
		return "TaskGroupPage"
	case KindReview:
		return "ReviewPage"
	case KindLoading:
		return "LoadingPage"
	case KindSummary:
		return "SummaryPage"
	default:
		return "UnknownPage"
	}
}

// Page is one step of a flow.
type Page interface {
	Kind() PageKind
	Title() string
}

// Navigable pages are told when they become the current page. first is true
// on the first visit within the page's flow.
type Navigable interface {
	OnNavigatedTo(first bool)
}

// ReviewContribution is what a task group shows on the review page.
type ReviewContribution interface {
	Heading() string
	Items() []string
}

// TaskGroup is a unit of selectable work. Either method may return nil.
type TaskGroup interface {
	SetupPage() Page
	ReviewContribution() ReviewContribution
}

// LoadingPage executes the flow's tasks and signals when it is done.
type LoadingPage interface {
	Page
	OnExecutionFinished(fn func()) Subscription
}

// StartFlowArgs is raised by the main page when the user (or an entry point)
// has settled on the task groups for a new flow.
type StartFlowArgs struct {
	Title  string
	Groups []TaskGroup
}

// EnvironmentItem is the target of a "set up this environment" request.
type EnvironmentItem interface {
	DisplayName() string
}

// MainPage is the entry page every flow starts from.
type MainPage interface {
	Page
	OnStartFlow(fn func(StartFlowArgs)) Subscription
	StartConfigurationFile(ctx context.Context, file string) error
	StartAppManagement(query string)
	StartCreateEnvironment(query, marker, originPage string)
	StartRepoConfig(title string)
	StartSetupForTargetEnvironment(query, marker, originPage string, item EnvironmentItem)
}

// PageFactory builds the fixed pages of a flow. Every call returns a new page;
// pages are never shared between flows.
type PageFactory interface {
	NewReviewPage(groups []TaskGroup) Page
	NewLoadingPage(groups []TaskGroup) LoadingPage
	NewSummaryPage(groups []TaskGroup, loading LoadingPage) Page
}
