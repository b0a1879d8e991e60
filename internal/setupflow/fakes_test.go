package setupflow_test

import (
	"context"

	"github.com/google/uuid"

	"github.com/jask/setupflow/internal/log"
	"github.com/jask/setupflow/internal/setupflow"
)

type (
	callLog struct {
		calls []string
	}

	fakePage struct {
		kind  setupflow.PageKind
		title string
	}

	fakeReview struct{ heading string }

	fakeGroup struct {
		page   setupflow.Page
		review setupflow.ReviewContribution
	}

	fakeLoading struct {
		fakePage
		finished setupflow.Signal
	}

	fakeMain struct {
		fakePage
		log      *callLog
		start    setupflow.Event[setupflow.StartFlowArgs]
		fileErr  error
		lastArgs []any
	}

	fakeFactory struct {
		loadings []*fakeLoading
	}

	fakeOrchestrator struct {
		*setupflow.Player
		log      *callLog
		advances int
	}

	fakeNavigator struct{ log *callLog }

	fakeRemote struct{ log *callLog }

	fakeDevices struct {
		log   *callLog
		count int
	}

	fakePackages struct{ log *callLog }

	fakeTelemetry struct {
		events []telemetryEvent
	}

	telemetryEvent struct {
		name       string
		activityID uuid.UUID
		props      map[string]string
	}

	fakeStrings map[string]string

	fakeMetrics struct {
		started    []string
		terminated int
		navigation []string
		advanced   int
	}

	fakeEnvironment string
)

func (l *callLog) add(s string) {
	if l != nil {
		l.calls = append(l.calls, s)
	}
}

func (p *fakePage) Kind() setupflow.PageKind { return p.kind }
func (p *fakePage) Title() string            { return p.title }

func (r *fakeReview) Heading() string { return r.heading }
func (r *fakeReview) Items() []string { return []string{r.heading} }

func (g *fakeGroup) SetupPage() setupflow.Page {
	if g.page == nil {
		return nil
	}
	return g.page
}

func (g *fakeGroup) ReviewContribution() setupflow.ReviewContribution {
	if g.review == nil {
		return nil
	}
	return g.review
}

func (l *fakeLoading) OnExecutionFinished(fn func()) setupflow.Subscription {
	return setupflow.OnSignal(&l.finished, fn)
}

func (l *fakeLoading) finish() {
	setupflow.Fire(&l.finished)
}

func newFakeMain(log *callLog) *fakeMain {
	return &fakeMain{
		fakePage: fakePage{kind: setupflow.KindMain, title: "Main"},
		log:      log,
	}
}

func (m *fakeMain) OnStartFlow(fn func(setupflow.StartFlowArgs)) setupflow.Subscription {
	return m.start.Subscribe(fn)
}

func (m *fakeMain) raise(title string, groups ...setupflow.TaskGroup) {
	m.start.Emit(setupflow.StartFlowArgs{Title: title, Groups: groups})
}

func (m *fakeMain) StartConfigurationFile(_ context.Context, file string) error {
	m.log.add("main.configuration-file")
	m.lastArgs = []any{file}
	return m.fileErr
}

func (m *fakeMain) StartAppManagement(query string) {
	m.log.add("main.app-management")
	m.lastArgs = []any{query}
}

func (m *fakeMain) StartCreateEnvironment(query, marker, origin string) {
	m.log.add("main.create-environment")
	m.lastArgs = []any{query, marker, origin}
}

func (m *fakeMain) StartRepoConfig(title string) {
	m.log.add("main.repo-config")
	m.lastArgs = []any{title}
}

func (m *fakeMain) StartSetupForTargetEnvironment(
	query, marker, origin string, item setupflow.EnvironmentItem,
) {
	m.log.add("main.setup-target")
	m.lastArgs = []any{query, marker, origin, item}
}

func (f *fakeFactory) NewReviewPage([]setupflow.TaskGroup) setupflow.Page {
	return &fakePage{kind: setupflow.KindReview, title: "Review"}
}

func (f *fakeFactory) NewLoadingPage([]setupflow.TaskGroup) setupflow.LoadingPage {
	l := &fakeLoading{fakePage: fakePage{kind: setupflow.KindLoading, title: "Loading"}}
	f.loadings = append(f.loadings, l)
	return l
}

func (f *fakeFactory) NewSummaryPage(
	[]setupflow.TaskGroup, setupflow.LoadingPage,
) setupflow.Page {
	return &fakePage{kind: setupflow.KindSummary, title: "Summary"}
}

func (f *fakeFactory) lastLoading() *fakeLoading {
	return f.loadings[len(f.loadings)-1]
}

func newFakeOrchestrator(l *callLog) *fakeOrchestrator {
	return &fakeOrchestrator{
		Player: setupflow.NewPlayer(&fakeNavigator{log: l}, log.Discard()),
		log:    l,
	}
}

func (o *fakeOrchestrator) AdvanceToNextPage() bool {
	o.advances++
	return o.Player.AdvanceToNextPage()
}

func (o *fakeOrchestrator) ReleaseRemoteOperationObject() {
	o.log.add("orchestrator.release-remote")
	o.Player.ReleaseRemoteOperationObject()
}

func (o *fakeOrchestrator) SetPages(pages []setupflow.Page) {
	o.log.add("orchestrator.set-pages")
	o.Player.SetPages(pages)
}

func (n *fakeNavigator) ResetFlowNavigator() { n.log.add("navigator.reset") }

func (r *fakeRemote) Release() { r.log.add("remote.release") }

func (d *fakeDevices) RemoveAllEphemeralResources() {
	d.count++
	d.log.add("devices.remove-all")
}

func (p *fakePackages) Clear() { p.log.add("packages.clear") }

func (t *fakeTelemetry) Log(name string, id uuid.UUID, props map[string]string) {
	t.events = append(t.events, telemetryEvent{name: name, activityID: id, props: props})
}

func (t *fakeTelemetry) named(name string) []telemetryEvent {
	var res []telemetryEvent
	for _, e := range t.events {
		if e.name == name {
			res = append(res, e)
		}
	}
	return res
}

func (s fakeStrings) Localized(key string) string {
	if v, ok := s[key]; ok {
		return v
	}
	return key
}

func (m *fakeMetrics) FlowStarted(entry string)  { m.started = append(m.started, entry) }
func (m *fakeMetrics) FlowTerminated()           { m.terminated++ }
func (m *fakeMetrics) Navigation(result string)  { m.navigation = append(m.navigation, result) }
func (m *fakeMetrics) AutoAdvanced()             { m.advanced++ }
func (e fakeEnvironment) DisplayName() string    { return string(e) }
