package setupflow

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	flowlog "github.com/jask/setupflow/internal/log"
)

type (
	// DeviceResources owns ephemeral per-flow devices such as dev drives.
	DeviceResources interface {
		RemoveAllEphemeralResources()
	}

	// PackageSelection holds the packages picked during a flow.
	PackageSelection interface {
		Clear()
	}

	// StringResource looks up localized strings by key.
	StringResource interface {
		Localized(key string) string
	}

	// Telemetry records named flow events correlated by activity id.
	Telemetry interface {
		Log(name string, activityID uuid.UUID, props map[string]string)
	}

	// Metrics counts flow lifecycle events.
	Metrics interface {
		FlowStarted(entry string)
		FlowTerminated()
		Navigation(result string)
		AutoAdvanced()
	}

	// Deps are the collaborators a Flow is built from. Main, Orchestrator and
	// Pages are required.
	Deps struct {
		Main         MainPage
		Orchestrator Orchestrator
		Pages        PageFactory
		Devices      DeviceResources
		Packages     PackageSelection
		Strings      StringResource
		Telemetry    Telemetry
		Metrics      Metrics
		Logger       *slog.Logger
		Routes       []Route
	}

	// Flow coordinates a single setup flow at a time: it sequences pages
	// for the task groups the main page hands it, routes navigation
	// requests to entry points, and tears the flow down on exit.
	Flow struct {
		main      MainPage
		orch      Orchestrator
		pages     PageFactory
		devices   DeviceResources
		packages  PackageSelection
		strings   StringResource
		telemetry Telemetry
		metrics   Metrics
		logger    *slog.Logger
		routes    []Route

		session *Session
		endFlow Signal
		mainSub Subscription
	}
)

// Telemetry event names.
const (
	EventTermination = "SetupFlow_Termination"
	EventStarted     = "SetupFlow_Started"
)

// Localized string keys used by the flow.
const (
	StringReposConfigPageTitle = "ReposConfigPageTitle"
)

const cancelCallerPrefix = "CancelButton_"

var ErrMissingDependency = errors.New("missing flow dependency")

// New builds a Flow showing only the main page.
func New(deps Deps) (*Flow, error) {
	switch {
	case deps.Main == nil:
		return nil, fmt.Errorf("%w: main page", ErrMissingDependency)
	case deps.Orchestrator == nil:
		return nil, fmt.Errorf("%w: orchestrator", ErrMissingDependency)
	case deps.Pages == nil:
		return nil, fmt.Errorf("%w: page factory", ErrMissingDependency)
	}

	f := &Flow{
		main:      deps.Main,
		orch:      deps.Orchestrator,
		pages:     deps.Pages,
		devices:   deps.Devices,
		packages:  deps.Packages,
		strings:   deps.Strings,
		telemetry: deps.Telemetry,
		metrics:   deps.Metrics,
		logger:    deps.Logger,
		routes:    deps.Routes,
	}
	if f.devices == nil {
		f.devices = nopDevices{}
	}
	if f.packages == nil {
		f.packages = nopPackages{}
	}
	if f.strings == nil {
		f.strings = keyStrings{}
	}
	if f.telemetry == nil {
		f.telemetry = nopTelemetry{}
	}
	if f.metrics == nil {
		f.metrics = nopMetrics{}
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}
	if f.routes == nil {
		f.routes = DefaultRoutes
	}

	f.showMain()
	f.mainSub = f.main.OnStartFlow(f.handleStartFlow)
	return f, nil
}

// Orchestrator exposes the page holder this flow drives.
func (f *Flow) Orchestrator() Orchestrator {
	return f.orch
}

// Session returns the active flow session, or nil when only the main page
// is showing.
func (f *Flow) Session() *Session {
	return f.session
}

// OnEndFlow subscribes to flow teardown.
func (f *Flow) OnEndFlow(fn func()) Subscription {
	return OnSignal(&f.endFlow, fn)
}

// Cancel terminates the flow on behalf of the current page.
func (f *Flow) Cancel() {
	caller := cancelCallerPrefix + "None"
	if page := f.orch.CurrentPage(); page != nil {
		caller = cancelCallerPrefix + page.Kind().String()
	}
	f.Terminate(caller)
}

// Terminate records why the flow is ending and resets to the main page.
func (f *Flow) Terminate(caller string) {
	// reported before Reset so the flow's activity id is still current
	activityID := f.orch.ActivityID()
	f.logger.Info("Terminating setup flow",
		flowlog.Caller(caller),
		flowlog.ActivityID(activityID))
	f.telemetry.Log(EventTermination, activityID, map[string]string{
		"caller": caller,
	})
	f.metrics.FlowTerminated()

	f.Reset()
}

// Reset clears all per-flow state and shows the main page alone. It is safe
// to call when no flow is active.
func (f *Flow) Reset() {
	f.orch.ReleaseRemoteOperationObject()
	f.devices.RemoveAllEphemeralResources()
	f.packages.Clear()
	Fire(&f.endFlow)
	if nav := f.orch.SubNavigator(); nav != nil {
		nav.ResetFlowNavigator()
	}
	f.showMain()
}

// Close detaches the flow from its main page and session.
func (f *Flow) Close() {
	f.closeSession()
	if f.mainSub != nil {
		f.mainSub.Cancel()
		f.mainSub = nil
	}
}

func (f *Flow) handleStartFlow(args StartFlowArgs) {
	f.BuildPages(args.Groups, args.Title)
}

func (f *Flow) showMain() {
	f.setPages([]Page{f.main}, nil)
}

// setPages swaps the page list, retiring the previous flow session.
func (f *Flow) setPages(pages []Page, session *Session) {
	f.closeSession()
	f.session = session
	f.orch.SetPages(pages)
}

func (f *Flow) closeSession() {
	if f.session == nil {
		return
	}
	f.session.Close()
	f.session = nil
}

type (
	nopDevices   struct{}
	nopPackages  struct{}
	nopTelemetry struct{}
	nopMetrics   struct{}
	keyStrings   struct{}
)

func (nopDevices) RemoveAllEphemeralResources()               {}
func (nopPackages) Clear()                                    {}
func (nopTelemetry) Log(string, uuid.UUID, map[string]string) {}
func (nopMetrics) FlowStarted(string)                         {}
func (nopMetrics) FlowTerminated()                            {}
func (nopMetrics) Navigation(string)                          {}
func (nopMetrics) AutoAdvanced()                              {}
func (keyStrings) Localized(key string) string                { return key }
