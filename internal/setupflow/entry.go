package setupflow

import (
	"context"

	flowlog "github.com/jask/setupflow/internal/log"
)

// Navigate resolves an external navigation request and starts the matching
// flow. It reports whether a flow was started; unroutable requests leave the
// current flow untouched.
func (f *Flow) Navigate(request any) bool {
	entry, res := Resolve(f.routes, request)
	switch res {
	case ResolutionEmpty:
		f.metrics.Navigation("empty")
		f.logger.Info("Navigation parameter is either null or empty, not navigating")
		return false
	case ResolutionUnmatched:
		f.metrics.Navigation("unmatched")
		f.logger.Warn("Did not navigate",
			flowlog.Request(RequestText(request)),
			"closest_key", ClosestKey(f.routes, request))
		return false
	}

	f.metrics.Navigation("matched")
	switch e := entry.(type) {
	case CreationEntry:
		f.startCreationFlow(e)
	case RepositoryConfigurationEntry:
		f.startRepositoryConfigurationFlow(e)
	case SetupEntry:
		f.Cancel()
		f.StartSetupFlow(e.OriginPage, e.Item)
	}
	return true
}

// StartSetupFlow starts setup for an existing environment. Callers outside
// the router are expected to have terminated any previous flow.
func (f *Flow) StartSetupFlow(originPage string, item EnvironmentItem) {
	f.showMain()
	f.metrics.FlowStarted(EntrySetup.String())
	f.main.StartSetupForTargetEnvironment("", ConfigurationFlowMarker, originPage, item)
}

// StartFileActivationFlow starts a flow from a configuration file. It does
// not terminate the current flow; the caller is assumed to be at a clean
// state, such as application start.
func (f *Flow) StartFileActivationFlow(ctx context.Context, file string) error {
	f.showMain()
	f.metrics.FlowStarted("file-activation")
	return f.main.StartConfigurationFile(ctx, file)
}

// StartAppManagementFlow opens app management, optionally pre-searching for
// query. Like StartFileActivationFlow it does not terminate the current flow.
func (f *Flow) StartAppManagementFlow(query string) {
	f.showMain()
	f.metrics.FlowStarted("app-management")
	f.main.StartAppManagement(query)
}

func (f *Flow) startCreationFlow(e CreationEntry) {
	f.Cancel()
	f.showMain()
	f.metrics.FlowStarted(EntryCreation.String())
	f.main.StartCreateEnvironment("", CreationFlowMarker, e.OriginPage)
}

func (f *Flow) startRepositoryConfigurationFlow(RepositoryConfigurationEntry) {
	f.Cancel()
	f.showMain()
	f.metrics.FlowStarted(EntryRepositoryConfiguration.String())
	f.main.StartRepoConfig(f.strings.Localized(StringReposConfigPageTitle))
}
