package taskgroups_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jask/setupflow/internal/catalog"
	"github.com/jask/setupflow/internal/devdrive"
	"github.com/jask/setupflow/internal/log"
	"github.com/jask/setupflow/internal/pages"
	"github.com/jask/setupflow/internal/setupflow"
	"github.com/jask/setupflow/internal/taskgroups"
)

type (
	recordingExecutor struct {
		mu    sync.Mutex
		steps []taskgroups.Step
		fail  map[string]error
	}

	env string
)

func (e *recordingExecutor) Run(_ context.Context, s taskgroups.Step) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.steps = append(e.steps, s)
	return e.fail[s.Kind]
}

func (e *recordingExecutor) targets() []string {
	var res []string
	for _, s := range e.steps {
		res = append(res, s.Kind+":"+s.Target)
	}
	return res
}

func (e env) DisplayName() string { return string(e) }

func runAll(t *testing.T, src pages.TaskSource) []error {
	t.Helper()
	var errs []error
	for _, task := range src.Tasks() {
		errs = append(errs, task.Execute(context.Background()))
	}
	return errs
}

func TestAppManagementSelection(t *testing.T) {
	exec := &recordingExecutor{}
	sel := catalog.NewProvider()
	g := taskgroups.NewAppManagement("Apps", "", catalog.Default(), sel, exec)

	require.True(t, g.Page().Choose("Git.Git", true))
	require.True(t, g.Page().Choose("GoLang.Go", true))
	require.True(t, g.Page().Choose("Git.Git", false))

	assert.Equal(t, g.Page(), g.SetupPage())
	assert.Equal(t, []string{"Go"}, g.ReviewContribution().Items())
	runAll(t, g)
	assert.Equal(t, []string{"install-package:GoLang.Go"}, exec.targets())

	// a new group over the same selection starts with it checked
	again := taskgroups.NewAppManagement("Apps", "", catalog.Default(), sel, exec)
	assert.True(t, again.Page().IsChosen("GoLang.Go"))
}

func TestAppManagementQueryFilters(t *testing.T) {
	g := taskgroups.NewAppManagement("Apps", "python", catalog.Default(),
		catalog.NewProvider(), &recordingExecutor{})
	require.Len(t, g.Page().Items(), 1)
	assert.Equal(t, "Python.Python.3", g.Page().Items()[0].ID)
}

func TestRepoConfig(t *testing.T) {
	exec := &recordingExecutor{}
	g := taskgroups.NewRepoConfig("Repos", []taskgroups.Repository{
		{URL: "https://example.com/a.git", Path: "src/a"},
		{URL: "https://example.com/b.git", Path: "src/b"},
	}, exec)

	g.Page().Choose("https://example.com/b.git", true)
	g.Page().Choose("https://example.com/a.git", true)
	assert.Equal(t, []string{
		"https://example.com/b.git", "https://example.com/a.git",
	}, g.ReviewContribution().Items())

	runAll(t, g)
	require.Len(t, exec.steps, 2)
	assert.Equal(t, "src/b", exec.steps[0].Settings["path"])
}

func TestDevDriveCommitsOnSuccess(t *testing.T) {
	drives := devdrive.NewManager(log.Discard())
	g := taskgroups.NewDevDrive(drives, "Dev", 64, &recordingExecutor{})

	assert.Nil(t, g.SetupPage())
	assert.Equal(t, []string{"Dev (64 GB)"}, g.ReviewContribution().Items())
	assert.Equal(t, []error{nil}, runAll(t, g))

	drives.RemoveAllEphemeralResources()
	require.Len(t, drives.Drives(), 1)
	assert.False(t, drives.Drives()[0].Ephemeral)
}

func TestDevDriveFailureStaysEphemeral(t *testing.T) {
	boom := errors.New("boom")
	drives := devdrive.NewManager(log.Discard())
	exec := &recordingExecutor{fail: map[string]error{taskgroups.StepCreateDevDrive: boom}}
	g := taskgroups.NewDevDrive(drives, "Dev", 64, exec)

	errs := runAll(t, g)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], boom)
	require.Len(t, drives.Drives(), 1)

	drives.RemoveAllEphemeralResources()
	assert.Empty(t, drives.Drives())
}

func TestCreateEnvironmentNeedsProvider(t *testing.T) {
	exec := &recordingExecutor{}
	g := taskgroups.NewCreateEnvironment("Create", "Environments",
		taskgroups.DefaultProviders, exec)

	assert.Empty(t, g.ReviewContribution().Items())
	errs := runAll(t, g)
	assert.ErrorIs(t, errs[0], taskgroups.ErrNoProvider)

	g.Page().Choose("Hyper-V", true)
	g.Page().Choose("Microsoft Dev Box", true)
	assert.Equal(t, []string{"Microsoft Dev Box"}, g.ReviewContribution().Items())
	assert.Equal(t, []error{nil}, runAll(t, g))
	assert.Equal(t, []string{"create-environment:Microsoft Dev Box"}, exec.targets())
	assert.Equal(t, "Environments", g.OriginPage())
}

func TestTargetEnvironment(t *testing.T) {
	exec := &recordingExecutor{}
	g := taskgroups.NewTargetEnvironment("Environments", env("devbox-1"), exec)

	assert.Nil(t, g.SetupPage())
	assert.Nil(t, g.ReviewContribution())
	runAll(t, g)
	assert.Equal(t, []string{"configure-target:devbox-1"}, exec.targets())
	assert.Equal(t, "Environments", exec.steps[0].Settings["origin"])

	assert.Empty(t, taskgroups.NewTargetEnvironment("", nil, exec).Tasks())
}

func TestLoadConfigurationFile(t *testing.T) {
	exec := &recordingExecutor{}
	g, err := taskgroups.LoadConfigurationFile(context.Background(),
		filepath.Join("testdata", "configuration.yaml"), exec)
	require.NoError(t, err)

	res := g.Resources()
	require.Len(t, res, 2)
	assert.Equal(t, "Install Git", res[0].Label())
	assert.Equal(t, "Git.Git", res[0].Settings["id"])
	assert.Equal(t, "Microsoft.Windows.Developer/DeveloperMode", res[1].Label())

	assert.Nil(t, g.SetupPage())
	assert.Equal(t, []string{
		"Install Git", "Microsoft.Windows.Developer/DeveloperMode",
	}, g.ReviewContribution().Items())

	runAll(t, g)
	assert.Equal(t, []string{
		"apply-resource:Microsoft.WinGet.DSC/WinGetPackage",
		"apply-resource:Microsoft.Windows.Developer/DeveloperMode",
	}, exec.targets())
}

func TestConfigurationFileErrors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
		return path
	}
	ctx := context.Background()

	_, err := taskgroups.LoadConfigurationFile(ctx, filepath.Join(dir, "missing.yaml"), nil)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = taskgroups.LoadConfigurationFile(ctx, write("empty.yaml", "properties: {}\n"), nil)
	assert.ErrorIs(t, err, taskgroups.ErrNoResources)

	_, err = taskgroups.LoadConfigurationFile(ctx,
		write("untyped.yaml", "properties:\n  resources:\n    - id: x\n"), nil)
	assert.ErrorIs(t, err, taskgroups.ErrInvalidResource)

	_, err = taskgroups.LoadConfigurationFile(ctx, write("bad.yaml", "properties: [\n"), nil)
	assert.Error(t, err)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = taskgroups.LoadConfigurationFile(cancelled, "testdata/configuration.yaml", nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCatalogGroups(t *testing.T) {
	exec := &recordingExecutor{}
	c := taskgroups.NewCatalog(taskgroups.Options{
		Executor: exec,
		Logger:   log.Discard(),
		DevDrive: taskgroups.DevDriveOptions{Enabled: true},
	})

	assert.Len(t, c.AppManagement("git"), 1)

	repo := c.RepoConfig("")
	require.Len(t, repo, 2)
	assert.IsType(t, &taskgroups.DevDrive{}, repo[1])

	create := c.CreateEnvironment("", "Home")
	require.Len(t, create, 1)
	assert.NotNil(t, create[0].SetupPage())

	target := c.TargetEnvironment("", "Env", env("box"))
	require.Len(t, target, 2)
	assert.Nil(t, target[1].ReviewContribution())

	groups, err := c.ConfigurationFile(context.Background(), "testdata/configuration.yaml")
	require.NoError(t, err)
	require.Len(t, groups, 1)

	_, err = c.ConfigurationFile(context.Background(), "testdata/nope.yaml")
	assert.Error(t, err)
}

func TestCatalogDrivesMainPage(t *testing.T) {
	c := taskgroups.NewCatalog(taskgroups.Options{Logger: log.Discard()})
	m := pages.NewMain(context.Background(), c, nil, log.Discard())

	var got setupflow.StartFlowArgs
	m.OnStartFlow(func(a setupflow.StartFlowArgs) { got = a })
	m.StartRepoConfig("Clone")

	assert.Equal(t, "Clone", got.Title)
	require.Len(t, got.Groups, 1)
	assert.Equal(t, "Clone", got.Groups[0].SetupPage().Title())
}

func TestLogExecutorHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := taskgroups.LogExecutor{Logger: log.Discard()}.Run(ctx, taskgroups.Step{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoError(t, taskgroups.LogExecutor{Logger: log.Discard()}.Run(
		context.Background(), taskgroups.Step{Kind: "x"}))
}
