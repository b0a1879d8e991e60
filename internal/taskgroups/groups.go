package taskgroups

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/jask/setupflow/internal/catalog"
	"github.com/jask/setupflow/internal/devdrive"
	"github.com/jask/setupflow/internal/pages"
	"github.com/jask/setupflow/internal/setupflow"
)

type (
	// Repository is a repository offered for cloning.
	Repository struct {
		URL  string
		Path string
	}

	// AppManagement picks packages to install.
	AppManagement struct {
		page      *pages.ListPage
		selection *catalog.Provider
		exec      Executor
	}

	// RepoConfig picks repositories to clone.
	RepoConfig struct {
		page     *pages.ListPage
		repos    []Repository
		selected []string
		exec     Executor
	}

	// DevDrive creates a dev drive as part of the flow. It has no setup
	// page of its own.
	DevDrive struct {
		manager *devdrive.Manager
		label   string
		sizeGB  int
		exec    Executor
	}

	// CreateEnvironment picks a provider to create a new environment with.
	CreateEnvironment struct {
		page       *pages.ListPage
		originPage string
		provider   string
		exec       Executor
	}

	// TargetEnvironment configures an existing environment. It adds work
	// but neither a setup page nor a review section.
	TargetEnvironment struct {
		originPage string
		item       setupflow.EnvironmentItem
		exec       Executor
	}
)

var ErrNoProvider = errors.New("no environment provider chosen")

var (
	_ setupflow.TaskGroup = (*AppManagement)(nil)
	_ setupflow.TaskGroup = (*RepoConfig)(nil)
	_ setupflow.TaskGroup = (*DevDrive)(nil)
	_ setupflow.TaskGroup = (*ConfigurationFile)(nil)
	_ setupflow.TaskGroup = (*CreateEnvironment)(nil)
	_ setupflow.TaskGroup = (*TargetEnvironment)(nil)
	_ pages.TaskSource    = (*AppManagement)(nil)
)

func NewAppManagement(
	title, query string, available []catalog.Package,
	selection *catalog.Provider, exec Executor,
) *AppManagement {
	found := catalog.Search(available, query)
	items := make([]pages.Item, 0, len(found))
	byID := map[string]catalog.Package{}
	for _, p := range found {
		items = append(items, pages.Item{ID: p.ID, Label: p.Name, Detail: p.Description})
		byID[p.ID] = p
	}
	g := &AppManagement{selection: selection, exec: exec}
	g.page = pages.NewListPage(title, items, func(it pages.Item, on bool) {
		if selection.IsSelected(it.ID) != on {
			selection.Toggle(byID[it.ID])
		}
	})
	for _, p := range selection.Selected() {
		g.page.Choose(p.ID, true)
	}
	return g
}

func (g *AppManagement) Page() *pages.ListPage { return g.page }

func (g *AppManagement) SetupPage() setupflow.Page { return g.page }

func (g *AppManagement) ReviewContribution() setupflow.ReviewContribution {
	var names []string
	for _, p := range g.selection.Selected() {
		names = append(names, p.Name)
	}
	return &review{heading: "Applications", items: names}
}

func (g *AppManagement) Tasks() []pages.Task {
	var tasks []pages.Task
	for _, p := range g.selection.Selected() {
		tasks = append(tasks, newTask("Install "+p.Name, func(ctx context.Context) error {
			return g.exec.Run(ctx, Step{Kind: StepInstallPackage, Target: p.ID})
		}))
	}
	return tasks
}

func NewRepoConfig(title string, repos []Repository, exec Executor) *RepoConfig {
	g := &RepoConfig{repos: slices.Clone(repos), exec: exec}
	items := make([]pages.Item, 0, len(repos))
	for _, r := range repos {
		items = append(items, pages.Item{ID: r.URL, Label: r.URL, Detail: r.Path})
	}
	g.page = pages.NewListPage(title, items, func(it pages.Item, on bool) {
		if on {
			g.selected = append(g.selected, it.ID)
			return
		}
		g.selected = slices.DeleteFunc(g.selected, func(u string) bool { return u == it.ID })
	})
	return g
}

func (g *RepoConfig) Page() *pages.ListPage { return g.page }

func (g *RepoConfig) SetupPage() setupflow.Page { return g.page }

func (g *RepoConfig) ReviewContribution() setupflow.ReviewContribution {
	return &review{heading: "Repositories", items: slices.Clone(g.selected)}
}

func (g *RepoConfig) Tasks() []pages.Task {
	var tasks []pages.Task
	for _, r := range g.chosen() {
		tasks = append(tasks, newTask("Clone "+r.URL, func(ctx context.Context) error {
			return g.exec.Run(ctx, Step{
				Kind:     StepCloneRepository,
				Target:   r.URL,
				Settings: map[string]string{"path": r.Path},
			})
		}))
	}
	return tasks
}

func (g *RepoConfig) chosen() []Repository {
	var res []Repository
	for _, url := range g.selected {
		i := slices.IndexFunc(g.repos, func(r Repository) bool { return r.URL == url })
		if i >= 0 {
			res = append(res, g.repos[i])
		}
	}
	return res
}

func NewDevDrive(manager *devdrive.Manager, label string, sizeGB int, exec Executor) *DevDrive {
	return &DevDrive{manager: manager, label: label, sizeGB: sizeGB, exec: exec}
}

func (g *DevDrive) SetupPage() setupflow.Page { return nil }

func (g *DevDrive) ReviewContribution() setupflow.ReviewContribution {
	return &review{
		heading: "Dev Drive",
		items:   []string{fmt.Sprintf("%s (%d GB)", g.label, g.sizeGB)},
	}
}

// Tasks creates the drive as ephemeral and commits it once the step
// succeeds. A failed drive stays ephemeral and goes away with the flow.
func (g *DevDrive) Tasks() []pages.Task {
	return []pages.Task{newTask("Create Dev Drive "+g.label, func(ctx context.Context) error {
		d, err := g.manager.Add(g.label, g.sizeGB, true)
		if err != nil {
			return err
		}
		err = g.exec.Run(ctx, Step{
			Kind:     StepCreateDevDrive,
			Target:   g.label,
			Settings: map[string]string{"size_gb": fmt.Sprint(g.sizeGB)},
		})
		if err != nil {
			return err
		}
		g.manager.Commit(d.ID)
		return nil
	})}
}

func NewCreateEnvironment(
	title, originPage string, providers []string, exec Executor,
) *CreateEnvironment {
	g := &CreateEnvironment{originPage: originPage, exec: exec}
	items := make([]pages.Item, 0, len(providers))
	for _, p := range providers {
		items = append(items, pages.Item{ID: p, Label: p})
	}
	g.page = pages.NewChoicePage(title, items, func(it pages.Item, on bool) {
		if on {
			g.provider = it.ID
		} else if g.provider == it.ID {
			g.provider = ""
		}
	})
	return g
}

func (g *CreateEnvironment) Page() *pages.ListPage { return g.page }

func (g *CreateEnvironment) OriginPage() string { return g.originPage }

func (g *CreateEnvironment) SetupPage() setupflow.Page { return g.page }

func (g *CreateEnvironment) ReviewContribution() setupflow.ReviewContribution {
	var items []string
	if g.provider != "" {
		items = append(items, g.provider)
	}
	return &review{heading: "Environment", items: items}
}

func (g *CreateEnvironment) Tasks() []pages.Task {
	provider := g.provider
	return []pages.Task{newTask("Create environment", func(ctx context.Context) error {
		if provider == "" {
			return ErrNoProvider
		}
		return g.exec.Run(ctx, Step{Kind: StepCreateEnvironment, Target: provider})
	})}
}

func NewTargetEnvironment(
	originPage string, item setupflow.EnvironmentItem, exec Executor,
) *TargetEnvironment {
	return &TargetEnvironment{originPage: originPage, item: item, exec: exec}
}

func (g *TargetEnvironment) SetupPage() setupflow.Page { return nil }

func (g *TargetEnvironment) ReviewContribution() setupflow.ReviewContribution {
	return nil
}

func (g *TargetEnvironment) Target() string {
	if g.item == nil {
		return ""
	}
	return g.item.DisplayName()
}

func (g *TargetEnvironment) Tasks() []pages.Task {
	target := g.Target()
	if target == "" {
		return nil
	}
	return []pages.Task{newTask("Configure "+target, func(ctx context.Context) error {
		return g.exec.Run(ctx, Step{
			Kind:     StepConfigureTarget,
			Target:   target,
			Settings: map[string]string{"origin": g.originPage},
		})
	})}
}
