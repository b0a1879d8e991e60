package taskgroups

import (
	"context"
	"log/slog"
	"slices"

	"github.com/jask/setupflow/internal/catalog"
	"github.com/jask/setupflow/internal/devdrive"
	"github.com/jask/setupflow/internal/pages"
	"github.com/jask/setupflow/internal/setupflow"
)

type (
	// Catalog assembles the task groups for each kind of flow.
	Catalog struct {
		packages     []catalog.Package
		repositories []Repository
		providers    []string
		selection    *catalog.Provider
		drives       *devdrive.Manager
		exec         Executor
		strings      setupflow.StringResource
		devDrive     DevDriveOptions
	}

	// Options configure a Catalog. Zero values fall back to defaults.
	Options struct {
		Packages     []catalog.Package
		Repositories []Repository
		Providers    []string
		Selection    *catalog.Provider
		Drives       *devdrive.Manager
		Executor     Executor
		Strings      setupflow.StringResource
		Logger       *slog.Logger
		DevDrive     DevDriveOptions
	}

	DevDriveOptions struct {
		Enabled bool
		Label   string
		SizeGB  int
	}
)

var _ pages.Catalog = (*Catalog)(nil)

var DefaultProviders = []string{"Hyper-V", "Microsoft Dev Box"}

func NewCatalog(o Options) *Catalog {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Packages == nil {
		o.Packages = catalog.Default()
	}
	if o.Providers == nil {
		o.Providers = DefaultProviders
	}
	if o.Selection == nil {
		o.Selection = catalog.NewProvider()
	}
	if o.Drives == nil {
		o.Drives = devdrive.NewManager(o.Logger)
	}
	if o.Executor == nil {
		o.Executor = LogExecutor{Logger: o.Logger}
	}
	if o.DevDrive.Label == "" {
		o.DevDrive.Label = "Dev Drive"
	}
	if o.DevDrive.SizeGB == 0 {
		o.DevDrive.SizeGB = devdrive.MinSizeGB
	}
	return &Catalog{
		packages:     slices.Clone(o.Packages),
		repositories: slices.Clone(o.Repositories),
		providers:    slices.Clone(o.Providers),
		selection:    o.Selection,
		drives:       o.Drives,
		exec:         o.Executor,
		strings:      o.Strings,
		devDrive:     o.DevDrive,
	}
}

func (c *Catalog) Selection() *catalog.Provider { return c.selection }
func (c *Catalog) Drives() *devdrive.Manager    { return c.drives }

func (c *Catalog) AppManagement(query string) []setupflow.TaskGroup {
	return []setupflow.TaskGroup{c.appManagement(query)}
}

// RepoConfig clones repositories, adding a dev drive when enabled.
func (c *Catalog) RepoConfig(title string) []setupflow.TaskGroup {
	if title == "" {
		title = c.localized(setupflow.StringReposConfigPageTitle)
	}
	groups := []setupflow.TaskGroup{NewRepoConfig(title, c.repositories, c.exec)}
	if c.devDrive.Enabled {
		groups = append(groups,
			NewDevDrive(c.drives, c.devDrive.Label, c.devDrive.SizeGB, c.exec))
	}
	return groups
}

func (c *Catalog) ConfigurationFile(
	ctx context.Context, path string,
) ([]setupflow.TaskGroup, error) {
	g, err := LoadConfigurationFile(ctx, path, c.exec)
	if err != nil {
		return nil, err
	}
	return []setupflow.TaskGroup{g}, nil
}

func (c *Catalog) CreateEnvironment(_, originPage string) []setupflow.TaskGroup {
	return []setupflow.TaskGroup{
		NewCreateEnvironment(c.localized(pages.StringCreateEnvironmentPageTitle),
			originPage, c.providers, c.exec),
	}
}

// TargetEnvironment configures item, letting the user add applications
// to it first.
func (c *Catalog) TargetEnvironment(
	query, originPage string, item setupflow.EnvironmentItem,
) []setupflow.TaskGroup {
	return []setupflow.TaskGroup{
		c.appManagement(query),
		NewTargetEnvironment(originPage, item, c.exec),
	}
}

func (c *Catalog) appManagement(query string) *AppManagement {
	return NewAppManagement(c.localized(pages.StringAppManagementPageTitle),
		query, c.packages, c.selection, c.exec)
}

func (c *Catalog) localized(key string) string {
	if c.strings == nil {
		return key
	}
	return c.strings.Localized(key)
}
