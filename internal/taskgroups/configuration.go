package taskgroups

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/jask/setupflow/internal/pages"
	"github.com/jask/setupflow/internal/setupflow"
)

type (
	// ConfigurationFile applies the resources declared in a configuration
	// document.
	ConfigurationFile struct {
		path      string
		resources []Resource
		exec      Executor
	}

	// Resource is one declared unit of configuration.
	Resource struct {
		Type        string
		ID          string
		Description string
		Settings    map[string]string
	}

	configDocument struct {
		Properties struct {
			ConfigurationVersion string             `yaml:"configurationVersion"`
			Resources            []resourceDocument `yaml:"resources"`
		} `yaml:"properties"`
	}

	resourceDocument struct {
		Resource   string         `yaml:"resource"`
		ID         string         `yaml:"id"`
		Directives map[string]any `yaml:"directives"`
		Settings   map[string]any `yaml:"settings"`
	}
)

var (
	ErrNoResources     = errors.New("configuration file declares no resources")
	ErrInvalidResource = errors.New("invalid configuration resource")
)

// LoadConfigurationFile reads and parses the document at path.
func LoadConfigurationFile(ctx context.Context, path string, exec Executor) (*ConfigurationFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read configuration file: %w", err)
	}
	resources, err := ParseResources(data)
	if err != nil {
		return nil, err
	}
	return &ConfigurationFile{path: path, resources: resources, exec: exec}, nil
}

// ParseResources decodes the resources of a configuration document.
func ParseResources(data []byte) ([]Resource, error) {
	var doc configDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse configuration file: %w", err)
	}
	if len(doc.Properties.Resources) == 0 {
		return nil, ErrNoResources
	}
	res := make([]Resource, 0, len(doc.Properties.Resources))
	for i, rd := range doc.Properties.Resources {
		if rd.Resource == "" {
			return nil, fmt.Errorf("%w: resource %d has no type", ErrInvalidResource, i)
		}
		r := Resource{
			Type:     rd.Resource,
			ID:       rd.ID,
			Settings: stringify(rd.Settings),
		}
		if d, ok := rd.Directives["description"]; ok {
			r.Description = fmt.Sprint(d)
		}
		res = append(res, r)
	}
	return res, nil
}

// Label is how the resource is shown to the user.
func (r Resource) Label() string {
	switch {
	case r.Description != "":
		return r.Description
	case r.ID != "":
		return r.Type + " " + r.ID
	default:
		return r.Type
	}
}

func (g *ConfigurationFile) Path() string          { return g.path }
func (g *ConfigurationFile) Resources() []Resource { return slices.Clone(g.resources) }

func (g *ConfigurationFile) SetupPage() setupflow.Page { return nil }

func (g *ConfigurationFile) ReviewContribution() setupflow.ReviewContribution {
	items := make([]string, 0, len(g.resources))
	for _, r := range g.resources {
		items = append(items, r.Label())
	}
	return &review{heading: "Configuration", items: items}
}

func (g *ConfigurationFile) Tasks() []pages.Task {
	tasks := make([]pages.Task, 0, len(g.resources))
	for _, r := range g.resources {
		tasks = append(tasks, newTask(r.Label(), func(ctx context.Context) error {
			return g.exec.Run(ctx, Step{
				Kind:     StepApplyResource,
				Target:   r.Type,
				Settings: r.Settings,
			})
		}))
	}
	return tasks
}

func stringify(in map[string]any) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = fmt.Sprint(v)
	}
	return out
}
