// Package taskgroups provides the task groups a setup flow is assembled
// from, and the catalog the main page uses to pick them.
package taskgroups

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/jask/setupflow/internal/pages"
)

type (
	// Step is a single change applied to the machine.
	Step struct {
		Kind     string
		Target   string
		Settings map[string]string
	}

	// Executor applies steps. Installing packages, cloning and so on are
	// all expressed as steps so the groups stay independent of how the
	// machine is actually changed.
	Executor interface {
		Run(ctx context.Context, step Step) error
	}

	// LogExecutor only logs the steps it is given.
	LogExecutor struct {
		Logger *slog.Logger
	}

	stepTask struct {
		description string
		run         func(ctx context.Context) error
	}

	review struct {
		heading string
		items   []string
	}
)

// Step kinds.
const (
	StepInstallPackage    = "install-package"
	StepCloneRepository   = "clone-repository"
	StepCreateDevDrive    = "create-dev-drive"
	StepApplyResource     = "apply-resource"
	StepCreateEnvironment = "create-environment"
	StepConfigureTarget   = "configure-target"
)

func (e LogExecutor) Run(ctx context.Context, step Step) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	logger := e.Logger
	if logger == nil {
		logger = slog.Default()
	}
	keys := slices.Sorted(maps.Keys(step.Settings))
	logger.Info("Applying setup step",
		slog.String("kind", step.Kind),
		slog.String("target", step.Target),
		slog.String("settings", strings.Join(keys, ",")))
	return nil
}

func newTask(description string, run func(ctx context.Context) error) pages.Task {
	return &stepTask{description: description, run: run}
}

func (t *stepTask) Description() string               { return t.description }
func (t *stepTask) Execute(ctx context.Context) error { return t.run(ctx) }

func (r *review) Heading() string { return r.heading }
func (r *review) Items() []string { return r.items }
