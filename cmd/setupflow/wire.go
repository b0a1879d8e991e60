package main

import (
	"context"
	"log/slog"

	"github.com/jask/setupflow/internal/catalog"
	"github.com/jask/setupflow/internal/config"
	"github.com/jask/setupflow/internal/devdrive"
	"github.com/jask/setupflow/internal/pages"
	"github.com/jask/setupflow/internal/setupflow"
	"github.com/jask/setupflow/internal/taskgroups"
)

type (
	wiringDeps struct {
		strings   setupflow.StringResource
		telemetry setupflow.Telemetry
		metrics   setupflow.Metrics
		logger    *slog.Logger
	}

	wiring struct {
		flow   *setupflow.Flow
		player *setupflow.Player
		main   *pages.Main
	}
)

// wire assembles the flow with its pages and task groups.
func wire(ctx context.Context, cfg config.Config, d wiringDeps) (*wiring, error) {
	selection := catalog.NewProvider()
	drives := devdrive.NewManager(d.logger)

	repos := make([]taskgroups.Repository, 0, len(cfg.Repositories))
	for _, r := range cfg.Repositories {
		repos = append(repos, taskgroups.Repository{URL: r.URL, Path: r.Path})
	}
	cat := taskgroups.NewCatalog(taskgroups.Options{
		Repositories: repos,
		Providers:    cfg.Environments.Providers,
		Selection:    selection,
		Drives:       drives,
		Strings:      d.strings,
		Logger:       d.logger,
		DevDrive: taskgroups.DevDriveOptions{
			Enabled: cfg.DevDrive.Enabled,
			Label:   cfg.DevDrive.Label,
			SizeGB:  cfg.DevDrive.SizeGB,
		},
	})

	mainPage := pages.NewMain(ctx, cat, d.strings, d.logger)
	player := setupflow.NewPlayer(nil, d.logger)
	flow, err := setupflow.New(setupflow.Deps{
		Main:         mainPage,
		Orchestrator: player,
		Pages:        pages.NewFactory(d.strings, d.logger),
		Devices:      drives,
		Packages:     selection,
		Strings:      d.strings,
		Telemetry:    d.telemetry,
		Metrics:      d.metrics,
		Logger:       d.logger,
	})
	if err != nil {
		return nil, err
	}
	return &wiring{flow: flow, player: player, main: mainPage}, nil
}
