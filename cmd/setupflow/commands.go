package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/jask/setupflow/internal/config"
	"github.com/jask/setupflow/internal/database"
	"github.com/jask/setupflow/internal/database/repository"
	flowlog "github.com/jask/setupflow/internal/log"
	"github.com/jask/setupflow/internal/resources"
	"github.com/jask/setupflow/internal/setupflow"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
		},
	}
}

func configCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the current configuration, defaults included, to disk",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := opts.configPath
			if path == "" {
				path = config.DefaultPath()
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite", path)
			}
			cfg, err := config.Load("")
			if err != nil {
				return err
			}
			written, err := config.Save(cfg, path)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", written)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	cmd.AddCommand(initCmd)
	return cmd
}

func eventsCmd(opts *rootOptions) *cobra.Command {
	var (
		limit    int
		activity string
	)
	cmd := &cobra.Command{
		Use:   "events",
		Short: "List recorded flow telemetry",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*opts)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
				return fmt.Errorf("mkdir db dir: %w", err)
			}
			db, err := database.OpenMigrated(cfg.Database.Path)
			if err != nil {
				return err
			}
			defer db.Close()

			repo := repository.NewFlowEventRepo(db)
			var events []repository.FlowEvent
			if activity != "" {
				events, err = repo.ListByActivity(cmd.Context(), activity)
			} else {
				events, err = repo.ListRecent(cmd.Context(), limit)
			}
			if err != nil {
				return fmt.Errorf("list events: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderEvents(events))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of events to show")
	cmd.Flags().StringVar(&activity, "activity", "", "Only show events of this activity id")
	return cmd
}

func renderEvents(events []repository.FlowEvent) string {
	if len(events) == 0 {
		return "no events recorded"
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("TIME", "EVENT", "ACTIVITY", "PROPERTIES")
	for _, e := range events {
		t.Row(e.CreatedAt.Local().Format("2006-01-02 15:04:05"), e.Name,
			e.ActivityID, formatProperties(e.Properties))
	}
	return t.String()
}

func formatProperties(props map[string]string) string {
	parts := make([]string, 0, len(props))
	for k, v := range props {
		parts = append(parts, k+"="+v)
	}
	slices.Sort(parts)
	return strings.Join(parts, " ")
}

func routeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "route <request>",
		Short: "Resolve a navigation request and print the pages it leads to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*opts)
			if err != nil {
				return err
			}
			strs, err := resources.Load(cfg.Strings.Path)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			request := args[0]

			entry, res := setupflow.Resolve(setupflow.DefaultRoutes, request)
			switch res {
			case setupflow.ResolutionEmpty:
				return errors.New("empty request")
			case setupflow.ResolutionUnmatched:
				msg := fmt.Sprintf("no route for %q", request)
				if hint := setupflow.ClosestKey(setupflow.DefaultRoutes, request); hint != "" {
					msg += fmt.Sprintf(", did you mean %q?", hint)
				}
				return errors.New(msg)
			}
			fmt.Fprintf(out, "entry: %s\n", entry.Kind())

			w, err := wire(context.Background(), cfg, wiringDeps{
				strings: strs,
				logger:  flowlog.Discard(),
			})
			if err != nil {
				return err
			}
			defer w.flow.Close()

			w.flow.Navigate(request)
			fmt.Fprintf(out, "title: %s\n", w.player.Title())
			for i, p := range w.player.Pages() {
				fmt.Fprintf(out, "%d. %s %s\n", i+1, p.Kind(), p.Title())
			}
			return nil
		},
	}
}
