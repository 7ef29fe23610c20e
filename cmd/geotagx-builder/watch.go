package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/geotagx/builder/pkg/adapters/fs"
	lifecycleadapter "github.com/geotagx/builder/pkg/adapters/lifecycle"
	"github.com/geotagx/builder/pkg/core"
)

var watchBuild bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-validate projects as their configuration changes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		service, err := newService()
		if err != nil {
			return fmt.Errorf("initializing builder: %w", err)
		}

		reports, err := service.ValidateAll(ctx)
		if err != nil {
			return err
		}
		for _, r := range reports {
			logReport(r)
		}

		events, err := service.Watch(ctx)
		if err != nil {
			return err
		}

		source := lifecycleadapter.NewSource(events)
		if err := source.Start(ctx); err != nil {
			return err
		}

		slog.Info("watching for changes", "root", cfg.Root)
		for e := range source.Events() {
			event, ok := e.(core.Event)
			if !ok {
				continue
			}
			slog.Debug("change detected", "event", event.String())
			if event.Type == core.EventDelete && slices.Contains(fs.ProjectFiles, event.File) {
				slog.Warn("project configuration removed", "dir", event.Dir, "file", event.File)
				continue
			}
			revalidate(ctx, service, event.Dir)
		}

		slog.Info("watch stopped")
		return nil
	},
}

func revalidate(ctx context.Context, service *core.Service, dir string) {
	if dir == "" {
		dir = "."
	}
	if watchBuild {
		location, err := service.Build(ctx, dir)
		if err != nil {
			logReport(core.Report{Dir: dir, Err: err})
			return
		}
		slog.Info("bundle rebuilt", "dir", dir, "path", location)
		return
	}
	p, err := service.LoadProject(ctx, dir)
	logReport(core.Report{Dir: dir, Project: p, Err: err})
}

func logReport(r core.Report) {
	if r.Valid() {
		slog.Info("project valid", "dir", r.Dir, "slug", r.Project.Slug)
		return
	}
	slog.Error("project invalid", "dir", r.Dir, "error", r.Err)
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().BoolVar(&watchBuild, "build", false, "Rebuild bundles on change")
}
