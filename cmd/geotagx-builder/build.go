package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build [dir...]",
	Short: "Validate projects and write their bundles",
	RunE: func(cmd *cobra.Command, args []string) error {
		service, err := newService()
		if err != nil {
			return fmt.Errorf("initializing builder: %w", err)
		}

		ctx := cmd.Context()
		dirs, err := projectDirs(args)
		if err != nil {
			return err
		}
		if len(dirs) == 0 {
			if dirs, err = service.Discover(ctx); err != nil {
				return err
			}
		}

		var errs []error
		for _, dir := range dirs {
			location, err := service.Build(ctx, dir)
			if err != nil {
				slog.Error("build failed", "dir", dir, "error", err)
				errs = append(errs, fmt.Errorf("%s: %w", dir, err))
				continue
			}
			fmt.Fprintln(cmd.OutOrStdout(), location)
		}
		return errors.Join(errs...)
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
