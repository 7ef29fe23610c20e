package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var showJSON bool

var showCmd = &cobra.Command{
	Use:   "show <dir>",
	Short: "Print a summary of a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		service, err := newService()
		if err != nil {
			return fmt.Errorf("initializing builder: %w", err)
		}

		dirs, err := projectDirs(args)
		if err != nil {
			return err
		}

		project, err := service.LoadProject(cmd.Context(), dirs[0])
		if err != nil {
			return err
		}

		if showJSON {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(project)
		}

		fmt.Fprintln(cmd.OutOrStdout(), project.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output the bundle as JSON")
}
